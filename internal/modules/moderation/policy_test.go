package moderation

import (
	"testing"

	"github.com/lexpress/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		op    string
		role  string
		allow bool
	}{
		{OpDecideArticle, models.RoleSuperAdmin, true},
		{OpDecideArticle, models.RoleAdmin, true},
		{OpDecideArticle, models.RoleManager, true},
		{OpDecideArticle, models.RoleEditor, false},
		{OpDecideArticle, models.RoleUser, false},
		{OpDecideExperience, models.RoleEditor, true},
		{OpDecideExperience, models.RoleManager, false},
		{OpManageUsers, models.RoleSuperAdmin, true},
		{OpManageUsers, models.RoleAdmin, false},
		{OpManageAds, models.RoleManager, true},
		{OpManageArticles, models.RoleEditor, true},
		{OpManageArticles, models.RoleUser, false},
		{OpManageExperiences, models.RoleManager, true},
		{OpManageExperiences, models.RoleUser, false},
		{OpManageSummaries, models.RoleEditor, true},
		{OpManageSummaries, models.RoleManager, false},
		{OpViewAnalytics, models.RoleUser, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allow, Allowed(tc.op, tc.role), "%s %s", tc.op, tc.role)
	}
}

func TestAllowedRolesReturnsCopy(t *testing.T) {
	roles := AllowedRoles(OpManageAds)
	assert.Equal(t, []string{models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager}, roles)

	roles[0] = "INTRUDER"
	assert.True(t, Allowed(OpManageAds, models.RoleSuperAdmin))
	assert.False(t, Allowed(OpManageAds, "INTRUDER"))
}

func TestPolicyUnknownOp(t *testing.T) {
	assert.False(t, Allowed("decide:everything", models.RoleSuperAdmin))
	assert.Empty(t, AllowedRoles("decide:everything"))
}
