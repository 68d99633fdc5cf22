package moderation

import "github.com/lexpress/core/internal/models"

// Privileged operations. Role checks go through this table so the allowed
// sets live in one place instead of being scattered per endpoint.
const (
	OpDecideArticle     = "decide:article"
	OpDecideExperience  = "decide:experience"
	OpManageAds         = "manage:ads"
	OpManageArticles    = "manage:articles"
	OpManageCategories  = "manage:categories"
	OpManageEnquiries   = "manage:enquiries"
	OpManageExperiences = "manage:experiences"
	OpManageSummaries   = "manage:summaries"
	OpManageUsers       = "manage:users"
	OpViewAnalytics     = "view:analytics"
	OpViewAuditLog      = "view:audit_log"
)

var policy = map[string][]string{
	OpDecideArticle:     {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	OpDecideExperience:  {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor},
	OpManageAds:         {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	OpManageArticles:    {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager, models.RoleEditor},
	OpManageCategories:  {models.RoleSuperAdmin, models.RoleAdmin},
	OpManageEnquiries:   {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager},
	OpManageExperiences: {models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager, models.RoleEditor},
	OpManageSummaries:   {models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor},
	OpManageUsers:       {models.RoleSuperAdmin},
	OpViewAnalytics:     {models.RoleSuperAdmin, models.RoleAdmin},
	OpViewAuditLog:      {models.RoleSuperAdmin, models.RoleAdmin},
}

// Allowed reports whether role may perform op.
func Allowed(op, role string) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the allowed role set for op, for use with the
// RequireRoles middleware.
func AllowedRoles(op string) []string {
	roles := policy[op]
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
