package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateValidatesRole(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		Username: "ed", Email: "ed@example.com", Password: "long-enough", Role: "OVERLORD",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	user, err := svc.Create(ctx, CreateInput{
		Username: "ed", Email: "ed@example.com", Password: "long-enough", Role: models.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.Empty(t, user.Password)
}

func TestSetRoleRevokesSessions(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{
		Username: "ed", Email: "ed@example.com", Password: "long-enough", Role: models.RoleUser,
	})
	require.NoError(t, err)

	sess := models.UserSession{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&sess).Error)

	got, err := svc.SetRole(ctx, user.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, got.Role)

	var stored models.UserSession
	require.NoError(t, db.First(&stored, "id = ?", sess.ID).Error)
	assert.NotNil(t, stored.RevokedAt, "role changes revoke existing sessions")

	_, err = svc.SetRole(ctx, user.ID, "OVERLORD")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.SetRole(ctx, "missing", models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListFilterByRole(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for i, role := range []string{models.RoleUser, models.RoleUser, models.RoleEditor} {
		_, err := svc.Create(ctx, CreateInput{
			Username: fmt.Sprintf("u%d", i),
			Email:    fmt.Sprintf("u%d@example.com", i),
			Password: "long-enough",
			Role:     role,
		})
		require.NoError(t, err)
	}

	list, _, err := svc.List(ctx, models.RoleEditor, pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RoleEditor, list[0].Role)
	assert.Empty(t, list[0].Password)

	list, meta, err := svc.List(ctx, "", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.EqualValues(t, 3, meta.Total)
}
