package experience

import (
	"context"
	"fmt"
	"testing"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func TestSubmitExperience(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	exp, err := svc.Submit(ctx, SubmitInput{
		Title: "My day in court", Story: "It took three hours.", AuthorName: "A. Reader",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExperiencePending, exp.Status)

	_, err = svc.Submit(ctx, SubmitInput{Title: "", Story: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Submit(ctx, SubmitInput{Title: "t", Story: " "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var audit []models.ActivityLogModel
	require.NoError(t, db.Where("action = ?", models.ActionSubmitExperience).Find(&audit).Error)
	assert.Len(t, audit, 1)
}

func TestExperienceVisibility(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	pending, err := svc.Submit(ctx, SubmitInput{Title: "Pending", Story: "s"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, pending.ID, false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := svc.Get(ctx, pending.ID, true)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	require.NoError(t, db.Model(&models.ExperienceModel{}).
		Where("id = ?", pending.ID).
		Update("status", models.ExperienceApproved).Error)

	list, _, err := svc.List(ctx, pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}
