package moderation

import (
	"context"
	"fmt"
	"testing"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
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

func seedPendingArticle(t *testing.T, db *gorm.DB, authorID *string) *models.ArticleModel {
	t.Helper()
	article := &models.ArticleModel{
		Title:    "Court ruling on tenancy deposits",
		Slug:     "court-ruling-on-tenancy-deposits",
		Content:  "The ruling changes how deposits are held.",
		Status:   models.ArticlePending,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

func TestDecideArticleApprove(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)
	article := seedPendingArticle(t, db, nil)

	got, err := svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: true, Comment: "good to go"}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ArticlePublished, got.Status)
	assert.Equal(t, "good to go", got.ApprovalComments)

	// Anonymous submissions get the approving admin as author of record.
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, "admin-1", *got.AuthorID)

	var audit []models.ActivityLogModel
	require.NoError(t, db.Where("action = ?", models.ActionApproveArticle).Find(&audit).Error)
	assert.Len(t, audit, 1)
}

func TestDecideArticleReject(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)
	author := "reader-1"
	article := seedPendingArticle(t, db, &author)

	got, err := svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: false, Comment: "duplicate coverage"}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleRejected, got.Status)
	assert.Equal(t, "duplicate coverage", got.ApprovalComments)

	// Rejection must not rebind authorship.
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, "reader-1", *got.AuthorID)
}

func TestDecideArticleOnlyOnce(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)
	article := seedPendingArticle(t, db, nil)

	_, err := svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: true}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: false}, "admin-2", models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrAlreadyDecided)

	// The first decision stands.
	var stored models.ArticleModel
	require.NoError(t, db.First(&stored, "id = ?", article.ID).Error)
	assert.Equal(t, models.ArticlePublished, stored.Status)
}

func TestDecideArticleUnknownID(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)

	_, err := svc.DecideArticle(context.Background(), "missing",
		DecideInput{Approve: true}, "admin-1", models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDecideArticleRoleGate(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)
	article := seedPendingArticle(t, db, nil)

	_, err := svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: true}, "user-1", models.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// Editors decide experiences, not articles.
	_, err = svc.DecideArticle(context.Background(), article.ID,
		DecideInput{Approve: true}, "editor-1", models.RoleEditor)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestDecideExperience(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil)
	exp := &models.ExperienceModel{
		Title:      "My day in small claims court",
		Story:      "It took three hours but the process worked.",
		AuthorName: "A. Reader",
		Status:     models.ExperiencePending,
	}
	require.NoError(t, db.Create(exp).Error)

	got, err := svc.DecideExperience(context.Background(), exp.ID,
		DecideInput{Approve: true}, "editor-1", models.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceApproved, got.Status)

	_, err = svc.DecideExperience(context.Background(), exp.ID,
		DecideInput{Approve: false}, "editor-1", models.RoleEditor)
	assert.ErrorIs(t, err, apperr.ErrAlreadyDecided)

	// Managers have no say over experiences.
	exp2 := &models.ExperienceModel{Title: "Another story", Story: "...", Status: models.ExperiencePending}
	require.NoError(t, db.Create(exp2).Error)
	_, err = svc.DecideExperience(context.Background(), exp2.ID,
		DecideInput{Approve: true}, "mgr-1", models.RoleManager)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

type recordingScheduler struct {
	ids []string
}

func (r *recordingScheduler) Schedule(_ context.Context, articleID string) {
	r.ids = append(r.ids, articleID)
}

func TestDecideArticleSchedulesSummary(t *testing.T) {
	db := testDB(t)
	sched := &recordingScheduler{}
	svc := NewService(db, zap.NewNop(), nil, sched)

	approved := seedPendingArticle(t, db, nil)
	_, err := svc.DecideArticle(context.Background(), approved.ID,
		DecideInput{Approve: true}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)

	rejected := &models.ArticleModel{Title: "x", Slug: "x", Status: models.ArticlePending}
	require.NoError(t, db.Create(rejected).Error)
	_, err = svc.DecideArticle(context.Background(), rejected.ID,
		DecideInput{Approve: false}, "admin-1", models.RoleAdmin)
	require.NoError(t, err)

	// Only publications trigger a summary task.
	assert.Equal(t, []string{approved.ID}, sched.ids)
}
