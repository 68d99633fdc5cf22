package article

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

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Budget Vote Passes", "budget-vote-passes"},
		{"  Breaking: l'affaire du siècle!  ", "breaking-l-affaire-du-si-cle"},
		{"---", "untitled"},
		{"", "untitled"},
		{"UPPER lower 123", "upper-lower-123"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSubmitCreatesPending(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)

	got, err := svc.Submit(context.Background(), SubmitInput{
		Title:   "Budget Vote Passes",
		Content: "# Heading\n\nBody text.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticlePending, got.Status)
	assert.Equal(t, "budget-vote-passes", got.Slug)
	assert.Contains(t, got.RenderedHTML, "<h1")
	assert.Nil(t, got.AuthorID)

	var audit []models.ActivityLogModel
	require.NoError(t, db.Where("action = ?", models.ActionSubmitArticle).Find(&audit).Error)
	assert.Len(t, audit, 1)
}

func TestSubmitValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{Title: "", Content: "body"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Submit(ctx, SubmitInput{Title: "t", Content: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Submit(ctx, SubmitInput{Title: "t", Content: "body", CategoryID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSubmitSlugCollision(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{Title: "Same Title", Content: "a"})
	require.NoError(t, err)
	assert.Equal(t, "same-title", first.Slug)

	second, err := svc.Submit(ctx, SubmitInput{Title: "Same Title", Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetVisibility(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	pending, err := svc.Submit(ctx, SubmitInput{Title: "Pending Story", Content: "x"})
	require.NoError(t, err)

	// Unpublished reads as absent for the public.
	_, err = svc.Get(ctx, pending.ID, false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Staff can see it, by id or slug.
	got, err := svc.Get(ctx, pending.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	require.NoError(t, db.Model(&models.ArticleModel{}).
		Where("id = ?", pending.ID).
		Update("status", models.ArticlePublished).Error)

	got, err = svc.Get(ctx, pending.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ArticlePublished, got.Status)
}

func TestListOnlyPublished(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	cat := models.CategoryModel{Name: "Politics", Slug: "politics"}
	require.NoError(t, db.Create(&cat).Error)

	seed := []models.ArticleModel{
		{Title: "published politics", Slug: "p1", Status: models.ArticlePublished, CategoryID: &cat.ID},
		{Title: "published other", Slug: "p2", Status: models.ArticlePublished},
		{Title: "pending", Slug: "p3", Status: models.ArticlePending},
		{Title: "rejected", Slug: "p4", Status: models.ArticleRejected},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	list, meta, err := svc.List(ctx, ListQuery{}, pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, meta.Total)

	list, _, err = svc.List(ctx, ListQuery{CategorySlug: "politics"}, pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "published politics", list[0].Title)

	list, _, err = svc.List(ctx, ListQuery{Search: "other"}, pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "published other", list[0].Title)
}

func TestLatestClampsLimit(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&models.ArticleModel{
			Title: fmt.Sprintf("a%d", i), Slug: fmt.Sprintf("a%d", i), Status: models.ArticlePublished,
		}).Error)
	}

	list, err := svc.Latest(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 10)

	list, err = svc.Latest(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, list, 15)
}

func TestDeleteIsSoft(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop(), nil)
	ctx := context.Background()

	article := models.ArticleModel{Title: "x", Slug: "x", Status: models.ArticlePublished}
	require.NoError(t, db.Create(&article).Error)

	require.NoError(t, svc.Delete(ctx, article.ID))
	assert.ErrorIs(t, svc.Delete(ctx, article.ID), apperr.ErrNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.ArticleModel{}).
		Where("id = ?", article.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "soft delete keeps the row")
}
