package category

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
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

func TestCreateDepthLimit(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateInput{Name: "Politics", Slug: "politics"})
	require.NoError(t, err)

	child, err := svc.Create(ctx, CreateInput{Name: "Elections", Slug: "elections", ParentID: &parent.ID})
	require.NoError(t, err)

	// A third level is not allowed.
	_, err = svc.Create(ctx, CreateInput{Name: "Local", Slug: "local", ParentID: &child.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := "no-such-id"
	_, err = svc.Create(ctx, CreateInput{Name: "Orphan", Slug: "orphan", ParentID: &missing})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Politics", Slug: "politics"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "Politique", Slug: "politics"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGetBySlugPair(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	politics, err := svc.Create(ctx, CreateInput{Name: "Politics", Slug: "politics"})
	require.NoError(t, err)
	sport, err := svc.Create(ctx, CreateInput{Name: "Sport", Slug: "sport"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Elections", Slug: "elections", ParentID: &politics.ID})
	require.NoError(t, err)

	got, err := svc.GetBySlugPair(ctx, "politics", "elections")
	require.NoError(t, err)
	assert.Equal(t, "Elections", got.Name)
	require.NotNil(t, got.Parent)
	assert.Equal(t, politics.ID, got.Parent.ID)

	// The child exists, but not under that parent.
	_, err = svc.GetBySlugPair(ctx, "sport", "elections")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_ = sport
}

func TestGetBySlugTopLevelOnly(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	politics, err := svc.Create(ctx, CreateInput{Name: "Politics", Slug: "politics"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Elections", Slug: "elections", ParentID: &politics.ID})
	require.NoError(t, err)

	// Child slugs do not resolve at the top level.
	_, err = svc.GetBySlug(ctx, "elections")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteBlockedByDependents(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	politics, err := svc.Create(ctx, CreateInput{Name: "Politics", Slug: "politics"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, CreateInput{Name: "Elections", Slug: "elections", ParentID: &politics.ID})
	require.NoError(t, err)

	// A parent with children cannot be removed.
	err = svc.Delete(ctx, politics.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Neither can a category with articles filed under it.
	require.NoError(t, db.Create(&models.ArticleModel{
		Title: "x", Slug: "x", Status: models.ArticlePublished, CategoryID: &child.ID,
	}).Error)
	err = svc.Delete(ctx, child.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestTreeOrdering(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Sport", "Economy", "Politics"} {
		_, err := svc.Create(ctx, CreateInput{Name: name, Slug: strings.ToLower(name)})
		require.NoError(t, err)
	}

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "Economy", tree[0].Name)
	assert.Equal(t, "Politics", tree[1].Name)
	assert.Equal(t, "Sport", tree[2].Name)
}
