package ads

import (
	"context"
	"fmt"
	"testing"
	"time"

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

func testService(t *testing.T, at time.Time) (*Service, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	svc := NewService(db, zap.NewNop())
	svc.now = func() time.Time { return at }
	return svc, db
}

func TestSelectRespectsDateWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, db := testService(t, now)

	seed := []models.AdvertisementModel{
		{Title: "expired", Placement: models.PlacementTopBanner, Active: true,
			StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0)},
		{Title: "future", Placement: models.PlacementTopBanner, Active: true,
			StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0)},
		{Title: "inactive", Placement: models.PlacementTopBanner, Active: false,
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)},
		{Title: "live", Placement: models.PlacementTopBanner, Active: true,
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	got, err := svc.Select(context.Background(), SelectQuery{Placement: models.PlacementTopBanner})
	require.NoError(t, err)
	assert.Equal(t, "live", got.Title)
	assert.Equal(t, 1, got.ViewCount)

	var stored models.AdvertisementModel
	require.NoError(t, db.First(&stored, "id = ?", got.ID).Error)
	assert.Equal(t, 1, stored.ViewCount)
}

func TestSelectDeterministicTieBreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, db := testService(t, now)

	created := now.Add(-48 * time.Hour)
	a := models.AdvertisementModel{Title: "a", Placement: models.PlacementSidebar, Active: true,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	a.ID = "aaaa"
	a.CreatedAt = created
	b := models.AdvertisementModel{Title: "b", Placement: models.PlacementSidebar, Active: true,
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	b.ID = "bbbb"
	b.CreatedAt = created
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&a).Error)

	for i := 0; i < 3; i++ {
		got, err := svc.Select(context.Background(), SelectQuery{Placement: models.PlacementSidebar})
		require.NoError(t, err)
		assert.Equal(t, "aaaa", got.ID)
	}
}

func TestSelectNarrowing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, db := testService(t, now)

	catID := "cat-politics"
	require.NoError(t, db.Create(&models.CategoryModel{Base: models.Base{ID: catID}, Name: "Politics", Slug: "politics"}).Error)

	general := models.AdvertisementModel{Title: "general", Placement: models.PlacementCategoryPage, Active: true,
		Location: "paris", StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	targeted := models.AdvertisementModel{Title: "targeted", Placement: models.PlacementCategoryPage, Active: true,
		Location: "lyon", CategoryID: &catID, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)}
	require.NoError(t, db.Create(&general).Error)
	require.NoError(t, db.Create(&targeted).Error)

	got, err := svc.Select(context.Background(), SelectQuery{
		Placement: models.PlacementCategoryPage, Location: "lyon", CategoryID: catID,
	})
	require.NoError(t, err)
	assert.Equal(t, "targeted", got.Title)

	_, err = svc.Select(context.Background(), SelectQuery{
		Placement: models.PlacementCategoryPage, Location: "marseille",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSelectUnknownPlacement(t *testing.T) {
	svc, _ := testService(t, time.Now())
	_, err := svc.Select(context.Background(), SelectQuery{Placement: "FOOTER"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateValidatesWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := testService(t, now)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "backwards",
		Placement: models.PlacementTopBanner,
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ad, err := svc.Create(context.Background(), CreateInput{
		Title:     "spring campaign",
		Placement: models.PlacementTopBanner,
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.True(t, ad.Active, "ads default to active")
}

func TestClick(t *testing.T) {
	now := time.Now()
	svc, db := testService(t, now)

	ad := models.AdvertisementModel{Title: "x", Placement: models.PlacementSidebar, Active: true,
		StartDate: now, EndDate: now.Add(time.Hour)}
	require.NoError(t, db.Create(&ad).Error)

	require.NoError(t, svc.Click(context.Background(), ad.ID))
	require.NoError(t, svc.Click(context.Background(), ad.ID))

	var stored models.AdvertisementModel
	require.NoError(t, db.First(&stored, "id = ?", ad.ID).Error)
	assert.Equal(t, 2, stored.ClickCount)

	assert.ErrorIs(t, svc.Click(context.Background(), "missing"), apperr.ErrNotFound)
}
