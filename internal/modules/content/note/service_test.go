package note

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
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

func TestNoteOwnerScoping(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	note, err := svc.Create(ctx, "owner-1", "Interview leads", "Call the clerk's office.")
	require.NoError(t, err)

	// The owner reads it back; anyone else sees nothing.
	got, err := svc.Get(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Interview leads", got.Title)

	_, err = svc.Get(ctx, "owner-2", note.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, meta, err := svc.List(ctx, "owner-2", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.EqualValues(t, 0, meta.Total)

	err = svc.Delete(ctx, "owner-2", note.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "owner-1", note.ID))
}

func TestNoteUpdatePartial(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	ctx := context.Background()

	note, err := svc.Create(ctx, "owner-1", "Draft", "First body.")
	require.NoError(t, err)

	title := "  Renamed  "
	got, err := svc.Update(ctx, "owner-1", note.ID, &title, nil)
	require.NoError(t, err)

	var stored struct {
		Title string
		Body  string
	}
	require.NoError(t, db.Table("notes").Where("id = ?", note.ID).Take(&stored).Error)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, "First body.", stored.Body)
	assert.NotNil(t, got)

	// No fields supplied: nothing to write.
	got, err = svc.Update(ctx, "owner-1", note.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = svc.Update(ctx, "owner-2", note.ID, &title, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNoteCreateValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), "owner-1", "   ", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
