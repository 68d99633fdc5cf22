package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lexpress/core/internal/config"
	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/taskqueue"
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

func TestRemoveClearsSummary(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.AIConfig{}, nil, zap.NewNop())

	article := &models.ArticleModel{
		Title:   "Budget vote passes",
		Slug:    "budget-vote-passes",
		Status:  models.ArticlePublished,
		Summary: "The council approved the budget.",
	}
	require.NoError(t, db.Create(article).Error)

	require.NoError(t, svc.Remove(context.Background(), article.ID))

	var stored models.ArticleModel
	require.NoError(t, db.First(&stored, "id = ?", article.ID).Error)
	assert.Empty(t, stored.Summary)

	// Clearing an already-empty summary is fine.
	require.NoError(t, svc.Remove(context.Background(), article.ID))

	err := svc.Remove(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTaskResult(t *testing.T) {
	assert.Empty(t, TaskResult(nil))
	assert.Empty(t, TaskResult(&taskqueue.Task{}))
	assert.Empty(t, TaskResult(&taskqueue.Task{Result: json.RawMessage(`not json`)}))

	task := &taskqueue.Task{Result: json.RawMessage(`{"summary":"Two sentences."}`)}
	assert.Equal(t, "Two sentences.", TaskResult(task))
}

func TestScheduleDisabledWithoutProvider(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, config.AIConfig{}, nil, zap.NewNop())

	// No provider configured: Schedule must not touch the task queue.
	svc.Schedule(context.Background(), "any-id")
}
