package summary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/config"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/taskqueue"
)

const taskTypeSummary = "article_summary"

type summaryPayload struct {
	ArticleID string `json:"article_id"`
}

// Service generates article abstracts asynchronously. Generation runs off
// the request path; the article's summary field fills in when the provider
// responds.
type Service struct {
	db    *gorm.DB
	cfg   config.AIConfig
	tasks *taskqueue.Service
	log   *zap.Logger
}

func NewService(db *gorm.DB, cfg config.AIConfig, tasks *taskqueue.Service, log *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, tasks: tasks, log: log}
}

// Schedule queues summary generation for an article. Duplicate schedules for
// the same article collapse onto the pending task. A no-op when no provider
// is configured.
func (s *Service) Schedule(ctx context.Context, articleID string) {
	if !s.cfg.Enabled() {
		return
	}

	task, err := s.tasks.Enqueue(ctx, taskTypeSummary, summaryPayload{ArticleID: articleID}, articleID)
	if err != nil {
		s.log.Warn("failed to enqueue summary task", zap.String("article_id", articleID), zap.Error(err))
		return
	}
	if task.Status != taskqueue.TaskPending {
		return
	}

	go s.run(task.ID, articleID)
}

func (s *Service) run(taskID, articleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, ""); err != nil {
		s.log.Warn("failed to mark summary task running", zap.Error(err))
	}

	text, err := s.Generate(ctx, articleID)
	if err != nil {
		s.log.Warn("summary generation failed", zap.String("article_id", articleID), zap.Error(err))
		_ = s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}
	_ = s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{"summary": text}, "")
}

// Generate produces and stores a summary synchronously.
func (s *Service) Generate(ctx context.Context, articleID string) (string, error) {
	var article models.ArticleModel
	err := s.db.WithContext(ctx).First(&article, "id = ?", articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	text, err := generate(ctx, s.cfg, article.Title, article.Content)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&article).Update("summary", text).Error; err != nil {
		return "", err
	}
	return text, nil
}

// Remove clears a stored summary so the article renders without one.
func (s *Service) Remove(ctx context.Context, articleID string) error {
	var article models.ArticleModel
	err := s.db.WithContext(ctx).Select("id").First(&article, "id = ?", articleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&article).Update("summary", "").Error
}

// Tasks lists recent summary tasks for the admin panel.
func (s *Service) Tasks(ctx context.Context, page, size int) ([]*taskqueue.Task, int64, error) {
	taskType := taskTypeSummary
	return s.tasks.List(ctx, page, size, &taskType)
}

// TaskResult decodes a completed task's stored summary, for display.
func TaskResult(task *taskqueue.Task) string {
	if task == nil || len(task.Result) == 0 {
		return ""
	}
	var result map[string]string
	if err := json.Unmarshal(task.Result, &result); err != nil {
		return ""
	}
	return result["summary"]
}
