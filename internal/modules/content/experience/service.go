package experience

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

// Broadcaster notifies connected admin clients about submissions.
type Broadcaster interface {
	BroadcastAdmin(event string, data interface{})
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	hub Broadcaster
}

func NewService(db *gorm.DB, log *zap.Logger, hub Broadcaster) *Service {
	return &Service{db: db, log: log, hub: hub}
}

// List returns approved experiences, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.ExperienceModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ExperienceModel{}).
		Where("status = ?", models.ExperienceApproved).
		Order("created_at DESC")
	var exps []models.ExperienceModel
	meta, err := pagination.Paginate(query, q, &exps)
	return exps, meta, err
}

// Get returns a single experience. Unprivileged callers only see approved
// ones.
func (s *Service) Get(ctx context.Context, id string, privileged bool) (*models.ExperienceModel, error) {
	var exp models.ExperienceModel
	err := s.db.WithContext(ctx).First(&exp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !privileged && exp.Status != models.ExperienceApproved {
		return nil, apperr.ErrNotFound
	}
	return &exp, nil
}

type SubmitInput struct {
	Title      string
	Story      string
	AuthorName string
	AuthorID   *string
}

// Submit creates a PENDING experience.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ExperienceModel, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Story) == "" {
		return nil, apperr.Validation("story is required")
	}

	exp := models.ExperienceModel{
		Title:      title,
		Story:      in.Story,
		Status:     models.ExperiencePending,
		AuthorName: strings.TrimSpace(in.AuthorName),
		AuthorID:   in.AuthorID,
	}
	if err := s.db.WithContext(ctx).Create(&exp).Error; err != nil {
		return nil, err
	}

	audit := models.ActivityLogModel{
		Action: models.ActionSubmitExperience,
		UserID: in.AuthorID,
		Details: map[string]interface{}{
			"experience_id": exp.ID,
			"title":         exp.Title,
		},
	}
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.log.Warn("failed to record submission activity", zap.Error(err))
	}

	if s.hub != nil {
		s.hub.BroadcastAdmin("EXPERIENCE_SUBMITTED", map[string]interface{}{
			"id":    exp.ID,
			"title": exp.Title,
		})
	}
	return &exp, nil
}
