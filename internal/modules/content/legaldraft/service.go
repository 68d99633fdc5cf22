package legaldraft

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

// Drafts are owner-scoped like notes, with one extra rule: a submitted draft
// is frozen and rejects further edits.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, ownerID string, q pagination.Query) ([]models.LegalDraftModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.LegalDraftModel{}).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC")
	var drafts []models.LegalDraftModel
	meta, err := pagination.Paginate(query, q, &drafts)
	return drafts, meta, err
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.LegalDraftModel, error) {
	var draft models.LegalDraftModel
	err := s.db.WithContext(ctx).First(&draft, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *Service) Create(ctx context.Context, ownerID, title, body string) (*models.LegalDraftModel, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	draft := models.LegalDraftModel{
		Title:   title,
		Body:    body,
		Status:  models.DraftEditing,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, title, body *string) (*models.LegalDraftModel, error) {
	draft, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == models.DraftSubmitted {
		return nil, apperr.Conflict("draft has been submitted and can no longer be edited")
	}

	updates := map[string]interface{}{}
	if title != nil && strings.TrimSpace(*title) != "" {
		updates["title"] = strings.TrimSpace(*title)
	}
	if body != nil {
		updates["body"] = *body
	}
	if len(updates) == 0 {
		return draft, nil
	}
	if err := s.db.WithContext(ctx).Model(draft).Updates(updates).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit freezes a draft. The guarded update makes a concurrent double
// submit a no-op conflict rather than a silent success.
func (s *Service) Submit(ctx context.Context, ownerID, id string) (*models.LegalDraftModel, error) {
	draft, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == models.DraftSubmitted {
		return nil, apperr.Conflict("draft already submitted")
	}

	res := s.db.WithContext(ctx).Model(&models.LegalDraftModel{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, models.DraftEditing).
		Update("status", models.DraftSubmitted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("draft already submitted")
	}
	draft.Status = models.DraftSubmitted
	return draft, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.LegalDraftModel{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
