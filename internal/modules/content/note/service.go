package note

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

// Notes are strictly owner-scoped: every query is keyed by the caller's id,
// so another user's note reads as absent.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, ownerID string, q pagination.Query) ([]models.NoteModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.NoteModel{}).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC")
	var notes []models.NoteModel
	meta, err := pagination.Paginate(query, q, &notes)
	return notes, meta, err
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.NoteModel, error) {
	var note models.NoteModel
	err := s.db.WithContext(ctx).First(&note, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *Service) Create(ctx context.Context, ownerID, title, body string) (*models.NoteModel, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return nil, apperr.Validation("note is empty")
	}
	note := models.NoteModel{
		Title:   strings.TrimSpace(title),
		Body:    body,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, title, body *string) (*models.NoteModel, error) {
	note, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = strings.TrimSpace(*title)
	}
	if body != nil {
		updates["body"] = *body
	}
	if len(updates) == 0 {
		return note, nil
	}
	if err := s.db.WithContext(ctx).Model(note).Updates(updates).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.NoteModel{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
