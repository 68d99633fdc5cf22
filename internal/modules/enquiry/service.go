package enquiry

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

// Broadcaster notifies connected admin clients about new enquiries.
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

type CreateInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Create records a contact-form enquiry in ACTIVE state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.EnquiryModel, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, apperr.Validation("name and email are required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validation("message is required")
	}

	enq := models.EnquiryModel{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
		Status:  models.EnquiryActive,
	}
	if err := s.db.WithContext(ctx).Create(&enq).Error; err != nil {
		return nil, err
	}

	audit := models.ActivityLogModel{
		Action: models.ActionCreateEnquiry,
		Details: map[string]interface{}{
			"enquiry_id": enq.ID,
			"subject":    enq.Subject,
		},
	}
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.log.Warn("failed to record enquiry activity", zap.Error(err))
	}

	if s.hub != nil {
		s.hub.BroadcastAdmin("ENQUIRY_CREATED", map[string]interface{}{
			"id":      enq.ID,
			"subject": enq.Subject,
		})
	}
	return &enq, nil
}

// List returns enquiries for the admin inbox, optionally filtered by status,
// newest first.
func (s *Service) List(ctx context.Context, status string, q pagination.Query) ([]models.EnquiryModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.EnquiryModel{}).Order("created_at DESC")
	if status != "" {
		if !models.ValidEnquiryStatus(status) {
			return nil, response.Pagination{}, apperr.Validation("unknown enquiry status")
		}
		query = query.Where("status = ?", status)
	}
	var enqs []models.EnquiryModel
	meta, err := pagination.Paginate(query, q, &enqs)
	return enqs, meta, err
}

// UpdateStatus moves an enquiry between statuses. Any known status is a
// valid target; enquiries carry no transition rules.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.EnquiryModel, error) {
	if !models.ValidEnquiryStatus(status) {
		return nil, apperr.Validation("unknown enquiry status")
	}

	var enq models.EnquiryModel
	err := s.db.WithContext(ctx).First(&enq, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&enq).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &enq, nil
}
