package ads

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

// SelectQuery narrows ad selection to a placement slot.
type SelectQuery struct {
	Placement  string
	Location   string
	CategoryID string
}

// Select picks the ad to serve for a slot: active, inside its date window,
// matching the requested narrowing. Among candidates the earliest-created
// wins, with id as the final tie-break so selection is deterministic.
// Serving the ad increments its view counter.
func (s *Service) Select(ctx context.Context, q SelectQuery) (*models.AdvertisementModel, error) {
	if !models.ValidPlacement(q.Placement) {
		return nil, apperr.Validation("unknown placement")
	}

	now := s.now()
	query := s.db.WithContext(ctx).
		Where("placement = ? AND active = ?", q.Placement, true).
		Where("start_date <= ? AND end_date >= ?", now, now)

	if q.Location != "" {
		query = query.Where("location = ?", q.Location)
	}
	if q.CategoryID != "" {
		query = query.Where("category_id = ?", q.CategoryID)
	}

	var ad models.AdvertisementModel
	err := query.Order("created_at ASC, id ASC").First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.AdvertisementModel{}).
		Where("id = ?", ad.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		s.log.Warn("failed to count ad view", zap.Error(err))
	}
	ad.ViewCount++
	return &ad, nil
}

// Click counts a click-through on a served ad.
func (s *Service) Click(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.AdvertisementModel{}).
		Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// List is the admin listing of all ads regardless of state.
func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.AdvertisementModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.AdvertisementModel{}).
		Preload("Category").
		Order("created_at DESC")
	var adsList []models.AdvertisementModel
	meta, err := pagination.Paginate(query, q, &adsList)
	return adsList, meta, err
}

// GetByID returns a single ad.
func (s *Service) GetByID(ctx context.Context, id string) (*models.AdvertisementModel, error) {
	var ad models.AdvertisementModel
	err := s.db.WithContext(ctx).Preload("Category").First(&ad, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

type CreateInput struct {
	Title      string
	Placement  string
	Location   string
	CategoryID *string
	ImageURL   string
	TargetURL  string
	StartDate  time.Time
	EndDate    time.Time
	Active     *bool
}

// Create inserts an ad after validating its placement and date window.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.AdvertisementModel, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if !models.ValidPlacement(in.Placement) {
		return nil, apperr.Validation("unknown placement")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperr.Validation("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, apperr.Validation("end date precedes start date")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	ad := models.AdvertisementModel{
		Title:      strings.TrimSpace(in.Title),
		Placement:  in.Placement,
		Location:   strings.TrimSpace(in.Location),
		CategoryID: in.CategoryID,
		ImageURL:   in.ImageURL,
		TargetURL:  in.TargetURL,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Active:     active,
	}
	if err := s.db.WithContext(ctx).Create(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

type UpdateInput struct {
	Title     *string
	Location  *string
	ImageURL  *string
	TargetURL *string
	StartDate *time.Time
	EndDate   *time.Time
	Active    *bool
}

// Update edits an ad. The date window is revalidated against the merged
// values.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.AdvertisementModel, error) {
	ad, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := ad.StartDate, ad.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if end.Before(start) {
		return nil, apperr.Validation("end date precedes start date")
	}

	updates := map[string]interface{}{}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.TargetURL != nil {
		updates["target_url"] = *in.TargetURL
	}
	if in.StartDate != nil {
		updates["start_date"] = start
	}
	if in.EndDate != nil {
		updates["end_date"] = end
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if len(updates) == 0 {
		return ad, nil
	}

	if err := s.db.WithContext(ctx).Model(ad).Updates(updates).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete removes an ad.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.AdvertisementModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
