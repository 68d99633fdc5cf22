package category

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Tree returns all top-level categories with their children preloaded.
func (s *Service) Tree(ctx context.Context) ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Preload("Children").
		Order("name ASC").
		Find(&cats).Error
	return cats, err
}

// GetByID returns a category by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	err := s.db.WithContext(ctx).Preload("Children").First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetBySlug resolves a top-level category by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("slug = ? AND parent_id IS NULL", slug).
		Preload("Children").
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetBySlugPair resolves a child category by its parent's slug and its own
// slug. The pair must actually be linked; a matching child under a different
// parent does not resolve.
func (s *Service) GetBySlugPair(ctx context.Context, parentSlug, childSlug string) (*models.CategoryModel, error) {
	parent, err := s.GetBySlug(ctx, parentSlug)
	if err != nil {
		return nil, err
	}
	var cat models.CategoryModel
	err = s.db.WithContext(ctx).
		Where("slug = ? AND parent_id = ?", childSlug, parent.ID).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cat.Parent = parent
	return &cat, nil
}

type CreateInput struct {
	Name     string
	Slug     string
	ParentID *string
}

// Create inserts a category. The tree is limited to two levels, so the parent
// of a new category must itself be top-level.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.CategoryModel, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(strings.ToLower(in.Slug))
	if name == "" || slug == "" {
		return nil, apperr.Validation("name and slug are required")
	}

	if in.ParentID != nil {
		var parent models.CategoryModel
		err := s.db.WithContext(ctx).First(&parent, "id = ?", *in.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("parent category does not exist")
		}
		if err != nil {
			return nil, err
		}
		if !parent.IsTopLevel() {
			return nil, apperr.Validation("categories can nest at most one level deep")
		}
	}

	cat := models.CategoryModel{Name: name, Slug: slug, ParentID: in.ParentID}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("category slug already in use")
		}
		return nil, err
	}
	return &cat, nil
}

type UpdateInput struct {
	Name *string
	Slug *string
}

// Update renames a category or changes its slug. Reparenting is not
// supported; delete and recreate instead.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.CategoryModel, error) {
	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		updates["slug"] = strings.TrimSpace(strings.ToLower(*in.Slug))
	}
	if len(updates) == 0 {
		return cat, nil
	}

	if err := s.db.WithContext(ctx).Model(cat).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("category slug already in use")
		}
		return nil, err
	}
	return cat, nil
}

// Delete removes a category. Categories that still hold children or articles
// are protected.
func (s *Service) Delete(ctx context.Context, id string) error {
	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var children int64
	if err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return apperr.Conflict("category still has child categories")
	}

	var articles int64
	if err := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("category_id = ?", id).Count(&articles).Error; err != nil {
		return err
	}
	if articles > 0 {
		return apperr.Conflict("category still has articles")
	}

	return s.db.WithContext(ctx).Delete(cat).Error
}
