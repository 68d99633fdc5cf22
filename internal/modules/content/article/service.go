package article

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/markdown"
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

// List returns published articles, newest first, optionally narrowed by
// category and a title/content search term.
func (s *Service) List(ctx context.Context, lq ListQuery, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("status = ?", models.ArticlePublished).
		Preload("Category").
		Order("created_at DESC")

	if lq.CategoryID != "" {
		query = query.Where("category_id = ?", lq.CategoryID)
	} else if lq.CategorySlug != "" {
		query = query.Where("category_id IN (?)",
			s.db.Model(&models.CategoryModel{}).Select("id").Where("slug = ?", lq.CategorySlug))
	}
	if lq.Search != "" {
		term := "%" + lq.Search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", term, term)
	}

	var articles []models.ArticleModel
	meta, err := pagination.Paginate(query, q, &articles)
	return articles, meta, err
}

// ListAll is the admin listing: every status, optionally filtered.
func (s *Service) ListAll(ctx context.Context, lq ListQuery, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Preload("Category").
		Order("created_at DESC")

	if lq.Status != "" {
		query = query.Where("status = ?", lq.Status)
	}
	if lq.CategoryID != "" {
		query = query.Where("category_id = ?", lq.CategoryID)
	}
	if lq.Search != "" {
		term := "%" + lq.Search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", term, term)
	}

	var articles []models.ArticleModel
	meta, err := pagination.Paginate(query, q, &articles)
	return articles, meta, err
}

// Latest returns the n most recently published articles.
func (s *Service) Latest(ctx context.Context, n int) ([]models.ArticleModel, error) {
	if n < 1 || n > 50 {
		n = 10
	}
	var articles []models.ArticleModel
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ArticlePublished).
		Preload("Category").
		Order("created_at DESC").
		Limit(n).
		Find(&articles).Error
	return articles, err
}

// Get resolves an article by id or slug. Unprivileged callers only see
// published articles; unpublished ones read as absent rather than forbidden.
func (s *Service) Get(ctx context.Context, identifier string, privileged bool) (*models.ArticleModel, error) {
	var article models.ArticleModel
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Where("id = ? OR slug = ?", identifier, identifier).
		First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !privileged && article.Status != models.ArticlePublished {
		return nil, apperr.ErrNotFound
	}
	if article.Author != nil {
		article.Author.Password = ""
	}
	return &article, nil
}

// Submit creates a PENDING article. The markdown body is rendered once at
// write time and stored alongside the source.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ArticleModel, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("content is required")
	}

	if in.CategoryID != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
			Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperr.Validation("category does not exist")
		}
	}

	rendered, err := markdown.Render(in.Content)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}

	article := models.ArticleModel{
		Title:        title,
		Slug:         slug,
		Content:      in.Content,
		RenderedHTML: rendered,
		Status:       models.ArticlePending,
		AuthorID:     in.AuthorID,
	}
	if in.CategoryID != "" {
		article.CategoryID = &in.CategoryID
	}

	if err := s.create(ctx, &article); err != nil {
		return nil, err
	}

	audit := models.ActivityLogModel{
		Action: models.ActionSubmitArticle,
		UserID: in.AuthorID,
		Details: map[string]interface{}{
			"article_id": article.ID,
			"title":      article.Title,
		},
	}
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.log.Warn("failed to record submission activity", zap.Error(err))
	}

	if s.hub != nil {
		s.hub.BroadcastAdmin("ARTICLE_SUBMITTED", map[string]interface{}{
			"id":    article.ID,
			"title": article.Title,
		})
	}
	return &article, nil
}

// create inserts, retrying once with a numeric suffix when the slug collides.
func (s *Service) create(ctx context.Context, article *models.ArticleModel) error {
	base := article.Slug
	for attempt := 0; attempt < 3; attempt++ {
		err := s.db.WithContext(ctx).Create(article).Error
		if err == nil {
			return nil
		}
		if !database.IsDuplicateKey(err) {
			return err
		}
		article.ID = ""
		article.Slug = fmt.Sprintf("%s-%d", base, attempt+2)
	}
	return apperr.Conflict("article slug already in use")
}

// Update edits an article's content fields. Status is never touched here;
// that goes through moderation.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.ArticleModel, error) {
	var article models.ArticleModel
	if err := s.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		rendered, err := markdown.Render(*in.Content)
		if err != nil {
			return nil, err
		}
		updates["content"] = *in.Content
		updates["rendered_html"] = rendered
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		updates["slug"] = Slugify(*in.Slug)
	}
	if in.CategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
			Where("id = ?", *in.CategoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperr.Validation("category does not exist")
		}
		updates["category_id"] = *in.CategoryID
	}
	if len(updates) == 0 {
		return &article, nil
	}

	if err := s.db.WithContext(ctx).Model(&article).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("article slug already in use")
		}
		return nil, err
	}
	return &article, nil
}

// Delete soft-deletes an article.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ArticleModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Mine lists the caller's own submissions in every status.
func (s *Service) Mine(ctx context.Context, userID string, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("author_id = ?", userID).
		Preload("Category").
		Order("created_at DESC")
	var articles []models.ArticleModel
	meta, err := pagination.Paginate(query, q, &articles)
	return articles, meta, err
}

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimDash = regexp.MustCompile(`(^-+|-+$)`)
)

// Slugify lowercases a title and collapses everything non-alphanumeric into
// single dashes.
func Slugify(s string) string {
	out := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	out = slugTrimDash.ReplaceAllString(out, "")
	if out == "" {
		out = "untitled"
	}
	if len(out) > 120 {
		out = strings.Trim(out[:120], "-")
	}
	return out
}
