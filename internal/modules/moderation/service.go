package moderation

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

// Broadcaster pushes moderation events to connected admin clients.
type Broadcaster interface {
	BroadcastAdmin(event string, data interface{})
}

// SummaryScheduler queues asynchronous summary generation for an article.
type SummaryScheduler interface {
	Schedule(ctx context.Context, articleID string)
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	hub       Broadcaster
	summaries SummaryScheduler
}

func NewService(db *gorm.DB, log *zap.Logger, hub Broadcaster, summaries SummaryScheduler) *Service {
	return &Service{db: db, log: log, hub: hub, summaries: summaries}
}

type DecideInput struct {
	Approve bool
	Comment string
}

// DecideArticle records a moderation decision for a pending article. The
// status transition, optional author binding and the audit row are written in
// a single transaction. A second decision on the same article fails with
// ErrAlreadyDecided regardless of direction.
func (s *Service) DecideArticle(ctx context.Context, id string, in DecideInput, actorID, actorRole string) (*models.ArticleModel, error) {
	if !Allowed(OpDecideArticle, actorRole) {
		return nil, apperr.ErrUnauthorized
	}

	var article models.ArticleModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if !article.IsPending() {
			return apperr.ErrAlreadyDecided
		}

		status := models.ArticleRejected
		action := models.ActionRejectArticle
		if in.Approve {
			status = models.ArticlePublished
			action = models.ActionApproveArticle
		}

		updates := map[string]interface{}{
			"status":            status,
			"approval_comments": strings.TrimSpace(in.Comment),
		}
		// Anonymous submissions get attributed to the deciding admin so every
		// published article has an owner.
		if in.Approve && article.AuthorID == nil {
			updates["author_id"] = actorID
		}

		res := tx.Model(&models.ArticleModel{}).
			Where("id = ? AND status = ?", id, models.ArticlePending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with a concurrent decision.
			return apperr.ErrAlreadyDecided
		}

		article.Status = status
		article.ApprovalComments = strings.TrimSpace(in.Comment)
		if v, ok := updates["author_id"]; ok {
			bound := v.(string)
			article.AuthorID = &bound
		}

		audit := models.ActivityLogModel{
			Action: action,
			UserID: &actorID,
			Details: map[string]interface{}{
				"article_id": article.ID,
				"title":      article.Title,
				"comment":    article.ApprovalComments,
			},
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastAdmin("ARTICLE_DECIDED", map[string]interface{}{
			"id":     article.ID,
			"title":  article.Title,
			"status": article.Status,
		})
	}
	if s.summaries != nil && article.Status == models.ArticlePublished {
		s.summaries.Schedule(ctx, article.ID)
	}
	return &article, nil
}

// DecideExperience is the experience counterpart of DecideArticle.
func (s *Service) DecideExperience(ctx context.Context, id string, in DecideInput, actorID, actorRole string) (*models.ExperienceModel, error) {
	if !Allowed(OpDecideExperience, actorRole) {
		return nil, apperr.ErrUnauthorized
	}

	var exp models.ExperienceModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&exp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if exp.Status != models.ExperiencePending {
			return apperr.ErrAlreadyDecided
		}

		status := models.ExperienceRejected
		action := models.ActionRejectExperience
		if in.Approve {
			status = models.ExperienceApproved
			action = models.ActionApproveExperience
		}

		res := tx.Model(&models.ExperienceModel{}).
			Where("id = ? AND status = ?", id, models.ExperiencePending).
			Updates(map[string]interface{}{
				"status":            status,
				"approval_comments": strings.TrimSpace(in.Comment),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrAlreadyDecided
		}

		exp.Status = status
		exp.ApprovalComments = strings.TrimSpace(in.Comment)

		audit := models.ActivityLogModel{
			Action: action,
			UserID: &actorID,
			Details: map[string]interface{}{
				"experience_id": exp.ID,
				"title":         exp.Title,
				"comment":       exp.ApprovalComments,
			},
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastAdmin("EXPERIENCE_DECIDED", map[string]interface{}{
			"id":     exp.ID,
			"title":  exp.Title,
			"status": exp.Status,
		})
	}
	return &exp, nil
}

// PendingArticles lists articles awaiting a decision, oldest first.
func (s *Service) PendingArticles(ctx context.Context, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("status = ?", models.ArticlePending).
		Preload("Category").
		Order("created_at ASC")
	var articles []models.ArticleModel
	meta, err := pagination.Paginate(query, q, &articles)
	return articles, meta, err
}

// PendingExperiences lists experiences awaiting a decision, oldest first.
func (s *Service) PendingExperiences(ctx context.Context, q pagination.Query) ([]models.ExperienceModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ExperienceModel{}).
		Where("status = ?", models.ExperiencePending).
		Order("created_at ASC")
	var exps []models.ExperienceModel
	meta, err := pagination.Paginate(query, q, &exps)
	return exps, meta, err
}
