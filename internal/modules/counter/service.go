package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/redis"
)

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
	log *zap.Logger
}

func NewService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{db: db, rdb: rdb, log: log}
}

// bump applies a relative counter update with a raw expression so concurrent
// requests never lose increments. Decrements are clamped at zero.
func (s *Service) bump(ctx context.Context, id, column string, delta int) error {
	expr := gorm.Expr(column+" + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)
	}

	res := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("id = ? AND status = ?", id, models.ArticlePublished).
		UpdateColumn(column, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows both when no published article
		// matched and when the clamped decrement left the value unchanged.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.ArticleModel{}).
			Where("id = ? AND status = ?", id, models.ArticlePublished).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			// Missing or unpublished; counters only move on published articles.
			return apperr.ErrNotFound
		}
	}
	return nil
}

// View counts a page view once per reader per day. Dedup state lives in the
// reader's cookie, so the same browser revisiting within the window is a
// no-op that still returns success.
func (s *Service) View(ctx context.Context, c *gin.Context, id string) (bool, error) {
	now := time.Now()
	seen := readSeen(c, viewedCookie, now)
	if _, ok := seen[id]; ok {
		return false, nil
	}
	if err := s.bump(ctx, id, "view_count", 1); err != nil {
		return false, err
	}
	seen[id] = now
	writeSeen(c, viewedCookie, seen)
	return true, nil
}

// Like increments the like counter. The server keeps no per-reader state for
// likes; the liked-ids cookie is maintained only so the client UI can render
// an already-liked state. A client that ignores it can like twice.
func (s *Service) Like(ctx context.Context, c *gin.Context, id string) (int64, error) {
	if err := s.bump(ctx, id, "like_count", 1); err != nil {
		return 0, err
	}
	now := time.Now()
	seen := readSeen(c, likedCookie, now)
	seen[id] = now
	writeSeen(c, likedCookie, seen)

	audit := models.ActivityLogModel{
		Action:  models.ActionLikeArticle,
		Details: map[string]interface{}{"article_id": id},
	}
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.log.Warn("failed to record like activity", zap.Error(err))
	}
	return s.likeCount(ctx, id)
}

// Unlike decrements the like counter, clamped at zero, and clears the
// client-side marker.
func (s *Service) Unlike(ctx context.Context, c *gin.Context, id string) (int64, error) {
	if err := s.bump(ctx, id, "like_count", -1); err != nil {
		return 0, err
	}
	seen := readSeen(c, likedCookie, time.Now())
	delete(seen, id)
	writeSeen(c, likedCookie, seen)
	return s.likeCount(ctx, id)
}

func (s *Service) likeCount(ctx context.Context, id string) (int64, error) {
	var article models.ArticleModel
	err := s.db.WithContext(ctx).Select("like_count").
		First(&article, "id = ?", id).Error
	if err != nil {
		return 0, err
	}
	return int64(article.LikeCount), nil
}

// siteLikeOption is the options row holding the site-wide like counter.
const siteLikeOption = "site_likes"

// SiteLike bumps the global "I like this site" counter, at most once per IP
// per day. The dedup guard lives in redis so it survives restarts.
func (s *Service) SiteLike(ctx context.Context, ip string) (bool, error) {
	if s.rdb != nil && ip != "" {
		key := fmt.Sprintf("lex:site_like:%s:%s", time.Now().Format("2006-01-02"), ip)
		ok, err := s.rdb.Raw().SetNX(ctx, key, 1, dedupWindow).Result()
		if err != nil {
			s.log.Warn("site like dedup check failed, allowing", zap.Error(err))
		} else if !ok {
			return false, nil
		}
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("CAST(value AS UNSIGNED) + 1"),
		}),
	}).Create(&models.OptionModel{Name: siteLikeOption, Value: "1"}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// SiteLikes reads the global like counter. A missing row reads as zero.
func (s *Service) SiteLikes(ctx context.Context) (int64, error) {
	var opt models.OptionModel
	err := s.db.WithContext(ctx).First(&opt, "name = ?", siteLikeOption).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(opt.Value, 10, 64)
	if err != nil {
		s.log.Warn("site like counter is not numeric", zap.String("value", opt.Value))
		return 0, nil
	}
	return n, nil
}

// Share increments the share counter. Shares are intentionally not deduped;
// sharing twice is a real signal.
func (s *Service) Share(ctx context.Context, id string) error {
	return s.bump(ctx, id, "share_count", 1)
}

// Counts returns the current counter values for an article.
func (s *Service) Counts(ctx context.Context, id string) (*models.ArticleModel, error) {
	var article models.ArticleModel
	err := s.db.WithContext(ctx).
		Select("id", "view_count", "like_count", "share_count").
		First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &article, err
}
