package app

import (
	"context"
	"fmt"
	"time"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/modules/verification"
	pkgcron "github.com/lexpress/core/internal/pkg/cron"
	"github.com/lexpress/core/internal/pkg/mail"
	"github.com/lexpress/core/internal/pkg/session"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	db := a.db
	cronLogger := a.logger.Named("CronService")

	a.sched.Register(pkgcron.Job{
		Name:        "cleanup_analytics",
		Description: "Delete page view records older than 90 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -90)
			result := db.Where("created_at < ?", cutoff).Delete(&models.AnalyzeModel{})
			if result.Error != nil {
				cronLogger.Warn("analytics cleanup failed", zap.Error(result.Error))
				return result.Error
			}
			cronLogger.Info(fmt.Sprintf("analytics cleanup removed %d records", result.RowsAffected))
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "Remove sessions expired for more than 24 hours",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := session.PurgeExpired(db, 24*time.Hour)
			if err != nil {
				cronLogger.Warn("session purge failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("session purge removed %d sessions", n))
			}
			return nil
		},
	})

	verificationSvc := verification.NewService(db, mail.New(a.cfg.Mail), a.logger)
	a.sched.Register(pkgcron.Job{
		Name:        "purge_verification_codes",
		Description: "Remove expired or consumed verification codes",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := verificationSvc.PurgeExpired(ctx)
			if err != nil {
				cronLogger.Warn("verification purge failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("verification purge removed %d codes", n))
			}
			return nil
		},
	})
}
