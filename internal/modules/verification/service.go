package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/mail"
)

const (
	codeTTL = 10 * time.Minute

	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"
)

type Service struct {
	db     *gorm.DB
	sender *mail.Sender
	log    *zap.Logger
}

func NewService(db *gorm.DB, sender *mail.Sender, log *zap.Logger) *Service {
	return &Service{db: db, sender: sender, log: log}
}

// Request issues a 6-digit code for the email and mails it. Any previous
// unconsumed code for the same email and purpose stops working.
func (s *Service) Request(ctx context.Context, email, purpose string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperr.Validation("email is required")
	}
	if purpose != PurposeVerifyEmail && purpose != PurposePasswordReset {
		return apperr.Validation("unknown verification purpose")
	}

	code, err := sixDigitCode()
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EmailVerificationModel{}).
			Where("email = ? AND purpose = ? AND consumed_at IS NULL", email, purpose).
			Update("consumed_at", &now).Error; err != nil {
			return err
		}
		rec := models.EmailVerificationModel{
			Email:     email,
			Code:      code,
			Purpose:   purpose,
			ExpiresAt: now.Add(codeTTL),
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return err
	}

	msg := mail.VerificationMail(code, codeTTL)
	msg.To = []string{email}
	if err := s.sender.Send(msg); err != nil {
		s.log.Warn("failed to send verification mail", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Verify consumes a code. For verify_email it also flips the account's
// verified flag.
func (s *Service) Verify(ctx context.Context, email, purpose, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperr.Validation("email and code are required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.EmailVerificationModel
		err := tx.Where("email = ? AND purpose = ? AND consumed_at IS NULL", email, purpose).
			Order("created_at DESC").
			First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("invalid or expired code")
		}
		if err != nil {
			return err
		}
		if rec.Code != code || time.Now().After(rec.ExpiresAt) {
			return apperr.Validation("invalid or expired code")
		}

		now := time.Now()
		if err := tx.Model(&rec).Update("consumed_at", &now).Error; err != nil {
			return err
		}
		if purpose == PurposeVerifyEmail {
			return tx.Model(&models.UserModel{}).
				Where("email = ?", email).
				Update("email_verified", true).Error
		}
		return nil
	})
}

// PurgeExpired hard-deletes codes past their expiry. Run from cron.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.EmailVerificationModel{})
	return res.RowsAffected, res.Error
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
