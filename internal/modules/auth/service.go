package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/session"
)

// ErrBadCredentials is returned for unknown accounts and wrong passwords
// alike; login never reveals which.
var ErrBadCredentials = errors.New("invalid credentials")

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

type LoginResult struct {
	Token   string
	User    *models.UserModel
	Session *models.UserSession
}

// Login verifies credentials against the stored bcrypt hash and issues a
// session-bound token. The identifier matches either username or email.
func (s *Service) Login(ctx context.Context, identifier, password, ip, ua string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrBadCredentials
	}

	var user models.UserModel
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn a comparison so unknown accounts cost the same as bad
		// passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMye"), []byte(password))
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	token, sess, err := session.Issue(s.db.WithContext(ctx), &user, ip, ua, session.DefaultTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		s.log.Warn("failed to record last login", zap.Error(err))
	}

	user.Password = ""
	return &LoginResult{Token: token, User: &user, Session: sess}, nil
}

// Logout revokes the session the presented token is bound to.
func (s *Service) Logout(ctx context.Context, userID, sessionID string) error {
	err := session.Revoke(s.db.WithContext(ctx), userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}

type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// Register creates a reader account. Staff roles are only assigned through
// user management, never at registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.UserModel, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" {
		return nil, apperr.Validation("username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.UserModel{
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("username or email already registered")
		}
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, userID string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// ChangePassword verifies the current password before replacing it and
// revokes every other session.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next, keepSessionID string) error {
	if len(next) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}

	var user models.UserModel
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", string(hash)).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserSession{}).
			Where("user_id = ? AND id <> ? AND revoked_at IS NULL", userID, keepSessionID).
			Update("revoked_at", &now).Error
	})
}

// Sessions lists the caller's active sessions, most recently used first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}
