package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns accounts, optionally filtered by role.
func (s *Service) List(ctx context.Context, role string, q pagination.Query) ([]models.UserModel, response.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.UserModel{}).Order("created_at DESC")
	if role != "" {
		if !models.ValidRole(role) {
			return nil, response.Pagination{}, apperr.Validation("unknown role")
		}
		query = query.Where("role = ?", role)
	}
	var users []models.UserModel
	meta, err := pagination.Paginate(query, q, &users)
	for i := range users {
		users[i].Password = ""
	}
	return users, meta, err
}

// GetByID returns a single account.
func (s *Service) GetByID(ctx context.Context, id string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

type CreateInput struct {
	Username string
	Name     string
	Email    string
	Password string
	Role     string
}

// Create provisions an account with an explicit role.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.UserModel, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" {
		return nil, apperr.Validation("username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if !models.ValidRole(in.Role) {
		return nil, apperr.Validation("unknown role")
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
		Role:     in.Role,
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

// SetRole changes an account's role and revokes its sessions so the change
// takes effect immediately.
func (s *Service) SetRole(ctx context.Context, id, role string) (*models.UserModel, error) {
	if !models.ValidRole(role) {
		return nil, apperr.Validation("unknown role")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("role", role).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserSession{}).
			Where("user_id = ? AND revoked_at IS NULL", id).
			Update("revoked_at", &now).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account and revokes its sessions. Authored articles keep
// their author reference through the soft-deleted row.
func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSession{}).
			Where("user_id = ? AND revoked_at IS NULL", id).
			Update("revoked_at", &now).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
