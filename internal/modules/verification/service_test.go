package verification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lexpress/core/internal/database"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return NewService(db, mail.New(mail.Config{}), zap.NewNop()), db
}

func latestCode(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	var rec models.EmailVerificationModel
	require.NoError(t, db.Where("email = ? AND consumed_at IS NULL", email).
		Order("created_at DESC").First(&rec).Error)
	return rec.Code
}

func TestVerifyEmailFlow(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.UserModel{
		Username: "reader", Email: "reader@example.com", Password: "hash",
	}).Error)

	require.NoError(t, svc.Request(ctx, "Reader@Example.com", PurposeVerifyEmail))
	code := latestCode(t, db, "reader@example.com")
	require.Len(t, code, 6)

	require.NoError(t, svc.Verify(ctx, "reader@example.com", PurposeVerifyEmail, code))

	var user models.UserModel
	require.NoError(t, db.First(&user, "email = ?", "reader@example.com").Error)
	assert.True(t, user.EmailVerified)

	// Codes are single-use.
	err := svc.Verify(ctx, "reader@example.com", PurposeVerifyEmail, code)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRequestInvalidatesPriorCode(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "a@example.com", PurposePasswordReset))
	first := latestCode(t, db, "a@example.com")

	require.NoError(t, svc.Request(ctx, "a@example.com", PurposePasswordReset))
	second := latestCode(t, db, "a@example.com")

	if first != second {
		err := svc.Verify(ctx, "a@example.com", PurposePasswordReset, first)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
	assert.NoError(t, svc.Verify(ctx, "a@example.com", PurposePasswordReset, second))
}

func TestVerifyWrongCode(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "a@example.com", PurposeVerifyEmail))
	err := svc.Verify(ctx, "a@example.com", PurposeVerifyEmail, "000000")
	if err == nil {
		t.Skip("code happened to be 000000")
	}
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRequestValidation(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Request(ctx, "", PurposeVerifyEmail), apperr.ErrValidation)
	assert.ErrorIs(t, svc.Request(ctx, "a@example.com", "login"), apperr.ErrValidation)
}

func TestPurgeExpired(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.EmailVerificationModel{
		Email: "old@example.com", Code: "123456", Purpose: PurposeVerifyEmail,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, svc.Request(ctx, "fresh@example.com", PurposeVerifyEmail))

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
