package models

import "time"

// EmailVerificationModel holds one-time codes mailed to users.
type EmailVerificationModel struct {
	Base
	Email      string     `json:"email"   gorm:"index;not null"`
	Code       string     `json:"-"       gorm:"not null"`
	Purpose    string     `json:"purpose" gorm:"index"` // verify_email | password_reset
	ExpiresAt  time.Time  `json:"expires_at" gorm:"index;not null"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

func (EmailVerificationModel) TableName() string { return "email_verifications" }
