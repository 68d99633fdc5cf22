package models

// Moderation and content actions recorded in the activity log.
const (
	ActionSubmitArticle     = "SUBMIT_ARTICLE"
	ActionApproveArticle    = "APPROVE_ARTICLE"
	ActionRejectArticle     = "REJECT_ARTICLE"
	ActionSubmitExperience  = "SUBMIT_EXPERIENCE"
	ActionApproveExperience = "APPROVE_EXPERIENCE"
	ActionRejectExperience  = "REJECT_EXPERIENCE"
	ActionLikeArticle       = "LIKE_ARTICLE"
	ActionCreateEnquiry     = "CREATE_ENQUIRY"
)

// ActivityLogModel is the append-only audit trail. Rows are written once,
// inside the same transaction as the change they describe, and never
// updated or deleted afterwards.
type ActivityLogModel struct {
	Base
	Action  string                 `json:"action"  gorm:"index;not null"`
	Details map[string]interface{} `json:"details" gorm:"type:longtext;serializer:json"`
	UserID  *string                `json:"user_id" gorm:"index"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }
