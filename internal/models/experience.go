package models

// Experience lifecycle states. Same one-shot transition rule as articles,
// with APPROVED as the positive terminal state.
const (
	ExperiencePending  = "PENDING"
	ExperienceApproved = "APPROVED"
	ExperienceRejected = "REJECTED"
)

// ExperienceModel is a reader-submitted personal story.
type ExperienceModel struct {
	Base
	Title            string     `json:"title"      gorm:"not null"`
	Story            string     `json:"story"      gorm:"type:longtext"`
	Status           string     `json:"status"     gorm:"index;default:'PENDING'"`
	ApprovalComments string     `json:"approval_comments"`
	AuthorName       string     `json:"author_name"`
	AuthorID         *string    `json:"author_id"  gorm:"index"`
	Author           *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (ExperienceModel) TableName() string { return "experiences" }

func (e ExperienceModel) IsPending() bool { return e.Status == ExperiencePending }
