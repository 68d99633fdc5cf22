package models

// Legal draft states.
const (
	DraftEditing   = "DRAFT"
	DraftSubmitted = "SUBMITTED"
)

// LegalDraftModel is a user-authored legal document draft (petitions,
// notices, agreements). Owner-scoped; submission freezes further edits.
type LegalDraftModel struct {
	Base
	Title   string `json:"title"   gorm:"not null"`
	Body    string `json:"body"    gorm:"type:longtext"`
	Status  string `json:"status"  gorm:"index;default:'DRAFT'"`
	OwnerID string `json:"owner_id" gorm:"index;not null"`
}

func (LegalDraftModel) TableName() string { return "legal_drafts" }
