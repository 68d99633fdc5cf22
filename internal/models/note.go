package models

// NoteModel is a short private note owned by a user. Notes never appear on
// public pages and skip the moderation workflow entirely.
type NoteModel struct {
	Base
	Title   string `json:"title"`
	Body    string `json:"body"    gorm:"type:longtext"`
	OwnerID string `json:"owner_id" gorm:"index;not null"`
}

func (NoteModel) TableName() string { return "notes" }
