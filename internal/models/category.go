package models

// CategoryModel is a news section. Categories form a two-level tree:
// top-level sections and their subsections. The depth limit is enforced in
// the category service, not by schema.
type CategoryModel struct {
	Base
	Name     string  `json:"name"      gorm:"not null"`
	Slug     string  `json:"slug"      gorm:"uniqueIndex;not null"`
	ParentID *string `json:"parent_id" gorm:"index"`

	Parent   *CategoryModel  `json:"parent,omitempty"   gorm:"foreignKey:ParentID"`
	Children []CategoryModel `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

func (CategoryModel) TableName() string { return "categories" }

// IsTopLevel reports whether the category can legally parent subsections.
func (c CategoryModel) IsTopLevel() bool { return c.ParentID == nil }
