package models

import "time"

// Advertisement placements.
const (
	PlacementTopBanner     = "TOP_BANNER"
	PlacementSidebar       = "SIDEBAR"
	PlacementCategoryPage  = "CATEGORY_PAGE"
	PlacementArticleInline = "ARTICLE_INLINE"
)

// ValidPlacement reports whether p is a known placement slot.
func ValidPlacement(p string) bool {
	switch p {
	case PlacementTopBanner, PlacementSidebar, PlacementCategoryPage, PlacementArticleInline:
		return true
	}
	return false
}

// AdvertisementModel is a paid ad slot. Location and CategoryID narrow the
// slot; an ad only serves while now falls inside [StartDate, EndDate].
type AdvertisementModel struct {
	Base
	Title      string         `json:"title"       gorm:"not null"`
	Placement  string         `json:"placement"   gorm:"index;not null"`
	Location   string         `json:"location"    gorm:"index"`
	CategoryID *string        `json:"category_id" gorm:"index"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ImageURL   string         `json:"image_url"`
	TargetURL  string         `json:"target_url"`
	StartDate  time.Time      `json:"start_date"  gorm:"index;not null"`
	EndDate    time.Time      `json:"end_date"    gorm:"index;not null"`
	Active     bool           `json:"active"      gorm:"default:true;index"`
	ViewCount  int            `json:"views"       gorm:"column:view_count;default:0"`
	ClickCount int            `json:"clicks"      gorm:"column:click_count;default:0"`
}

func (AdvertisementModel) TableName() string { return "advertisements" }
