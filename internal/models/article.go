package models

// Article lifecycle states. PENDING is the only state with an outgoing
// transition; PUBLISHED and REJECTED are terminal.
const (
	ArticlePending   = "PENDING"
	ArticlePublished = "PUBLISHED"
	ArticleRejected  = "REJECTED"
)

// ArticleModel is a news article, either staff-written or reader-submitted.
// Anonymous submissions carry a nil AuthorID until an admin approves them,
// at which point the approving admin becomes the author of record.
type ArticleModel struct {
	Base
	Title            string         `json:"title"             gorm:"not null"`
	Slug             string         `json:"slug"              gorm:"uniqueIndex;not null"`
	Content          string         `json:"content"           gorm:"type:longtext"`
	RenderedHTML     string         `json:"rendered_html"     gorm:"type:longtext"`
	Summary          string         `json:"summary"`
	Status           string         `json:"status"            gorm:"index;default:'PENDING'"`
	ApprovalComments string         `json:"approval_comments"`
	CategoryID       *string        `json:"category_id"       gorm:"index"`
	Category         *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorID         *string        `json:"author_id"         gorm:"index"`
	Author           *UserModel     `json:"author,omitempty"  gorm:"foreignKey:AuthorID"`
	ViewCount        int            `json:"views"             gorm:"column:view_count;default:0"`
	LikeCount        int            `json:"likes"             gorm:"column:like_count;default:0"`
	ShareCount       int            `json:"shares"            gorm:"column:share_count;default:0"`
}

func (ArticleModel) TableName() string { return "articles" }

// IsPending reports whether the article still awaits a moderation decision.
func (a ArticleModel) IsPending() bool { return a.Status == ArticlePending }
