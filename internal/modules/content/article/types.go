package article

// ListQuery narrows the public article listing.
type ListQuery struct {
	CategoryID   string
	CategorySlug string
	Search       string
	Status       string // admin only; public listings pin PUBLISHED
}

// SubmitInput is a reader or staff article submission.
type SubmitInput struct {
	Title      string
	Content    string
	Slug       string
	CategoryID string
	AuthorID   *string // nil for anonymous submissions
}

// UpdateInput carries partial edits to an existing article.
type UpdateInput struct {
	Title      *string
	Content    *string
	Slug       *string
	CategoryID *string
}
