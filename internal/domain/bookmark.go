package domain

// Bookmark is a user-saved posting, keyed by URL. Bookmarks live for the
// process lifetime only.
type Bookmark struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	UpdatedAt string `json:"updated_at"`
}
