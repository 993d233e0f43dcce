package domain

import "time"

// Note is a personal text note owned by exactly one user.
// The slug is unique across all notes and addresses the note in URLs;
// AuthorID is set at creation and never changes.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the note's author.
func (n *Note) IsOwnedBy(userID string) bool {
	return userID != "" && n.AuthorID == userID
}

// CanView reports whether userID may read this note.
// Notes are strictly private: only the author sees them.
func (n *Note) CanView(userID string) bool {
	return n.IsOwnedBy(userID)
}

// CanEdit reports whether userID may modify this note.
func (n *Note) CanEdit(userID string) bool {
	return n.IsOwnedBy(userID)
}

// CanDelete reports whether userID may delete this note.
func (n *Note) CanDelete(userID string) bool {
	return n.IsOwnedBy(userID)
}

// Touch updates the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}
