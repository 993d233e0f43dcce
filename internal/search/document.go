// Package search provides full-text note search using Bleve.
// Every query is scoped to a single author, so users only ever see
// hits from their own notes.
package search

import (
	"github.com/yanoteapp/yanote-server/internal/domain"
)

// NoteDocument is the document structure for the Bleve index.
type NoteDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Slug     string `json:"slug"`
	AuthorID string `json:"author_id"`

	// Timestamps for sorting, Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *NoteDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"slug":       d.Slug,
		"author_id":  d.AuthorID,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Text != "" {
		m["text"] = d.Text
	}

	return m
}

// NoteToDocument converts a domain Note to a NoteDocument.
func NoteToDocument(note *domain.Note) *NoteDocument {
	return &NoteDocument{
		ID:        note.ID,
		Title:     note.Title,
		Text:      note.Text,
		Slug:      note.Slug,
		AuthorID:  note.AuthorID,
		CreatedAt: note.CreatedAt.UnixMilli(),
		UpdatedAt: note.UpdatedAt.UnixMilli(),
	}
}
