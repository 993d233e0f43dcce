package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNote_Ownership(t *testing.T) {
	note := &Note{
		ID:       "note-1",
		Title:    "Заголовок заметки",
		Text:     "Текст заметки",
		Slug:     "slug_1",
		AuthorID: "user-author",
	}

	t.Run("author has full access", func(t *testing.T) {
		assert.True(t, note.IsOwnedBy("user-author"))
		assert.True(t, note.CanView("user-author"))
		assert.True(t, note.CanEdit("user-author"))
		assert.True(t, note.CanDelete("user-author"))
	})

	t.Run("other user has no access", func(t *testing.T) {
		assert.False(t, note.IsOwnedBy("user-other"))
		assert.False(t, note.CanView("user-other"))
		assert.False(t, note.CanEdit("user-other"))
		assert.False(t, note.CanDelete("user-other"))
	})

	t.Run("anonymous has no access", func(t *testing.T) {
		assert.False(t, note.IsOwnedBy(""))
		assert.False(t, note.CanView(""))
	})

	t.Run("empty author never matches", func(t *testing.T) {
		orphan := &Note{ID: "note-2"}
		assert.False(t, orphan.IsOwnedBy(""))
	})
}

func TestNote_Touch(t *testing.T) {
	note := &Note{UpdatedAt: time.Now().Add(-time.Hour)}
	before := note.UpdatedAt

	note.Touch()

	assert.True(t, note.UpdatedAt.After(before))
}
