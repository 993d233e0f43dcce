package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanoteapp/yanote-server/internal/domain"
	"github.com/yanoteapp/yanote-server/internal/id"
)

// setupTestStore creates a store backed by a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

// makeNote builds a note with a fresh ID for authorID.
func makeNote(t *testing.T, authorID, title, text, slug string) *domain.Note {
	t.Helper()

	now := time.Now()
	return &domain.Note{
		ID:        id.MustGenerate("note"),
		Title:     title,
		Text:      text,
		Slug:      slug,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateNote_And_Get(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	note := makeNote(t, "user-a", "Новая заметка", "Текст заметки", "slug_1")
	require.NoError(t, s.CreateNote(ctx, note))

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Text, got.Text)
	assert.Equal(t, "slug_1", got.Slug)
	assert.Equal(t, "user-a", got.AuthorID)

	bySlug, err := s.GetNoteBySlug(ctx, "slug_1")
	require.NoError(t, err)
	assert.Equal(t, note.ID, bySlug.ID)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateNote_DuplicateSlug(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := makeNote(t, "user-a", "Заметка", "Текст", "slug_1")
	require.NoError(t, s.CreateNote(ctx, first))

	// Same slug, even from the same author, is rejected.
	dup := makeNote(t, "user-a", "Заметка 2", "", "slug_1")
	err := s.CreateNote(ctx, dup)
	assert.ErrorIs(t, err, ErrSlugTaken)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The duplicate was not persisted.
	_, err = s.GetNote(ctx, dup.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestCreateNote_ConcurrentSameSlug(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const racers = 8
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() {
			results <- s.CreateNote(ctx, makeNote(t, "user-a", "Race", "", "contested"))
		}()
	}

	var wins, losses int
	for i := 0; i < racers; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrSlugTaken)
			losses++
		}
	}

	assert.Equal(t, 1, wins, "exactly one racer must win the slug")
	assert.Equal(t, racers-1, losses)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateNote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	note := makeNote(t, "user-a", "Заголовок заметки", "Текст заметки", "slug_1")
	require.NoError(t, s.CreateNote(ctx, note))

	updated := *note
	updated.Title = "Обновленный заголовок заметки"
	updated.Text = "Обновленный текст заметки"
	updated.Slug = "new_slug_1"
	updated.AuthorID = "user-evil" // must be ignored
	require.NoError(t, s.UpdateNote(ctx, &updated))

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Обновленный заголовок заметки", got.Title)
	assert.Equal(t, "Обновленный текст заметки", got.Text)
	assert.Equal(t, "new_slug_1", got.Slug)
	assert.Equal(t, "user-a", got.AuthorID, "author is immutable")

	// Old slug is released, new slug resolves.
	_, err = s.GetNoteBySlug(ctx, "slug_1")
	assert.ErrorIs(t, err, ErrNoteNotFound)
	bySlug, err := s.GetNoteBySlug(ctx, "new_slug_1")
	require.NoError(t, err)
	assert.Equal(t, note.ID, bySlug.ID)
}

func TestUpdateNote_SlugCollision(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := makeNote(t, "user-a", "First", "", "slug_1")
	second := makeNote(t, "user-a", "Second", "", "slug_2")
	require.NoError(t, s.CreateNote(ctx, first))
	require.NoError(t, s.CreateNote(ctx, second))

	// Moving second onto first's slug fails.
	moved := *second
	moved.Slug = "slug_1"
	assert.ErrorIs(t, s.UpdateNote(ctx, &moved), ErrSlugTaken)

	// Keeping your own slug is not a collision.
	same := *first
	same.Title = "First, retitled"
	require.NoError(t, s.UpdateNote(ctx, &same))

	got, err := s.GetNote(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First, retitled", got.Title)
	assert.Equal(t, "slug_1", got.Slug)
}

func TestUpdateNote_NotFound(t *testing.T) {
	s := setupTestStore(t)

	ghost := makeNote(t, "user-a", "Ghost", "", "ghost")
	assert.ErrorIs(t, s.UpdateNote(context.Background(), ghost), ErrNoteNotFound)
}

func TestDeleteNote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	note := makeNote(t, "user-a", "Заголовок", "Текст", "notes_1")
	require.NoError(t, s.CreateNote(ctx, note))

	require.NoError(t, s.DeleteNote(ctx, note.ID))

	_, err := s.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = s.GetNoteBySlug(ctx, "notes_1")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	count, err := s.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The slug is free for reuse after deletion.
	require.NoError(t, s.CreateNote(ctx, makeNote(t, "user-b", "Reuse", "", "notes_1")))
}

func TestDeleteNote_NotFound(t *testing.T) {
	s := setupTestStore(t)
	assert.ErrorIs(t, s.DeleteNote(context.Background(), "note-missing"), ErrNoteNotFound)
}

func TestListNotesByAuthor(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		n := makeNote(t, "user-a", "Заметка", "Просто текст.", "a-slug-"+string(rune('0'+i)))
		n.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateNote(ctx, n))
	}
	require.NoError(t, s.CreateNote(ctx, makeNote(t, "user-b", "Чужая", "", "b-slug")))

	notes, err := s.ListNotesByAuthor(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, notes, 5)

	// Newest first, only the author's notes.
	for i := 0; i < len(notes)-1; i++ {
		assert.False(t, notes[i].CreatedAt.Before(notes[i+1].CreatedAt))
	}
	for _, n := range notes {
		assert.Equal(t, "user-a", n.AuthorID)
	}

	empty, err := s.ListNotesByAuthor(ctx, "user-nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListAllNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateNote(ctx, makeNote(t, "user-a", "First", "body", "first")))
	require.NoError(t, s.CreateNote(ctx, makeNote(t, "user-b", "Second", "body", "second")))
	require.NoError(t, s.CreateNote(ctx, makeNote(t, "user-b", "Third", "body", "third")))

	notes, err := s.ListAllNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	slugs := make([]string, 0, len(notes))
	for _, n := range notes {
		slugs = append(slugs, n.Slug)
	}
	assert.ElementsMatch(t, []string{"first", "second", "third"}, slugs)
}
