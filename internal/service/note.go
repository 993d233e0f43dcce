package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yanoteapp/yanote-server/internal/domain"
	domainerrors "github.com/yanoteapp/yanote-server/internal/errors"
	"github.com/yanoteapp/yanote-server/internal/id"
	"github.com/yanoteapp/yanote-server/internal/search"
	"github.com/yanoteapp/yanote-server/internal/slug"
	"github.com/yanoteapp/yanote-server/internal/store"
	"github.com/yanoteapp/yanote-server/internal/validation"
)

// slugWarning is appended to the offending value in duplicate-slug errors.
const slugWarning = " - this slug is already in use, come up with a unique value"

// NoteService implements the note use cases: create, list, get, update,
// delete, and search. Every use case takes the requester identity as an
// explicit parameter; an empty identity means anonymous and is rejected.
//
// Ownership masking: a note that exists but belongs to someone else is
// indistinguishable from a missing note. Only the authentication check
// (anonymous vs. logged in) is allowed to leak through as a different error.
type NoteService struct {
	store     *store.Store
	index     *search.NoteIndex
	validator *validation.Validator
	logger    *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(
	store *store.Store,
	index *search.NoteIndex,
	validator *validation.Validator,
	logger *slog.Logger,
) *NoteService {
	return &NoteService{
		store:     store,
		index:     index,
		validator: validator,
		logger:    logger,
	}
}

// CreateNoteRequest contains the data for a new note.
type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,max=100"`
	Text  string `json:"text"`
	Slug  string `json:"slug" validate:"omitempty,slug,max=100"`
}

// UpdateNoteRequest contains partial note updates. Nil fields are unchanged.
// An explicitly empty slug re-derives it from the effective title.
type UpdateNoteRequest struct {
	Title *string `json:"title" validate:"omitempty,max=100"`
	Text  *string `json:"text"`
	Slug  *string `json:"slug" validate:"omitempty,slug,max=100"`
}

// Create validates and stores a new note owned by userID.
func (s *NoteService) Create(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	resolved := slug.Resolve(req.Slug, req.Title)
	if resolved == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"title": "cannot be turned into a slug; provide one explicitly",
		})
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := &domain.Note{
		ID:       noteID,
		Title:    req.Title,
		Text:     req.Text,
		Slug:     resolved,
		AuthorID: userID,
	}
	note.Touch()
	note.CreatedAt = note.UpdatedAt

	if err := s.store.CreateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			return nil, slugConflict(resolved)
		}
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.indexNote(note)

	if s.logger != nil {
		s.logger.Info("note created", "note_id", note.ID, "slug", note.Slug, "author_id", userID)
	}

	return note, nil
}

// List returns the caller's notes, newest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	notes, err := s.store.ListNotesByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Get returns a note by slug if the caller owns it.
func (s *NoteService) Get(ctx context.Context, userID, noteSlug string) (*domain.Note, error) {
	return s.getOwned(ctx, userID, noteSlug)
}

// Update applies the given changes to a note the caller owns.
// Title, text, and slug change together in one store write.
func (s *NoteService) Update(ctx context.Context, userID, noteSlug string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"title": "is required",
		})
	}

	note, err := s.getOwned(ctx, userID, noteSlug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Text != nil {
		note.Text = *req.Text
	}
	if req.Slug != nil {
		resolved := slug.Resolve(*req.Slug, note.Title)
		if resolved == "" {
			return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"title": "cannot be turned into a slug; provide one explicitly",
			})
		}
		note.Slug = resolved
	}
	note.Touch()

	if err := s.store.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			return nil, slugConflict(note.Slug)
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.indexNote(note)

	if s.logger != nil {
		s.logger.Info("note updated", "note_id", note.ID, "slug", note.Slug)
	}

	return note, nil
}

// Delete permanently removes a note the caller owns.
func (s *NoteService) Delete(ctx context.Context, userID, noteSlug string) error {
	note, err := s.getOwned(ctx, userID, noteSlug)
	if err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, note.ID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if s.index != nil {
		if err := s.index.DeleteNote(note.ID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove note from search index", "note_id", note.ID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("note deleted", "note_id", note.ID, "slug", note.Slug)
	}

	return nil
}

// Search runs a full-text query over the caller's own notes.
func (s *NoteService) Search(ctx context.Context, userID, query string, limit, offset int) (*search.SearchResult, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	params := search.DefaultSearchParams(userID)
	params.Query = query
	if limit > 0 {
		params.Limit = limit
	}
	if offset > 0 {
		params.Offset = offset
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return result, nil
}

// getOwned loads a note by slug and checks ownership. A note owned by
// someone else yields the same not-found error as a missing note.
func (s *NoteService) getOwned(ctx context.Context, userID, noteSlug string) (*domain.Note, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	note, err := s.store.GetNoteBySlug(ctx, noteSlug)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	if !note.IsOwnedBy(userID) {
		// Masked: do not reveal that the slug exists
		return nil, domainerrors.NotFound("note not found")
	}

	return note, nil
}

// ReindexAll rebuilds the search index from every note in the store.
// Used on startup when the index is empty or its mapping changed.
func (s *NoteService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	notes, err := s.store.ListAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("listing notes for reindex: %w", err)
	}

	docs := make([]*search.NoteDocument, 0, len(notes))
	for _, note := range notes {
		docs = append(docs, search.NoteToDocument(note))
	}
	return s.index.IndexNotes(docs)
}

// indexNote pushes a note into the search index. Index failures are logged
// but never fail the write that triggered them; the store stays the source
// of truth.
func (s *NoteService) indexNote(note *domain.Note) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexNote(search.NoteToDocument(note)); err != nil && s.logger != nil {
		s.logger.Warn("failed to index note", "note_id", note.ID, "error", err)
	}
}

// slugConflict builds the duplicate-slug error with its field-scoped detail.
func slugConflict(value string) *domainerrors.Error {
	flagged := value + slugWarning
	return domainerrors.ConflictWithDetails(flagged, map[string]string{"slug": flagged})
}
