package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yanoteapp/yanote-server/internal/domain"
	"github.com/yanoteapp/yanote-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Description: "Creates a note owned by the caller. The slug is derived from the title when omitted.",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the caller's notes, newest first",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/search",
		Summary:     "Search notes",
		Description: "Full-text search over the caller's own notes",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{slug}",
		Summary:     "Get note",
		Description: "Returns a note by slug if the caller owns it",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{slug}",
		Summary:     "Update note",
		Description: "Updates a note's title, text, or slug",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{slug}",
		Summary:     "Delete note",
		Description: "Permanently deletes a note the caller owns",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	Title     string    `json:"title" doc:"Note title"`
	Text      string    `json:"text" doc:"Note body"`
	Slug      string    `json:"slug" doc:"URL-safe slug, unique across all notes"`
	AuthorID  string    `json:"author_id" doc:"Owner's user ID"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// NoteOutput wraps a single note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title string `json:"title" doc:"Note title"`
	Text  string `json:"text,omitempty" doc:"Note body"`
	Slug  string `json:"slug,omitempty" doc:"Optional slug; derived from title when empty"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateNoteRequest
}

// ListNotesInput contains parameters for listing notes.
type ListNotesInput struct {
	Authorization string `header:"Authorization"`
}

// ListNotesResponse contains the caller's notes.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes" doc:"Notes, newest first"`
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// GetNoteInput contains parameters for getting a note.
type GetNoteInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Note slug"`
}

// UpdateNoteRequest is the request body for updating a note.
// Omitted fields are unchanged; an empty slug re-derives it from the title.
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" doc:"New title"`
	Text  *string `json:"text,omitempty" doc:"New body"`
	Slug  *string `json:"slug,omitempty" doc:"New slug; empty re-derives from title"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Note slug"`
	Body          UpdateNoteRequest
}

// DeleteNoteInput contains parameters for deleting a note.
type DeleteNoteInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Note slug"`
}

// SearchNotesInput contains parameters for searching notes.
type SearchNotesInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query; empty returns all own notes"`
	Limit         int    `query:"limit" doc:"Maximum hits to return (default 20)"`
	Offset        int    `query:"offset" doc:"Hits to skip for pagination"`
}

// SearchHitResponse is a single search hit.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Note ID"`
	Title      string            `json:"title" doc:"Note title"`
	Slug       string            `json:"slug" doc:"Note slug"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Matched fragments by field"`
}

// SearchNotesResponse contains search results.
type SearchNotesResponse struct {
	Query  string              `json:"query" doc:"Echoed search query"`
	Total  uint64              `json:"total" doc:"Total matching notes"`
	TookMs int64               `json:"took_ms" doc:"Query duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Matching notes"`
}

// SearchNotesOutput wraps the search response for Huma.
type SearchNotesOutput struct {
	Body SearchNotesResponse
}

// === Handlers ===

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Create(ctx, userID, service.CreateNoteRequest{
		Title: input.Body.Title,
		Text:  input.Body.Text,
		Slug:  input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, n := range notes {
		resp[i] = mapNoteResponse(n)
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: resp}}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *GetNoteInput) (*NoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Get(ctx, userID, input.Slug)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.Update(ctx, userID, input.Slug, service.UpdateNoteRequest{
		Title: input.Body.Title,
		Text:  input.Body.Text,
		Slug:  input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.Delete(ctx, userID, input.Slug); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, input *SearchNotesInput) (*SearchNotesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Note.Search(ctx, userID, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResponse, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = SearchHitResponse{
			ID:         h.ID,
			Title:      h.Title,
			Slug:       h.Slug,
			Score:      h.Score,
			Highlights: h.Highlights,
		}
	}

	return &SearchNotesOutput{
		Body: SearchNotesResponse{
			Query:  result.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}

// mapNoteResponse converts a domain note to the API shape.
func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Text:      n.Text,
		Slug:      n.Slug,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
