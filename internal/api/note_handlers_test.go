package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNote(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+token, map[string]any{
		"title": "Заголовок",
		"text":  "Текст заметки",
		"slug":  "slug_1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "Заголовок", envelope.Data.Title)
	assert.Equal(t, "slug_1", envelope.Data.Slug)
	assert.NotEmpty(t, envelope.Data.ID)
}

func TestCreateNote_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/notes", map[string]any{
		"title": "Заголовок",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestCreateNote_SlugFromCyrillicTitle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+token, map[string]any{
		"title": "Новая заметка",
		"text":  "Просто текст.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "novaya-zametka", envelope.Data.Slug)
}

func TestCreateNote_DuplicateSlug(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Первая",
		"slug":  "taken",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Slug uniqueness is global, not per user.
	resp = ts.api.Post("/api/v1/notes", "Authorization: Bearer "+otherToken, map[string]any{
		"title": "Вторая",
		"slug":  "taken",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "taken - this slug is already in use")

	details, ok := envelope.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details["slug"], "come up with a unique value")
}

func TestCreateNote_EmptyTitle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+token, map[string]any{
		"text": "Текст без заголовка",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestListNotes_OwnNotesOnly(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Моя заметка",
		"slug":  "mine",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/notes", "Authorization: Bearer "+otherToken, map[string]any{
		"title": "Чужая заметка",
		"slug":  "theirs",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes", "Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ListNotesResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Notes, 1)
	assert.Equal(t, "mine", envelope.Data.Notes[0].Slug)
}

func TestGetNote_MaskedForNonAuthor(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Секрет",
		"slug":  "private",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Author reads it back.
	resp = ts.api.Get("/api/v1/notes/private", "Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code)

	// Non-author gets the same 404 a missing note produces.
	foreign := ts.api.Get("/api/v1/notes/private", "Authorization: Bearer "+otherToken)
	require.Equal(t, http.StatusNotFound, foreign.Code)

	missing := ts.api.Get("/api/v1/notes/nonexistent", "Authorization: Bearer "+otherToken)
	require.Equal(t, http.StatusNotFound, missing.Code)

	assert.JSONEq(t, missing.Body.String(), foreign.Body.String(),
		"foreign and missing notes must be indistinguishable")

	// Anonymous gets 401, not 404.
	anon := ts.api.Get("/api/v1/notes/private")
	assert.Equal(t, http.StatusUnauthorized, anon.Code)
}

func TestUpdateNote(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "author@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+token, map[string]any{
		"title": "Заголовок",
		"text":  "Текст заметки",
		"slug":  "zagolovok",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/notes/zagolovok", "Authorization: Bearer "+token, map[string]any{
		"title": "Обновленный заголовок заметки",
		"text":  "Обновленный текст заметки",
		"slug":  "obnovlenny",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Обновленный заголовок заметки", envelope.Data.Title)
	assert.Equal(t, "obnovlenny", envelope.Data.Slug)

	// Old slug no longer resolves.
	resp = ts.api.Get("/api/v1/notes/zagolovok", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateNote_MaskedForNonAuthor(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Заметка",
		"slug":  "private",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/notes/private", "Authorization: Bearer "+otherToken, map[string]any{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusNotFound, resp.Code)

	// Note is unchanged.
	resp = ts.api.Get("/api/v1/notes/private", "Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Заметка", envelope.Data.Title)
}

func TestUpdateNote_DuplicateSlug(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "author@test.com")

	for _, slug := range []string{"first", "second"} {
		resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+token, map[string]any{
			"title": "Заметка " + slug,
			"slug":  slug,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Patch("/api/v1/notes/second", "Authorization: Bearer "+token, map[string]any{
		"slug": "first",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestDeleteNote(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Заметка",
		"slug":  "doomed",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Non-author cannot delete, and learns nothing.
	resp = ts.api.Delete("/api/v1/notes/doomed", "Authorization: Bearer "+otherToken)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/notes/doomed", "Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes/doomed", "Authorization: Bearer "+authorToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchNotes(t *testing.T) {
	ts := setupTestServer(t)
	authorToken := ts.registerUser(t, "author@test.com")
	otherToken := ts.registerUser(t, "other@test.com")

	resp := ts.api.Post("/api/v1/notes", "Authorization: Bearer "+authorToken, map[string]any{
		"title": "Shopping list",
		"text":  "milk and bread",
		"slug":  "shopping",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/notes", "Authorization: Bearer "+otherToken, map[string]any{
		"title": "Shopping plans",
		"slug":  "shopping-2",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes/search?q=shopping", "Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[SearchNotesResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Hits, 1)
	assert.Equal(t, "shopping", envelope.Data.Hits[0].Slug)

	// Anonymous search is rejected.
	resp = ts.api.Get("/api/v1/notes/search?q=shopping")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
