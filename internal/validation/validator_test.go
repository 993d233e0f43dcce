package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/yanoteapp/yanote-server/internal/errors"
)

type createNoteRequest struct {
	Title string `json:"title" validate:"required,max=100"`
	Text  string `json:"text"`
	Slug  string `json:"slug" validate:"omitempty,slug,max=100"`
}

func TestValidate_Passes(t *testing.T) {
	v := New()

	err := v.Validate(createNoteRequest{Title: "Заголовок", Text: "Текст заметки", Slug: "slug_1"})
	assert.NoError(t, err)

	// Slug is optional.
	err = v.Validate(createNoteRequest{Title: "Заголовок"})
	assert.NoError(t, err)
}

func TestValidate_RequiredUsesJSONName(t *testing.T) {
	v := New()

	err := v.Validate(createNoteRequest{Slug: "slug_1"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["title"])
}

func TestValidate_SlugTag(t *testing.T) {
	v := New()

	tests := []struct {
		slug  string
		valid bool
	}{
		{"my-note", true},
		{"slug_1", true},
		{"UPPER-case", true},
		{"has space", false},
		{"имя", false},
		{"semi;colon", false},
	}

	for _, tt := range tests {
		err := v.Validate(createNoteRequest{Title: "t", Slug: tt.slug})
		if tt.valid {
			assert.NoError(t, err, "slug %q", tt.slug)
		} else {
			require.Error(t, err, "slug %q", tt.slug)
			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, "slug")
		}
	}
}

func TestValidate_MaxLength(t *testing.T) {
	v := New()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	err := v.Validate(createNoteRequest{Title: string(long)})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must not exceed 100 characters", details["title"])
}
