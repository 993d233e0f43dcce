package slug

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "NOTES", "notes"},
		{"spaces to dashes", "shopping list", "shopping-list"},
		{"underscores to dashes", "shopping_list", "shopping-list"},
		{"already normalized", "shopping-list", "shopping-list"},

		// Whitespace handling
		{"trim whitespace", "  notes  ", "notes"},
		{"multiple spaces", "shopping   list", "shopping-list"},
		{"tabs and spaces", "shopping\t list", "shopping-list"},

		// Transliteration
		{"cyrillic title", "Новая заметка", "novaya-zametka"},
		{"cyrillic with digits", "Заметка 2", "zametka-2"},
		{"diacritics folded", "Café Menu", "cafe-menu"},
		{"mixed scripts", "My Заметка", "my-zametka"},

		// Special characters
		{"punctuation removal", "todo/today", "todo-today"},
		{"apostrophe removal", "don't forget", "dont-forget"},
		{"emoji removal", "🗒 Notes!", "notes"},

		// Dash handling
		{"multiple dashes", "to--do", "to-do"},
		{"leading dashes", "--notes", "notes"},
		{"trailing dashes", "notes--", "notes"},

		// Edge cases
		{"empty string", "", ""},
		{"only spaces", "   ", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "top10", "top10"},
		{"mixed case with numbers", "Top 10 Notes", "top-10-notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Новая заметка",
		"Shopping List",
		"  Café // 3  ",
		"--to--do--",
		"",
		"уже-готово",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_MaxLength(t *testing.T) {
	long := strings.Repeat("word ", 50)
	got := Normalize(long)
	if len(got) > MaxLength {
		t.Errorf("Normalize produced %d chars, want at most %d", len(got), MaxLength)
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Errorf("truncated slug has dangling dash: %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		title     string
		expected  string
	}{
		{"requested wins", "slug_1", "Новая заметка", "slug_1"},
		{"requested kept verbatim", "My_Slug", "ignored", "My_Slug"},
		{"falls back to title", "", "Новая заметка", "novaya-zametka"},
		{"empty everything", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.requested, tt.title); got != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.requested, tt.title, got, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"slug_1", "new_slug_1", "notes-2024", "A1", "a"}
	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "has space", "кириллица", "semi;colon", "slash/", strings.Repeat("a", MaxLength+1)}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}
