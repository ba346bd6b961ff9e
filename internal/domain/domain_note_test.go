package domain

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/timex"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = timex.Time(time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local))

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Shopping list", "shopping-list"},
		{"  Hello,   World!  ", "hello-world"},
		{"Crème brûlée à la carte", "creme-brulee-a-la-carte"},
		{"C++ / Go -- Rust", "c-go-rust"},
		{"2024 Plans", "2024-plans"},
		{"读书 笔记", "读书-笔记"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestNewNote(t *testing.T) {
	active := []*Note{{ID: 1, Title: "Books", Slug: "books", Content: "x", Category: "Task"}}

	tests := []struct {
		name       string
		form       NoteForm
		id         int64
		wantFields []string
		duplicate  bool
	}{
		{name: "valid", form: NoteForm{Title: " Groceries ", Content: " milk ", Category: "Task"}, id: 2},
		{name: "empty title", form: NoteForm{Title: "   ", Content: "milk"}, id: 2, wantFields: []string{"title"}},
		{name: "title without slug characters", form: NoteForm{Title: "???", Content: "milk"}, id: 2, wantFields: []string{"title"}},
		{name: "empty content is allowed", form: NoteForm{Title: "Groceries", Content: "  "}, id: 2},
		{name: "both invalid", form: NoteForm{Title: "", Content: strings.Repeat("b", ContentMaxLength+1)}, id: 2, wantFields: []string{"title", "content"}},
		{name: "content too long", form: NoteForm{Title: "Groceries", Content: strings.Repeat("a", ContentMaxLength+1)}, id: 2, wantFields: []string{"content"}},
		{name: "title too long", form: NoteForm{Title: strings.Repeat("a", TitleMaxLength+1), Content: "x"}, id: 2, wantFields: []string{"title"}},
		{name: "duplicate slug", form: NoteForm{Title: "BOOKS!", Content: "y"}, id: 2, wantFields: []string{"title"}, duplicate: true},
		{name: "same id keeps its slug", form: NoteForm{Title: "Books", Content: "edited"}, id: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := NewNote(active, tt.form, tt.id, created)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.id, note.ID)
				assert.Equal(t, Slugify(tt.form.Title), note.Slug)
				assert.Equal(t, strings.TrimSpace(tt.form.Title), note.Title)
				assert.Equal(t, strings.TrimSpace(tt.form.Content), note.Content)
				assert.True(t, created.Equal(note.CreationDate))
				return
			}

			require.Error(t, err)
			assert.Nil(t, note)
			assert.True(t, errors.Is(err, ErrInvalidNote))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.Equal(t, tt.duplicate, verr.DuplicateSlug)
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	slugPattern := regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
	separators := []string{" ", " - ", "!", ", ", "__", "/"}

	properties.Property("slug of alpha words is lower-case words joined by '-'", prop.ForAll(
		func(words []string, sep int) bool {
			title := strings.Join(words, separators[sep])

			var kept []string
			for _, w := range words {
				if w != "" {
					kept = append(kept, strings.ToLower(w))
				}
			}
			slug := Slugify(title)
			if len(kept) == 0 {
				return slug == ""
			}
			return slug == strings.Join(kept, "-") && slugPattern.MatchString(slug)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, len(separators)-1),
	))

	properties.Property("slugify is idempotent", prop.ForAll(
		func(words []string) bool {
			s := Slugify(strings.Join(words, " "))
			return Slugify(s) == s
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestNewNoteRejectsBlankTitles(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("whitespace-only titles are invalid", prop.ForAll(
		func(n int, content string) bool {
			_, err := NewNote(nil, NoteForm{Title: strings.Repeat(" \t", n), Content: "c" + content}, 1, created)
			return errors.Is(err, ErrInvalidNote)
		},
		gen.IntRange(0, 10),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
