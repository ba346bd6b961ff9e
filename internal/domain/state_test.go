package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func notes(slugs ...string) []*Note {
	out := make([]*Note, 0, len(slugs))
	for i, s := range slugs {
		out = append(out, &Note{ID: int64(i + 1), Title: s, Slug: s, Content: s, Category: "Task"})
	}
	return out
}

func TestUpsertByID(t *testing.T) {
	list := notes("a", "b", "c")

	replaced, ok := UpsertByID(list, &Note{ID: 2, Slug: "b2"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b2", "c"}, slugs(replaced))
	assert.Equal(t, "b", list[1].Slug, "input must not be modified")

	appended, ok := UpsertByID(list, &Note{ID: 9, Slug: "z"})
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "c", "z"}, slugs(appended))
	assert.Len(t, list, 3)
}

func TestRemoveBySlug(t *testing.T) {
	list := notes("a", "b", "c")
	list = append(list, &Note{ID: 4, Slug: "b"})

	out, removed := RemoveBySlug(list, "b")
	assert.Equal(t, int64(2), removed.ID)
	assert.Equal(t, []string{"a", "c", "b"}, slugs(out), "only the first match is removed")
	assert.Len(t, list, 4)

	same, removed := RemoveBySlug(list, "missing")
	assert.Nil(t, removed)
	assert.Len(t, same, 4)
}

func TestCloneIsDeep(t *testing.T) {
	s := NotesState{Active: notes("a"), Archive: notes("b")}
	c := s.Clone()
	c.Active[0].Title = "changed"
	assert.Equal(t, "a", s.Active[0].Title)

	assert.NotNil(t, NotesState{}.Clone().Active)
}

func TestMaxID(t *testing.T) {
	s := NotesState{Active: notes("a", "b"), Archive: []*Note{{ID: 40, Slug: "x"}}}
	assert.Equal(t, int64(40), s.MaxID())
	assert.Equal(t, int64(0), NotesState{}.MaxID())
}

func TestSummarize(t *testing.T) {
	state := NotesState{
		Active: []*Note{
			{Slug: "a", Category: "Task"},
			{Slug: "b", Category: "Idea"},
			{Slug: "c", Category: "Task"},
			{Slug: "d", Category: "Legacy"},
		},
		Archive: []*Note{{Slug: "e", Category: "Idea"}},
	}

	got := Summarize(state, []string{"Task", "Random Thought", "Idea"})
	assert.Equal(t, []CategorySummary{
		{Category: "Task", Active: 2},
		{Category: "Random Thought"},
		{Category: "Idea", Active: 1, Archived: 1},
		{Category: "Legacy", Active: 1},
	}, got)
}

func slugs(list []*Note) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Slug)
	}
	return out
}
