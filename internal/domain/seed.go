package domain

import (
	"time"

	"github.com/haierkeys/fast-note-keeper/pkg/timex"
)

// SeedNotes demo notes used when nothing has been stored yet
// SeedNotes 尚未存储任何数据时使用的示例笔记
func SeedNotes() []*Note {
	day := func(d int) timex.Time {
		return timex.Time(time.Date(2023, time.January, d, 9, 0, 0, 0, time.Local))
	}
	return []*Note{
		{ID: 1672560000001, Title: "Shopping list", Slug: "shopping-list", Content: "Tomatoes, bread, coffee beans", Category: "Task", CreationDate: day(1)},
		{ID: 1672560000002, Title: "The theory of evolution", Slug: "the-theory-of-evolution", Content: "The evolution theory is a scientific explanation of how species change over time.", Category: "Random Thought", CreationDate: day(2)},
		{ID: 1672560000003, Title: "New feature", Slug: "new-feature", Content: "Implement note archiving with a summary per category.", Category: "Idea", CreationDate: day(3)},
		{ID: 1672560000004, Title: "William Gaddis", Slug: "william-gaddis", Content: "Power doesn't corrupt people, people corrupt power.", Category: "Quote", CreationDate: day(4)},
		{ID: 1672560000005, Title: "Books", Slug: "books", Content: "The Lean Startup, Atomic Habits", Category: "Task", CreationDate: day(5)},
	}
}
