package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-keeper/internal/dao"
	"github.com/haierkeys/fast-note-keeper/internal/domain"
	"github.com/haierkeys/fast-note-keeper/internal/dto"
	"github.com/haierkeys/fast-note-keeper/pkg/app"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory domain.StorageRepository
type memoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	fail   bool
	writes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	return m.SetMany(ctx, map[string][]byte{key: value})
}

func (m *memoryStore) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	for k, v := range values {
		m.data[k] = v
	}
	m.writes++
	return nil
}

type fixture struct {
	store *memoryStore
	repo  domain.NoteStateRepository
	svc   NoteService
}

func newFixture(t testing.TB, prepopulate bool) *fixture {
	t.Helper()
	store := newMemoryStore()
	repo := dao.NewNoteStateRepository(store)
	svc := NewNoteService(repo, &NoteServiceConfig{Prepopulate: prepopulate}, nil)
	return &fixture{store: store, repo: repo, svc: svc}
}

// persisted decodes what is stored under key
func (f *fixture) persisted(t testing.TB, key string) []*domain.Note {
	t.Helper()
	notes, _, err := f.repo.Load(context.Background(), key)
	require.NoError(t, err)
	return notes
}

func slugsOf(list []*domain.Note) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Slug)
	}
	return out
}

func TestCreate_AppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	var events []NoteEvent
	f.svc.Subscribe(func(_ context.Context, e NoteEvent) { events = append(events, e) })

	note, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Shopping list", Content: "milk"})
	require.NoError(t, err)
	assert.Equal(t, "shopping-list", note.Slug)
	assert.Equal(t, "Task", note.Category, "empty category falls back to the first one")
	assert.False(t, note.CreationDate.IsZero())
	assert.NotZero(t, note.ID)

	second, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Ideas", Content: "x", Category: "Idea"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, note.ID)

	assert.Equal(t, []string{"shopping-list", "ideas"}, slugsOf(f.persisted(t, domain.StorageKeyActive)))
	require.Len(t, events, 2)
	assert.Equal(t, NoteActionCreate, events[0].Action)
	assert.Equal(t, 2, events[1].Active)
}

func TestCreate_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	_, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "  ", Content: "x"})
	assert.ErrorIs(t, err, code.ErrorNoteTitleInvalid)
	var c *code.Code
	require.True(t, errors.As(err, &c))
	assert.Equal(t, []string{"title"}, c.Details())

	_, err = f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Books", Content: "dup"})
	assert.ErrorIs(t, err, code.ErrorNoteSlugExist)

	_, err = f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Fine", Content: "x", Category: "Recipe"})
	assert.ErrorIs(t, err, code.ErrorNoteCategoryInvalid)

	assert.Zero(t, f.store.writes)
	_, found, _ := f.store.Get(ctx, domain.StorageKeyActive)
	assert.False(t, found)
}

func TestSet_KeepsCreationDateForExistingID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	seed := domain.SeedNotes()[2]

	note, replaced, err := f.svc.Set(ctx, &dto.NoteSetRequest{ID: seed.ID, Title: "New feature v2", Content: "more", Category: "Idea"})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.True(t, seed.CreationDate.Equal(note.CreationDate))

	active := f.persisted(t, domain.StorageKeyActive)
	require.Len(t, active, 5)
	assert.Equal(t, "new-feature-v2", active[2].Slug)
	assert.Equal(t, seed.ID, active[2].ID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	note, err := f.svc.Update(ctx, &dto.NoteUpdateRequest{Slug: "books", Title: "Books to read", Content: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "books-to-read", note.Slug)

	_, err = f.svc.Get(ctx, "books")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = f.svc.Update(ctx, &dto.NoteUpdateRequest{Slug: "missing", Title: "x", Content: "y"})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestDeleteArchiveUnarchive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	_, err := f.svc.Archive(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, []string{"books"}, slugsOf(f.persisted(t, domain.StorageKeyArchive)))
	assert.NotContains(t, slugsOf(f.persisted(t, domain.StorageKeyActive)), "books")

	_, err = f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Books", Content: "again"})
	require.NoError(t, err)
	_, err = f.svc.Unarchive(ctx, "books")
	assert.ErrorIs(t, err, code.ErrorNoteSlugExist)

	_, err = f.svc.Delete(ctx, "books")
	require.NoError(t, err)
	restored, err := f.svc.Unarchive(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, "Books", restored.Title)

	active := f.persisted(t, domain.StorageKeyActive)
	assert.Equal(t, "books", active[len(active)-1].Slug)
	assert.Empty(t, f.persisted(t, domain.StorageKeyArchive))

	writes := f.store.writes
	_, err = f.svc.Delete(ctx, "nope")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	_, err = f.svc.Archive(ctx, "nope")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Equal(t, writes, f.store.writes)
}

func TestFailingStoreLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	before, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)

	f.store.fail = true
	var fired bool
	f.svc.Subscribe(func(context.Context, NoteEvent) { fired = true })

	_, err = f.svc.Create(ctx, &dto.NoteSetRequest{Title: "New", Content: "x"})
	assert.ErrorIs(t, err, code.ErrorNoteSaveFailed)
	_, err = f.svc.Archive(ctx, "books")
	assert.ErrorIs(t, err, code.ErrorNoteSaveFailed)
	_, err = f.svc.Delete(ctx, "quote")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	after, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, slugsOf(before.Active), slugsOf(after.Active))
	assert.Empty(t, after.Archive)
	assert.False(t, fired)
}

func TestListAndSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	list, total, err := f.svc.ListActive(ctx, &app.Pager{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, list, 2)
	assert.Equal(t, "new-feature", list[0].Slug)

	all, _, err := f.svc.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = f.svc.Archive(ctx, "shopping-list")
	require.NoError(t, err)
	archived, total, err := f.svc.ListArchive(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "shopping-list", archived[0].Slug)

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*dto.CategorySummaryDTO{
		{Category: "Task", Active: 1, Archived: 1},
		{Category: "Random Thought", Active: 1},
		{Category: "Idea", Active: 1},
		{Category: "Quote", Active: 1},
	}, summary)
}

func TestNextIDIsMonotonic(t *testing.T) {
	f := newFixture(t, true)
	s := f.svc.(*noteService)
	s.now = func() time.Time { return time.UnixMilli(1000) }

	a, err := s.Create(context.Background(), &dto.NoteSetRequest{Title: "a", Content: "a"})
	require.NoError(t, err)
	b, err := s.Create(context.Background(), &dto.NoteSetRequest{Title: "b", Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1672560000006), a.ID)
	assert.Equal(t, a.ID+1, b.ID)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "note " + strings.Repeat("x", i+1), Content: "c"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Active, 20)
	assert.Equal(t, slugsOf(snap.Active), slugsOf(f.persisted(t, domain.StorageKeyActive)))
}

func TestNoteStateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	title := gen.Identifier().Map(func(s string) string {
		if len(s) > 40 {
			s = s[:40]
		}
		return "x" + s
	})

	properties.Property("empty title is rejected and state is unchanged", prop.ForAll(
		func(pad int, content string) bool {
			f := newFixture(t, true)
			_, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: strings.Repeat(" ", pad), Content: "c" + content})
			snap, _ := f.svc.Snapshot(ctx)
			return errors.Is(err, code.ErrorNoteTitleInvalid) && len(snap.Active) == 5 && f.store.writes == 0
		},
		gen.IntRange(0, 5),
		gen.AlphaString(),
	))

	properties.Property("a new id is appended and persisted", prop.ForAll(
		func(title string) bool {
			f := newFixture(t, true)
			note, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: title, Content: "body"})
			if err != nil {
				return false
			}
			active := f.persisted(t, domain.StorageKeyActive)
			last := active[len(active)-1]
			return len(active) == 6 && last.ID == note.ID && last.Slug == domain.Slugify(title)
		},
		title,
	))

	properties.Property("an existing id is replaced in place", prop.ForAll(
		func(i int, title string) bool {
			f := newFixture(t, true)
			target := domain.SeedNotes()[i]
			replaced, err := f.svc.SetActive(ctx, &domain.Note{ID: target.ID, Title: title, Slug: domain.Slugify(title), Content: "c", Category: "Idea"})
			if err != nil || !replaced {
				return false
			}
			active := f.persisted(t, domain.StorageKeyActive)
			return len(active) == 5 && active[i].ID == target.ID && active[i].Title == title
		},
		gen.IntRange(0, 4),
		title,
	))

	properties.Property("archive moves the note from active to the end of archive", prop.ForAll(
		func(i int) bool {
			f := newFixture(t, true)
			slug := domain.SeedNotes()[i].Slug
			if _, err := f.svc.Archive(ctx, slug); err != nil {
				return false
			}
			active := f.persisted(t, domain.StorageKeyActive)
			archive := f.persisted(t, domain.StorageKeyArchive)
			return len(active) == 4 && domain.IndexBySlug(active, slug) < 0 &&
				len(archive) == 1 && archive[0].Slug == slug
		},
		gen.IntRange(0, 4),
	))

	properties.Property("delete removes exactly one entry by slug", prop.ForAll(
		func(i int) bool {
			f := newFixture(t, true)
			seeds := domain.SeedNotes()
			if _, err := f.svc.Delete(ctx, seeds[i].Slug); err != nil {
				return false
			}
			active := f.persisted(t, domain.StorageKeyActive)
			want := append(slugsOf(seeds[:i]), slugsOf(seeds[i+1:])...)
			return assert.ObjectsAreEqual(want, slugsOf(active))
		},
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

func TestCreate_ContentIsOptional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	note, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Call mom"})
	require.NoError(t, err)
	assert.Empty(t, note.Content)

	_, err = f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Essay", Content: strings.Repeat("w", domain.ContentMaxLength+1)})
	assert.ErrorIs(t, err, code.ErrorNoteTitleInvalid)
	assert.Len(t, f.persisted(t, domain.StorageKeyActive), 1)
}

func TestSet_RejectsArchivedID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	alpha, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "Alpha", Content: "a"})
	require.NoError(t, err)
	_, err = f.svc.Archive(ctx, "alpha")
	require.NoError(t, err)

	_, _, err = f.svc.Set(ctx, &dto.NoteSetRequest{ID: alpha.ID, Title: "Beta", Content: "b"})
	assert.ErrorIs(t, err, code.ErrorNoteIDArchived)

	_, err = f.svc.SetActive(ctx, &domain.Note{ID: alpha.ID, Title: "Beta", Slug: "beta", Category: "Task"})
	assert.ErrorIs(t, err, code.ErrorNoteIDArchived)
	assert.Empty(t, f.persisted(t, domain.StorageKeyActive))

	restored, err := f.svc.Unarchive(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, restored.ID)
	assert.Equal(t, []string{"alpha"}, slugsOf(f.persisted(t, domain.StorageKeyActive)))
}

func TestUnarchive_RejectsIDHeldByActiveNote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	// stored data from before ids were checked across collections
	require.NoError(t, f.repo.SaveState(ctx, map[string][]*domain.Note{
		domain.StorageKeyActive:  {{ID: 7, Title: "Beta", Slug: "beta", Category: "Task"}},
		domain.StorageKeyArchive: {{ID: 7, Title: "Alpha", Slug: "alpha", Category: "Task"}},
	}))

	_, err := f.svc.Unarchive(ctx, "alpha")
	assert.ErrorIs(t, err, code.ErrorNoteIDArchived)
	assert.Equal(t, []string{"alpha"}, slugsOf(f.persisted(t, domain.StorageKeyArchive)))
}

func TestList_HugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	list, total, err := f.svc.ListActive(ctx, &app.Pager{Page: 1 << 62, PageSize: 100})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, len(domain.SeedNotes()), total)
}

func TestEvents_CarryCommitSequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	var mu sync.Mutex
	var seqs []uint64
	f.svc.Subscribe(func(_ context.Context, e NoteEvent) {
		mu.Lock()
		seqs = append(seqs, e.Seq)
		mu.Unlock()
		assert.Equal(t, e.Seq, e.ToDTO().Seq)
	})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, &dto.NoteSetRequest{Title: "note " + strings.Repeat("y", i+1)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, seqs, n)
	seen := map[uint64]bool{}
	for _, s := range seqs {
		assert.False(t, seen[s], "duplicate seq %d", s)
		assert.True(t, s >= 1 && s <= n)
		seen[s] = true
	}

	// a sequential mutation follows every earlier commit
	_, err := f.svc.Delete(ctx, "note-y")
	require.NoError(t, err)
	assert.EqualValues(t, n+1, seqs[len(seqs)-1])
}
