package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/notepad/internal/kv"
)

// fixedClock returns the same instant on every call, forcing the id
// generator onto its counter path.
func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func openStore(t *testing.T, backend kv.Store, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), backend, opts...)
	require.NoError(t, err)
	return s
}

func TestCreate_DefaultsAndAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())

	a, err := s.Create(ctx)
	require.NoError(t, err)
	b, err := s.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, a.Title)
	assert.Empty(t, a.Body)
	assert.Positive(t, a.ID)
	assert.Greater(t, b.ID, a.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestCreate_IDsUniqueWhenClockStalls(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory(), WithClock(fixedClock(1_000)))

	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		n, err := s.Create(ctx)
		require.NoError(t, err)
		assert.False(t, seen[n.ID], "id %d issued twice", n.ID)
		seen[n.ID] = true
	}
}

func TestCreate_IDsNeverReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory(), WithClock(fixedClock(1_000)))

	a, _ := s.Create(ctx)
	b, _ := s.Create(ctx)
	require.NoError(t, s.Delete(ctx, b.ID))
	c, err := s.Create(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, b.ID, c.ID)
	assert.Greater(t, c.ID, a.ID)
}

func TestCreate_SeedsAboveLoadedIDs(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, KeyNotes, []byte(`[{"id":9000000000000,"title":"future","data":""}]`)))

	// Clock far behind the stored id.
	s := openStore(t, backend, WithClock(fixedClock(5)))
	n, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9000000000001), n.ID)
}

func TestCreate_UniqueAcrossMixedSequences(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory(), WithClock(fixedClock(42)))

	created := map[int64]int{}
	for round := 0; round < 10; round++ {
		n, err := s.Create(ctx)
		require.NoError(t, err)
		created[n.ID]++
		if round%3 == 0 {
			require.NoError(t, s.Delete(ctx, n.ID))
		}
	}

	ids := map[int64]bool{}
	for _, n := range s.List() {
		assert.False(t, ids[n.ID], "duplicate id %d in collection", n.ID)
		ids[n.ID] = true
		assert.Equal(t, 1, created[n.ID], "id %d not produced by exactly one create", n.ID)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())

	a, _ := s.Create(ctx)
	b, _ := s.Create(ctx)

	require.NoError(t, s.Delete(ctx, a.ID))
	after := s.List()
	require.NoError(t, s.Delete(ctx, a.ID))

	assert.Equal(t, after, s.List())
	assert.Equal(t, []Note{b}, s.List())
}

func TestRenameAndSetBody_AbsentIDLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend)

	n, _ := s.Create(ctx)
	require.NoError(t, s.Rename(ctx, n.ID, "kept"))
	before, err := backend.Get(ctx, KeyNotes)
	require.NoError(t, err)
	writes := backend.Writes()

	require.NoError(t, s.Rename(ctx, n.ID+1000, "ghost"))
	require.NoError(t, s.SetBody(ctx, n.ID+1000, "ghost body"))

	after, err := backend.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, backend.Writes(), "no write for absent id")
	assert.Equal(t, []Note{{ID: n.ID, Title: "kept"}}, s.List())
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend)

	n, _ := s.Create(ctx)
	assert.Equal(t, 1, backend.Writes())
	require.NoError(t, s.Rename(ctx, n.ID, "a"))
	assert.Equal(t, 2, backend.Writes())
	require.NoError(t, s.SetBody(ctx, n.ID, "b"))
	assert.Equal(t, 3, backend.Writes())
	require.NoError(t, s.Delete(ctx, n.ID))
	assert.Equal(t, 4, backend.Writes())

	data, err := backend.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestRoundTripThroughPersistence(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend)

	for i := 0; i < 3; i++ {
		n, err := s.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, s.SetBody(ctx, n.ID, "body with \"quotes\" and\nnewlines"))
	}
	require.NoError(t, s.Rename(ctx, s.List()[1].ID, ""))

	reloaded := openStore(t, backend)
	assert.Equal(t, s.List(), reloaded.List())
}

func TestOpen_MalformedOrAbsentStartsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{"absent", nil},
		{"not json", []byte("{{{")},
		{"wrong shape", []byte(`{"id":1}`)},
		{"zero id", []byte(`[{"id":0,"title":"x","data":""}]`)},
		{"duplicate ids", []byte(`[{"id":3},{"id":3}]`)},
		{"null", []byte(`null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := kv.NewMemory()
			if tt.value != nil {
				require.NoError(t, backend.Set(ctx, KeyNotes, tt.value))
			}
			s := openStore(t, backend)
			assert.Empty(t, s.List())
			assert.Equal(t, 0, s.Len())

			// Still usable.
			_, err := s.Create(ctx)
			assert.NoError(t, err)
		})
	}
}

type failingGet struct {
	kv.Store
}

func (failingGet) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestOpen_ReadFailureIsReturned(t *testing.T) {
	_, err := Open(context.Background(), failingGet{kv.NewMemory()})
	assert.Error(t, err)
}

func TestPersistFailure_ReturnedButMutationKept(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend)
	n, _ := s.Create(ctx)

	backend.FailWrites = errors.New("quota")
	err := s.Rename(ctx, n.ID, "renamed")
	assert.Error(t, err)

	got, ok := s.Find(n.ID)
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Title)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())
	n, _ := s.Create(ctx)

	got, ok := s.Find(n.ID)
	assert.True(t, ok)
	assert.Equal(t, n, got)

	_, ok = s.Find(NoSelection)
	assert.False(t, ok)
}

func TestList_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())
	n, _ := s.Create(ctx)

	list := s.List()
	list[0].Title = "mutated"

	got, _ := s.Find(n.ID)
	assert.Equal(t, DefaultTitle, got.Title)
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())

	var kinds []ChangeKind
	cancel := s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	n, _ := s.Create(ctx)
	_ = s.Rename(ctx, n.ID, "x")
	_ = s.Delete(ctx, n.ID)
	_ = s.Delete(ctx, n.ID) // no-op, no signal

	assert.Equal(t, []ChangeKind{ChangeCreated, ChangeUpdated, ChangeDeleted}, kinds)

	cancel()
	_, _ = s.Create(ctx)
	assert.Len(t, kinds, 3)
}

func TestSubscriberMayReadStore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, kv.NewMemory())

	var seen int
	s.Subscribe(func(Change) { seen = s.Len() })

	_, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestScenario_CreateRenameEditReload(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend)

	n, err := s.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Rename(ctx, n.ID, "Shopping"))
	require.NoError(t, s.SetBody(ctx, n.ID, "milk, eggs"))

	reloaded := openStore(t, backend)
	got, ok := reloaded.Find(n.ID)
	require.True(t, ok)
	assert.Equal(t, Note{ID: n.ID, Title: "Shopping", Body: "milk, eggs"}, got)
}

func TestPersistedRecordFormat(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := openStore(t, backend, WithClock(fixedClock(1700000000000)))

	n, _ := s.Create(ctx)
	require.NoError(t, s.SetBody(ctx, n.ID, "text"))

	data, err := backend.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1700000000000,"title":"New note","data":"text"}]`, string(data))
}
