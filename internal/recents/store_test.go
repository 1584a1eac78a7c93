package recents

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/storage"
	"go.uber.org/zap/zaptest"
)

type brokenKV struct {
	getErr, setErr, removeErr error
}

func (b brokenKV) Get(context.Context, string) (string, error) { return "", b.getErr }
func (b brokenKV) Set(context.Context, string, string) error   { return b.setErr }
func (b brokenKV) Remove(context.Context, string) error        { return b.removeErr }
func (b brokenKV) Ping(context.Context) error                  { return nil }
func (b brokenKV) Close() error                                { return nil }

func newStore(t *testing.T) (*Store, *storage.Memory) {
	kv := storage.NewMemory()
	return NewStore(kv, zaptest.NewLogger(t)), kv
}

func TestRecord_MostRecentFirst(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Record(ctx, "Paris")
	s.Record(ctx, "Oslo")
	got := s.Record(ctx, "Lima")

	assert.Equal(t, []string{"Lima", "Oslo", "Paris"}, got)
	assert.Equal(t, got, s.List(ctx))
}

func TestRecord_CaseInsensitiveDedupLaterCasingWins(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Record(ctx, "Paris")
	got := s.Record(ctx, "paris")

	assert.Equal(t, []string{"paris"}, got)
}

func TestRecord_MovesExistingToFront(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, c := range []string{"Paris", "Oslo", "Lima"} {
		s.Record(ctx, c)
	}
	got := s.Record(ctx, "OSLO")

	assert.Equal(t, []string{"OSLO", "Lima", "Paris"}, got)
}

func TestRecord_EvictsOldestBeyondCapacity(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	cities := []string{"Paris", "Oslo", "Lima", "Rome", "Cairo", "Tokyo", "Quito"}
	for _, c := range cities {
		s.Record(ctx, c)
	}

	got := s.List(ctx)
	require.Len(t, got, Capacity)
	assert.Equal(t, []string{"Quito", "Tokyo", "Cairo", "Rome", "Lima", "Oslo"}, got)
	assert.NotContains(t, got, "Paris")
}

func TestList_MissingIsEmpty(t *testing.T) {
	s, _ := newStore(t)

	got := s.List(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_CorruptedIsEmpty(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, Key, "{not json"))

	assert.Empty(t, s.List(ctx))

	// Recording over corrupted state starts a fresh list.
	assert.Equal(t, []string{"Paris"}, s.Record(ctx, "Paris"))
}

func TestStorageFailuresBehaveAsEmpty(t *testing.T) {
	boom := errors.New("disk on fire")
	s := NewStore(brokenKV{getErr: boom, setErr: boom, removeErr: boom}, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.Empty(t, s.List(ctx))
	assert.Equal(t, []string{"Paris"}, s.Record(ctx, "Paris"))
	assert.Empty(t, s.List(ctx))
	assert.NotPanics(t, func() { s.Clear(ctx) })
}

func TestClear(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Record(ctx, "Paris")
	s.Clear(ctx)

	assert.Empty(t, s.List(ctx))
}

func TestRestoredAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	kv, err := storage.NewSQLite(ctx, path)
	require.NoError(t, err)
	NewStore(kv, zaptest.NewLogger(t)).Record(ctx, "Reykjavik")
	require.NoError(t, kv.Close())

	kv, err = storage.NewSQLite(ctx, path)
	require.NoError(t, err)
	defer kv.Close()

	assert.Equal(t, []string{"Reykjavik"}, NewStore(kv, zaptest.NewLogger(t)).List(ctx))
}
