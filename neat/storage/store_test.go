package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-go/neat"
)

func quiet() neat.Option {
	return neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mutated(t *testing.T, id string, seed int64) *neat.Genotype {
	t.Helper()
	g, err := neat.NewGenotype(3, 2, neat.WithID(id), neat.WithSeed(seed), quiet())
	require.NoError(t, err)
	cfg := &neat.MutationConfig{AddNodeProb: 0.5, AddConnectionProb: 0.7, ToggleConnectionProb: 0.2, Attempts: 4}
	for i := 0; i < 10; i++ {
		_, err := g.Mutate(cfg)
		require.NoError(t, err)
	}
	return g
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	a := mutated(t, "alpha", 1)
	b := mutated(t, "beta", 2)
	require.NoError(t, s.Put(ctx, b))
	require.NoError(t, s.Put(ctx, a))

	got, ok, err := s.Get(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", got.ID)
	assert.Equal(t, a.Nodes(), got.Nodes())
	assert.Equal(t, a.Connections(), got.Connections())
	require.NoError(t, got.Validate())

	_, ok, err = s.Get(ctx, "gamma")
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)

	// Overwrite keeps a single entry.
	_, err = a.AddNode()
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, a))
	got, _, err = s.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, a.Connections(), got.Connections())

	require.NoError(t, s.Delete(ctx, "beta"))
	require.ErrorIs(t, s.Delete(ctx, "beta"), ErrNotFound)
	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, ids)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, s.Put(cancelled, a), context.Canceled)
	_, _, err = s.Get(cancelled, "alpha")
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(quiet()))
}

func TestBadgerStoreInMemory(t *testing.T) {
	s, err := OpenBadgerStore(BadgerConfig{InMemory: true}, quiet())
	require.NoError(t, err)
	testStore(t, s)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	ctx := context.Background()

	s, err := NewStore(neat.ArchiveConfig{Backend: "badger", Path: dir}, nil, quiet())
	require.NoError(t, err)
	g := mutated(t, "persisted", 7)
	require.NoError(t, s.Put(ctx, g))
	require.NoError(t, s.Close())

	s, err = NewStore(neat.ArchiveConfig{Backend: "badger", Path: dir}, nil, quiet())
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(ctx, "persisted")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, g.Connections(), got.Connections())
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(neat.ArchiveConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(neat.ArchiveConfig{Backend: "redis"}, nil)
	require.Error(t, err)
	_, err = NewStore(neat.ArchiveConfig{Backend: "badger"}, nil)
	require.Error(t, err)
}
