package neat

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource is a rand.Source whose draws make rand.Rand.Intn(n) return
// the scripted values in order (each must be smaller than n), cycling forever.
type scriptedSource struct {
	vals []int
	pos  int
}

func (s *scriptedSource) Int63() int64 {
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	// Intn reads the top 31 bits, so place the value there.
	return int64(v) << 32
}

func (s *scriptedSource) Seed(int64) {}

func scripted(vals ...int) Option {
	return WithRand(rand.New(&scriptedSource{vals: vals}))
}

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestGenotype(t *testing.T, sensors, outputs int, opts ...Option) *Genotype {
	t.Helper()
	g, err := NewGenotype(sensors, outputs, append([]Option{quietLogger()}, opts...)...)
	require.NoError(t, err)
	return g
}

// requireConsistent checks every structural invariant of g.
func requireConsistent(t *testing.T, g *Genotype) {
	t.Helper()
	require.NoError(t, g.Validate())
	require.False(t, g.HasCycle())

	seen := make(map[ConnectionKey]bool)
	for _, c := range g.Connections() {
		require.False(t, seen[c.Key()], "duplicate connection gene %d->%d", c.Source, c.Target)
		seen[c.Key()] = true
		_, ok := g.NodeType(c.Source)
		require.True(t, ok)
		_, ok = g.NodeType(c.Target)
		require.True(t, ok)
	}

	ids := make(map[uint64]bool)
	for _, n := range g.Nodes() {
		require.False(t, ids[n.ID], "duplicate node id %d", n.ID)
		ids[n.ID] = true
	}
}
