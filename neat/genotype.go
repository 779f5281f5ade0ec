package neat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/baldhumanity/neat-go/neat/graph"
)

var (
	// ErrInvariantViolation means a committed edit left the genotype inconsistent
	// (a cycle among enabled connections, or the graph disagreeing with the gene
	// list). It signals a bug in a mutation operator, not bad input.
	ErrInvariantViolation = errors.New("genotype invariant violated")
	// ErrInvalidGenes is returned when gene lists cannot form a genotype.
	ErrInvalidGenes = errors.New("invalid gene lists")
)

// Genotype is an individual network description: ordered node genes, ordered
// connection genes, and a topology graph derived from the enabled connections.
//
// The graph is a cache of the gene lists and is never edited on its own. A
// Genotype must not be mutated from more than one goroutine at a time.
type Genotype struct {
	ID      string  // Unique identifier, used as the default file stem.
	Fitness float64 // Score assigned by an evaluation loop.

	nodes       []NodeGene
	connections []ConnectionGene
	types       map[uint64]NodeType   // node id -> type
	pairs       map[ConnectionKey]int // endpoint pair -> index in connections
	net         *graph.Graph
	nextNodeID  uint64

	rng             *rand.Rand
	checkInvariants bool
	logger          *slog.Logger
}

// Option customizes a Genotype at construction time.
type Option func(*Genotype)

// WithRand sets the random source used for candidate selection.
func WithRand(r *rand.Rand) Option {
	return func(g *Genotype) { g.rng = r }
}

// WithSeed seeds a private random source. A zero seed keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(g *Genotype) {
		if seed != 0 {
			g.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithInvariantChecks toggles the acyclicity re-check after AddConnection.
func WithInvariantChecks(on bool) Option {
	return func(g *Genotype) { g.checkInvariants = on }
}

// WithLogger sets the logger used for mutation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Genotype) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithID overrides the generated identifier.
func WithID(id string) Option {
	return func(g *Genotype) {
		if id != "" {
			g.ID = id
		}
	}
}

func newEmpty(opts []Option) *Genotype {
	g := &Genotype{
		ID:              uuid.NewString(),
		types:           make(map[uint64]NodeType),
		pairs:           make(map[ConnectionKey]int),
		checkInvariants: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// NewGenotype creates a network with no hidden nodes: sensors get ids
// 1..sensors, outputs get sensors+1..sensors+outputs, and every sensor is
// connected to every output with weight 1.0.
func NewGenotype(sensors, outputs int, opts ...Option) (*Genotype, error) {
	if sensors < 1 || outputs < 1 {
		return nil, fmt.Errorf("%w: need at least one sensor and one output, got %d and %d", ErrInvalidGenes, sensors, outputs)
	}
	g := newEmpty(opts)

	for i := 1; i <= sensors; i++ {
		g.appendNode(NodeGene{ID: uint64(i), Type: SensorNode})
	}
	for i := sensors + 1; i <= sensors+outputs; i++ {
		g.appendNode(NodeGene{ID: uint64(i), Type: OutputNode})
	}

	for i := 1; i <= sensors; i++ {
		for o := sensors + 1; o <= sensors+outputs; o++ {
			g.appendConnection(ConnectionGene{
				Source:  uint64(i),
				Target:  uint64(o),
				Weight:  1.0,
				Enabled: true,
				Lineage: PlaceholderLineage,
			})
		}
	}

	if err := g.rebuildGraph(); err != nil {
		return nil, err
	}
	return g, nil
}

// FromGenes rebuilds a genotype from persisted gene lists. The lists are
// copied. Node ids must be unique and within 1..graph.MaxNodeID; every connection must join two
// known nodes, never end at a sensor or start at an output, and appear once
// per endpoint pair; the enabled connections must be acyclic.
func FromGenes(nodes []NodeGene, connections []ConnectionGene, opts ...Option) (*Genotype, error) {
	g := newEmpty(opts)

	for _, n := range nodes {
		if !graph.ValidID(n.ID) {
			return nil, fmt.Errorf("%w: node id %d outside 1..%d", ErrInvalidGenes, n.ID, graph.MaxNodeID)
		}
		if _, dup := g.types[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrInvalidGenes, n.ID)
		}
		if n.Type != SensorNode && n.Type != HiddenNode && n.Type != OutputNode {
			return nil, fmt.Errorf("%w: node %d has unknown type %d", ErrInvalidGenes, n.ID, int(n.Type))
		}
		g.appendNode(n)
	}

	for _, c := range connections {
		src, ok := g.types[c.Source]
		if !ok {
			return nil, fmt.Errorf("%w: connection %d->%d has unknown source", ErrInvalidGenes, c.Source, c.Target)
		}
		dst, ok := g.types[c.Target]
		if !ok {
			return nil, fmt.Errorf("%w: connection %d->%d has unknown target", ErrInvalidGenes, c.Source, c.Target)
		}
		switch {
		case c.Source == c.Target:
			return nil, fmt.Errorf("%w: self connection on node %d", ErrInvalidGenes, c.Source)
		case src == OutputNode:
			return nil, fmt.Errorf("%w: connection %d->%d starts at an output", ErrInvalidGenes, c.Source, c.Target)
		case dst == SensorNode:
			return nil, fmt.Errorf("%w: connection %d->%d ends at a sensor", ErrInvalidGenes, c.Source, c.Target)
		}
		if _, dup := g.pairs[c.Key()]; dup {
			return nil, fmt.Errorf("%w: duplicate connection %d->%d", ErrInvalidGenes, c.Source, c.Target)
		}
		g.appendConnection(c)
	}

	if err := g.rebuildGraph(); err != nil {
		return nil, err
	}
	if g.net.HasCycle() {
		return nil, fmt.Errorf("%w: enabled connections form a cycle", ErrInvalidGenes)
	}
	return g, nil
}

func (g *Genotype) appendNode(n NodeGene) {
	g.nodes = append(g.nodes, n)
	g.types[n.ID] = n.Type
	if n.ID >= g.nextNodeID {
		g.nextNodeID = n.ID + 1
	}
}

func (g *Genotype) appendConnection(c ConnectionGene) {
	g.pairs[c.Key()] = len(g.connections)
	g.connections = append(g.connections, c)
}

// popConnection undoes the most recent appendConnection.
func (g *Genotype) popConnection() {
	last := g.connections[len(g.connections)-1]
	delete(g.pairs, last.Key())
	g.connections = g.connections[:len(g.connections)-1]
}

// rebuildGraph derives the topology graph from the connection genes.
func (g *Genotype) rebuildGraph() error {
	edges := make([]graph.Edge, len(g.connections))
	for i, c := range g.connections {
		edges[i] = graph.Edge{From: c.Source, To: c.Target, Weight: c.Weight, Enabled: c.Enabled}
	}
	net, err := graph.New(edges)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGenes, err)
	}
	// Nodes without enabled edges still belong to the ordering universe.
	for _, n := range g.nodes {
		net.Reserve(n.ID)
	}
	g.net = net
	return nil
}

// Nodes returns a copy of the node genes in insertion order.
func (g *Genotype) Nodes() []NodeGene {
	out := make([]NodeGene, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Connections returns a copy of the connection genes in insertion order.
func (g *Genotype) Connections() []ConnectionGene {
	out := make([]ConnectionGene, len(g.connections))
	copy(out, g.connections)
	return out
}

// NodeCount returns the number of node genes.
func (g *Genotype) NodeCount() int { return len(g.nodes) }

// ConnectionCount returns the number of connection genes, enabled or not.
func (g *Genotype) ConnectionCount() int { return len(g.connections) }

// EnabledCount returns the number of enabled connection genes.
func (g *Genotype) EnabledCount() int { return g.net.Len() }

// NodeType returns the type of node id.
func (g *Genotype) NodeType(id uint64) (NodeType, bool) {
	t, ok := g.types[id]
	return t, ok
}

// Connection returns the connection gene for the given endpoints, if any.
func (g *Genotype) Connection(source, target uint64) (ConnectionGene, bool) {
	i, ok := g.pairs[ConnectionKey{Source: source, Target: target}]
	if !ok {
		return ConnectionGene{}, false
	}
	return g.connections[i], true
}

// HasHidden reports whether any hidden node exists.
func (g *Genotype) HasHidden() bool {
	for _, n := range g.nodes {
		if n.Type == HiddenNode {
			return true
		}
	}
	return false
}

// SensorIDs returns the ids of all sensor nodes, ascending.
func (g *Genotype) SensorIDs() []uint64 { return g.idsOf(SensorNode) }

// OutputIDs returns the ids of all output nodes, ascending.
func (g *Genotype) OutputIDs() []uint64 { return g.idsOf(OutputNode) }

func (g *Genotype) idsOf(t NodeType) []uint64 {
	var ids []uint64
	for _, n := range g.nodes {
		if n.Type == t {
			ids = append(ids, n.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Ancestors returns every node that reaches id through enabled connections, id included.
func (g *Genotype) Ancestors(id uint64) graph.NodeSet { return g.net.Ancestors(id) }

// Children returns every node reachable from id through enabled connections, id included.
func (g *Genotype) Children(id uint64) graph.NodeSet { return g.net.Children(id) }

// HasCycle reports whether the enabled connections contain a cycle. It should
// always be false for a genotype built by this package.
func (g *Genotype) HasCycle() bool { return g.net.HasCycle() }

// Components returns the number of weakly connected groups of nodes.
func (g *Genotype) Components() int { return g.net.Components() }

// TopologicalOrder returns every node id in an order where each enabled
// connection points forward. Ids without a node gene are left out.
func (g *Genotype) TopologicalOrder() ([]uint64, error) {
	order, err := g.net.TopSort()
	if err != nil {
		return nil, fmt.Errorf("genotype %s: %w", g.ID, err)
	}
	out := order[:0]
	for _, id := range order {
		if _, ok := g.types[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// Validate checks that the graph mirrors exactly the enabled connection genes
// and that it is acyclic.
func (g *Genotype) Validate() error {
	enabled := 0
	for _, c := range g.connections {
		if !c.Enabled {
			if g.net.Exist(c.Source, c.Target) {
				return fmt.Errorf("%w: disabled connection %d->%d present in graph", ErrInvariantViolation, c.Source, c.Target)
			}
			continue
		}
		enabled++
		w, ok := g.net.Weight(c.Source, c.Target)
		if !ok {
			return fmt.Errorf("%w: enabled connection %d->%d missing from graph", ErrInvariantViolation, c.Source, c.Target)
		}
		if math.Float64bits(w) != math.Float64bits(c.Weight) {
			return fmt.Errorf("%w: connection %d->%d weight %v, graph has %v", ErrInvariantViolation, c.Source, c.Target, c.Weight, w)
		}
	}
	if enabled != g.net.Len() {
		return fmt.Errorf("%w: %d enabled connections but %d graph edges", ErrInvariantViolation, enabled, g.net.Len())
	}
	if g.net.HasCycle() {
		return fmt.Errorf("%w: enabled connections form a cycle", ErrInvariantViolation)
	}
	return nil
}

// Clone returns a deep copy with a new ID and a random source seeded from g.
func (g *Genotype) Clone() *Genotype {
	c := &Genotype{
		ID:              uuid.NewString(),
		Fitness:         g.Fitness,
		nodes:           g.Nodes(),
		connections:     g.Connections(),
		types:           make(map[uint64]NodeType, len(g.types)),
		pairs:           make(map[ConnectionKey]int, len(g.pairs)),
		net:             g.net.Clone(),
		nextNodeID:      g.nextNodeID,
		rng:             rand.New(rand.NewSource(g.rng.Int63())),
		checkInvariants: g.checkInvariants,
		logger:          g.logger,
	}
	for id, t := range g.types {
		c.types[id] = t
	}
	for k, i := range g.pairs {
		c.pairs[k] = i
	}
	return c
}
