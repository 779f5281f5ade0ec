// Package graph implements the directed topology graph behind a genotype.
//
// A Graph keeps two views over the same edge set: a forward view mapping a node
// to its successors and their weights, and a transpose view mapping a node to
// its predecessors. Both views are only ever edited together through Add and
// Erase, so an edge a->b exists in the forward view iff a is a predecessor of b
// in the transpose view.
//
// Node identifiers are 1-based and at most MaxNodeID. The graph has no explicit
// node list; instead it tracks the highest identifier it has seen, and the node
// universe used by TopSort, HasCycle and Components is 1..HighestNode().
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// NodeID identifies a node. Valid identifiers are 1..MaxNodeID.
type NodeID = uint64

// MaxNodeID bounds node identifiers. The traversals index dense slices by id.
const MaxNodeID NodeID = 1 << 20

var (
	// ErrCycleDetected is returned by TopSort when the graph is not a DAG.
	ErrCycleDetected = errors.New("graph contains cycle(s)")
	// ErrDuplicateEdge is returned by Construct when the same pair appears twice.
	ErrDuplicateEdge = errors.New("duplicate edge")
	// ErrNodeOutOfRange is returned by Construct for an id of 0 or above MaxNodeID.
	ErrNodeOutOfRange = errors.New("node id out of range")
)

// ValidID reports whether n is usable as a node identifier.
func ValidID(n NodeID) bool {
	return n >= 1 && n <= MaxNodeID
}

// Edge is the input record for Construct. Disabled edges are skipped.
type Edge struct {
	From    NodeID
	To      NodeID
	Weight  float64
	Enabled bool
}

// Graph is a weighted directed graph with a synchronized transpose.
// It is not safe for concurrent mutation.
type Graph struct {
	forward   map[NodeID]map[NodeID]float64
	transpose map[NodeID]map[NodeID]struct{}
	highest   NodeID
	edges     int
}

// New builds a graph from the enabled entries of edges.
func New(edges []Edge) (*Graph, error) {
	g := &Graph{}
	if err := g.Construct(edges); err != nil {
		return nil, err
	}
	return g, nil
}

// Construct discards the current state and rebuilds both views from the
// enabled entries of edges. On error the graph is left empty.
func (g *Graph) Construct(edges []Edge) error {
	g.reset()
	for _, e := range edges {
		if !e.Enabled {
			continue
		}
		if !ValidID(e.From) || !ValidID(e.To) {
			g.reset()
			return fmt.Errorf("construct %d->%d: %w", e.From, e.To, ErrNodeOutOfRange)
		}
		if !g.Add(e.From, e.To, e.Weight) {
			g.reset()
			return fmt.Errorf("construct %d->%d: %w", e.From, e.To, ErrDuplicateEdge)
		}
	}
	return nil
}

func (g *Graph) reset() {
	g.forward = make(map[NodeID]map[NodeID]float64)
	g.transpose = make(map[NodeID]map[NodeID]struct{})
	g.highest = 0
	g.edges = 0
}

// Add inserts a->b with weight w into both views. It returns false and leaves
// the graph untouched if the edge already exists or either id is not ValidID.
func (g *Graph) Add(a, b NodeID, w float64) bool {
	if g.forward == nil {
		g.reset()
	}
	if !ValidID(a) || !ValidID(b) || g.Exist(a, b) {
		return false
	}
	succ, ok := g.forward[a]
	if !ok {
		succ = make(map[NodeID]float64)
		g.forward[a] = succ
	}
	succ[b] = w

	pred, ok := g.transpose[b]
	if !ok {
		pred = make(map[NodeID]struct{})
		g.transpose[b] = pred
	}
	pred[a] = struct{}{}

	g.Reserve(a)
	g.Reserve(b)
	g.edges++
	return true
}

// Erase removes a->b from both views. It returns false if the edge is absent.
func (g *Graph) Erase(a, b NodeID) bool {
	if !g.Exist(a, b) {
		return false
	}
	delete(g.forward[a], b)
	if len(g.forward[a]) == 0 {
		delete(g.forward, a)
	}
	delete(g.transpose[b], a)
	if len(g.transpose[b]) == 0 {
		delete(g.transpose, b)
	}
	g.edges--
	return true
}

// Exist reports whether a->b is present.
func (g *Graph) Exist(a, b NodeID) bool {
	_, ok := g.forward[a][b]
	return ok
}

// Weight returns the weight of a->b.
func (g *Graph) Weight(a, b NodeID) (float64, bool) {
	w, ok := g.forward[a][b]
	return w, ok
}

// Reserve widens the node universe to include n. Nodes normally enter the
// universe through Add; Reserve covers nodes that currently have no edges.
// Ids above MaxNodeID are ignored.
func (g *Graph) Reserve(n NodeID) {
	if n > g.highest && n <= MaxNodeID {
		g.highest = n
	}
}

// HighestNode returns the largest node identifier seen so far.
func (g *Graph) HighestNode() NodeID {
	return g.highest
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	return g.edges
}

// Edges returns every edge, sorted by (From, To). All returned edges are enabled.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for a, succ := range g.forward {
		for b, w := range succ {
			out = append(out, Edge{From: a, To: b, Weight: w, Enabled: true})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Clone returns an independent copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{}
	c.reset()
	for a, succ := range g.forward {
		for b, w := range succ {
			c.Add(a, b, w)
		}
	}
	c.highest = g.highest
	return c
}

// successors returns the successors of n in ascending order.
func (g *Graph) successors(n NodeID) []NodeID {
	succ := g.forward[n]
	out := make([]NodeID, 0, len(succ))
	for m := range succ {
		out = append(out, m)
	}
	sortIDs(out)
	return out
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
