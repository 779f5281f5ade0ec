package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the number of weakly connected components among the
// nodes 1..HighestNode(). Edge direction is ignored and every node in the
// universe counts, so an isolated node forms its own component.
func (g *Graph) Components() int {
	if g.highest == 0 {
		return 0
	}
	u := simple.NewUndirectedGraph()
	for id := NodeID(1); id <= g.highest; id++ {
		u.AddNode(simple.Node(int64(id)))
	}
	for a, succ := range g.forward {
		for b := range succ {
			if a == b {
				continue
			}
			u.SetEdge(simple.Edge{F: simple.Node(int64(a)), T: simple.Node(int64(b))})
		}
	}
	return len(topo.ConnectedComponents(u))
}
