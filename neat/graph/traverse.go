package graph

import "fmt"

// NodeSet is an unordered set of node identifiers.
type NodeSet map[NodeID]struct{}

// Has reports whether n is in the set.
func (s NodeSet) Has(n NodeID) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []NodeID {
	out := make([]NodeID, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sortIDs(out)
	return out
}

// Ancestors returns every node that can reach n, including n itself.
func (g *Graph) Ancestors(n NodeID) NodeSet {
	return bfs(n, func(cur NodeID, visit func(NodeID)) {
		for p := range g.transpose[cur] {
			visit(p)
		}
	})
}

// Children returns every node reachable from n, including n itself.
func (g *Graph) Children(n NodeID) NodeSet {
	return bfs(n, func(cur NodeID, visit func(NodeID)) {
		for c := range g.forward[cur] {
			visit(c)
		}
	})
}

// Reachable reports whether a path from -> to exists. A node reaches itself.
func (g *Graph) Reachable(from, to NodeID) bool {
	if from == to {
		return true
	}
	seen := map[NodeID]struct{}{from: {}}
	queue := []NodeID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.forward[cur] {
			if next == to {
				return true
			}
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

// bfs marks the start node visited immediately, so it is always part of the result.
func bfs(start NodeID, adjacent func(NodeID, func(NodeID))) NodeSet {
	reached := NodeSet{start: {}}
	queue := []NodeID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		adjacent(cur, func(next NodeID) {
			if _, ok := reached[next]; ok {
				return
			}
			reached[next] = struct{}{}
			queue = append(queue, next)
		})
	}
	return reached
}

// TopSort returns a topological ordering of the nodes 1..HighestNode() using
// Kahn's algorithm. Nodes with zero in-degree are seeded in ascending order and
// successors are released in ascending order, so the result is deterministic.
// ErrCycleDetected is returned when some nodes can never be released.
func (g *Graph) TopSort() ([]NodeID, error) {
	n := g.highest
	indeg := make([]int, n+1) // ids are 1-based
	for _, succ := range g.forward {
		for b := range succ {
			indeg[b]++
		}
	}

	queue := make([]NodeID, 0, n)
	for id := NodeID(1); id <= n; id++ {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]NodeID, 0, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, next := range g.successors(cur) {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if uint64(len(order)) < n {
		return nil, fmt.Errorf("topsort ordered %d of %d nodes: %w", len(order), n, ErrCycleDetected)
	}
	return order, nil
}

// HasCycle runs an iterative depth-first search from every node 1..HighestNode()
// and reports whether any edge leads back into the active path.
func (g *Graph) HasCycle() bool {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]uint8, g.highest+1)

	type frame struct {
		node NodeID
		next []NodeID
	}

	for root := NodeID(1); root <= g.highest; root++ {
		if state[root] != unvisited {
			continue
		}
		state[root] = active
		stack := []frame{{node: root, next: g.successors(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.next) == 0 {
				state[top.node] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.next[0]
			top.next = top.next[1:]
			switch state[child] {
			case active:
				return true
			case unvisited:
				state[child] = active
				stack = append(stack, frame{node: child, next: g.successors(child)})
			}
		}
	}
	return false
}
