package neat

import (
	"fmt"

	"github.com/baldhumanity/neat-go/neat/graph"
)

// MutationOperator names a structural mutation.
type MutationOperator string

const (
	OpAddNode          MutationOperator = "add_node"
	OpAddConnection    MutationOperator = "add_connection"
	OpToggleConnection MutationOperator = "toggle_connection"
)

// MutationResult reports the outcome of one operator invocation in Mutate,
// together with the genotype size right after that operator finished.
type MutationResult struct {
	Operator MutationOperator
	Accepted bool
	Attempts int // random draws used, at least 1

	Nodes              int
	Connections        int
	EnabledConnections int
	Components         int
}

func (g *Genotype) stamp(res *MutationResult) {
	res.Nodes = len(g.nodes)
	res.Connections = len(g.connections)
	res.EnabledConnections = g.net.Len()
	res.Components = g.net.Components()
}

// Mutate applies structural mutations according to the probabilities in
// config. Each operator that fires is retried up to config.Attempts times until
// a draw is accepted. The first invariant violation stops the round.
func (g *Genotype) Mutate(config *MutationConfig) ([]MutationResult, error) {
	ops := []struct {
		op   MutationOperator
		prob float64
		run  func() (bool, error)
	}{
		{OpAddNode, config.AddNodeProb, g.AddNode},
		{OpAddConnection, config.AddConnectionProb, g.AddConnection},
		{OpToggleConnection, config.ToggleConnectionProb, g.ToggleConnection},
	}

	attempts := config.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var results []MutationResult
	for _, o := range ops {
		if g.rng.Float64() >= o.prob {
			continue
		}
		res := MutationResult{Operator: o.op}
		for res.Attempts < attempts && !res.Accepted {
			res.Attempts++
			ok, err := o.run()
			if err != nil {
				g.stamp(&res)
				results = append(results, res)
				return results, fmt.Errorf("mutate %s: %w", o.op, err)
			}
			res.Accepted = ok
		}
		g.stamp(&res)
		results = append(results, res)
	}
	return results, nil
}

// AddConnection links a random non-output node to a random non-sensor node
// that is not already one of its ancestors. It returns false without changing
// anything when the genotype has no hidden node yet, when no target is left,
// or when a connection gene for the drawn pair already exists (enabled or not).
//
// The ancestor exclusion keeps the graph acyclic by construction. When
// invariant checks are on, the result is re-validated anyway; a cycle there is
// rolled back and reported as ErrInvariantViolation.
func (g *Genotype) AddConnection() (bool, error) {
	// Without a hidden node every sensor already feeds every output.
	if !g.HasHidden() {
		return false, nil
	}

	var sources []uint64
	for _, n := range g.nodes {
		if n.Type != OutputNode {
			sources = append(sources, n.ID)
		}
	}
	in := sources[g.rng.Intn(len(sources))]

	ancestors := g.net.Ancestors(in)
	var targets []uint64
	for _, n := range g.nodes {
		if n.Type != SensorNode && !ancestors.Has(n.ID) {
			targets = append(targets, n.ID)
		}
	}
	if len(targets) == 0 {
		g.logger.Debug("add connection rejected", "genotype", g.ID, "source", in, "reason", "no target")
		return false, nil
	}
	out := targets[g.rng.Intn(len(targets))]

	if g.net.Exist(in, out) {
		g.logger.Debug("add connection rejected", "genotype", g.ID, "source", in, "target", out, "reason", "active edge")
		return false, nil
	}
	if _, exists := g.pairs[ConnectionKey{Source: in, Target: out}]; exists {
		g.logger.Debug("add connection rejected", "genotype", g.ID, "source", in, "target", out, "reason", "gene exists")
		return false, nil
	}

	g.appendConnection(ConnectionGene{
		Source:  in,
		Target:  out,
		Weight:  1.0,
		Enabled: true,
		Lineage: PlaceholderLineage,
	})
	if !g.net.Add(in, out, 1.0) {
		g.popConnection()
		return false, fmt.Errorf("add connection %d->%d: graph already has the edge: %w", in, out, ErrInvariantViolation)
	}

	if g.checkInvariants && g.net.HasCycle() {
		g.net.Erase(in, out)
		g.popConnection()
		return false, fmt.Errorf("add connection %d->%d introduced a cycle: %w", in, out, ErrInvariantViolation)
	}

	g.logger.Debug("connection added", "genotype", g.ID, "source", in, "target", out)
	return true, nil
}

// AddNode splits a random connection a->b of weight w: the connection is
// disabled, a new hidden node h is created, and a->h (weight 1.0) and h->b
// (weight w) are added. It returns false without changing anything when the
// drawn connection is already disabled or the node id space is exhausted. Splitting an edge of a DAG cannot
// create a cycle, so no re-validation is done.
func (g *Genotype) AddNode() (bool, error) {
	if len(g.connections) == 0 {
		return false, nil
	}
	idx := g.rng.Intn(len(g.connections))
	split := g.connections[idx]
	if !split.Enabled {
		g.logger.Debug("add node rejected", "genotype", g.ID, "source", split.Source, "target", split.Target, "reason", "disabled")
		return false, nil
	}

	h := g.nextNodeID
	if !graph.ValidID(h) {
		g.logger.Warn("add node rejected", "genotype", g.ID, "node", h, "reason", "node id limit")
		return false, nil
	}

	// Edit the graph first so a failure leaves the gene lists untouched.
	if !g.net.Erase(split.Source, split.Target) {
		return false, fmt.Errorf("add node: enabled connection %d->%d missing from graph: %w", split.Source, split.Target, ErrInvariantViolation)
	}
	if !g.net.Add(split.Source, h, 1.0) {
		g.net.Add(split.Source, split.Target, split.Weight)
		return false, fmt.Errorf("add node: edge %d->%d already present: %w", split.Source, h, ErrInvariantViolation)
	}
	if !g.net.Add(h, split.Target, split.Weight) {
		g.net.Erase(split.Source, h)
		g.net.Add(split.Source, split.Target, split.Weight)
		return false, fmt.Errorf("add node: edge %d->%d already present: %w", h, split.Target, ErrInvariantViolation)
	}

	g.connections[idx].Enabled = false
	g.appendNode(NodeGene{ID: h, Type: HiddenNode})
	g.appendConnection(ConnectionGene{
		Source:  split.Source,
		Target:  h,
		Weight:  1.0,
		Enabled: true,
		Lineage: PlaceholderLineage,
	})
	g.appendConnection(ConnectionGene{
		Source:  h,
		Target:  split.Target,
		Weight:  split.Weight,
		Enabled: true,
		Lineage: PlaceholderLineage,
	})

	g.logger.Debug("node added", "genotype", g.ID, "node", h, "source", split.Source, "target", split.Target)
	return true, nil
}

// ToggleConnection flips the enabled flag of a random connection and mirrors
// the flip into the graph. Disabling always succeeds. Re-enabling a->b is
// refused (false, no change) when b already reaches a, since the edge would
// close a cycle.
func (g *Genotype) ToggleConnection() (bool, error) {
	if len(g.connections) == 0 {
		return false, nil
	}
	idx := g.rng.Intn(len(g.connections))
	c := g.connections[idx]

	if c.Enabled {
		if !g.net.Erase(c.Source, c.Target) {
			return false, fmt.Errorf("toggle: enabled connection %d->%d missing from graph: %w", c.Source, c.Target, ErrInvariantViolation)
		}
		g.connections[idx].Enabled = false
		g.logger.Debug("connection disabled", "genotype", g.ID, "source", c.Source, "target", c.Target)
		return true, nil
	}

	if g.net.Reachable(c.Target, c.Source) {
		g.logger.Warn("re-enable refused: would close a cycle", "genotype", g.ID, "source", c.Source, "target", c.Target)
		return false, nil
	}
	if !g.net.Add(c.Source, c.Target, c.Weight) {
		return false, fmt.Errorf("toggle: disabled connection %d->%d present in graph: %w", c.Source, c.Target, ErrInvariantViolation)
	}
	g.connections[idx].Enabled = true
	g.logger.Debug("connection enabled", "genotype", g.ID, "source", c.Source, "target", c.Target)
	return true, nil
}
