package nn

import (
	"fmt"

	"github.com/baldhumanity/neat-go/neat"
)

// DataPkt carries node values keyed by node id, both for sensor inputs and
// for the output values returned by Activate.
type DataPkt map[uint64]float64

// incoming is one enabled connection feeding a node.
type incoming struct {
	source uint64
	weight float64
}

// neuralNode represents a non-sensor node during activation.
type neuralNode struct {
	id     uint64
	inputs []incoming
}

// FeedForwardNetwork is the runnable phenotype of a genotype. It captures the
// enabled connections at creation time; later mutations of the genotype are
// not reflected.
type FeedForwardNetwork struct {
	SensorIDs []uint64
	OutputIDs []uint64
	EvalOrder []uint64 // non-sensor nodes in topological order

	nodes         map[uint64]neuralNode
	activationFn  neat.ActivationType
	aggregationFn neat.AggregationType
}

// CreateFeedForwardNetwork builds a runnable network from g. The evaluation
// order comes from the genotype's topological order, so every node is
// computed after all of its enabled inputs.
func CreateFeedForwardNetwork(g *neat.Genotype, activation, aggregation string) (*FeedForwardNetwork, error) {
	actFn, err := neat.GetActivation(activation)
	if err != nil {
		return nil, fmt.Errorf("failed to get activation function '%s': %w", activation, err)
	}
	aggFn, err := neat.GetAggregation(aggregation)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregation function '%s': %w", aggregation, err)
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("failed topological sort: %w", err)
	}

	nodes := make(map[uint64]neuralNode)
	for _, c := range g.Connections() {
		if !c.Enabled {
			continue
		}
		n := nodes[c.Target]
		n.id = c.Target
		n.inputs = append(n.inputs, incoming{source: c.Source, weight: c.Weight})
		nodes[c.Target] = n
	}

	net := &FeedForwardNetwork{
		SensorIDs:     g.SensorIDs(),
		OutputIDs:     g.OutputIDs(),
		nodes:         nodes,
		activationFn:  actFn,
		aggregationFn: aggFn,
	}
	for _, id := range order {
		if t, _ := g.NodeType(id); t != neat.SensorNode {
			net.EvalOrder = append(net.EvalOrder, id)
		}
	}
	return net, nil
}

// Activate computes the output node values for one set of sensor values.
// Every sensor must have a value; extra keys are ignored. A node without
// enabled inputs aggregates an empty slice.
func (net *FeedForwardNetwork) Activate(inputs DataPkt) (DataPkt, error) {
	values := make(map[uint64]float64, len(net.SensorIDs)+len(net.EvalOrder))
	for _, id := range net.SensorIDs {
		v, ok := inputs[id]
		if !ok {
			return nil, fmt.Errorf("missing input for sensor node %d", id)
		}
		values[id] = v
	}

	// Reused across nodes to avoid an allocation per node.
	var buf []float64
	for _, id := range net.EvalOrder {
		node := net.nodes[id]
		buf = buf[:0]
		for _, in := range node.inputs {
			buf = append(buf, values[in.source]*in.weight)
		}
		values[id] = net.activationFn(net.aggregationFn(buf))
	}

	outputs := make(DataPkt, len(net.OutputIDs))
	for _, id := range net.OutputIDs {
		outputs[id] = values[id]
	}
	return outputs, nil
}
