package neat

import (
	"fmt"
	"strconv"
)

// NodeType is the role a node plays in the network.
type NodeType int

const (
	HiddenNode NodeType = iota
	SensorNode
	OutputNode
)

// PlaceholderLineage is written into every new connection gene until
// innovation numbers are tracked.
const PlaceholderLineage uint64 = 1

// --------------------------- NodeType ---------------------------

// Char returns the single-character form used by the model format.
func (t NodeType) Char() byte {
	switch t {
	case HiddenNode:
		return 'H'
	case OutputNode:
		return 'O'
	default:
		return 'S'
	}
}

// String returns a readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case HiddenNode:
		return "hidden"
	case SensorNode:
		return "sensor"
	case OutputNode:
		return "output"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// ParseNodeType converts a model-format role character back to a NodeType.
func ParseNodeType(c byte) (NodeType, error) {
	switch c {
	case 'S':
		return SensorNode, nil
	case 'H':
		return HiddenNode, nil
	case 'O':
		return OutputNode, nil
	}
	return 0, fmt.Errorf("unknown node type %q", c)
}

// --------------------------- NodeGene ---------------------------

// NodeGene represents a node (neuron) of the genotype.
type NodeGene struct {
	ID   uint64 // 1-based, unique within a genotype
	Type NodeType
}

// String returns a string representation of the NodeGene.
func (ng NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %d, Type: %s)", ng.ID, ng.Type)
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionKey identifies a connection gene by its endpoints. At most one
// connection gene exists per key, enabled or not.
type ConnectionKey struct {
	Source uint64
	Target uint64
}

// ConnectionGene represents a directed, weighted link between two nodes.
type ConnectionGene struct {
	Source  uint64
	Target  uint64
	Weight  float64
	Enabled bool
	Lineage uint64 // historical origin marker, carried but not computed
}

// Key returns the endpoint pair of the connection.
func (cg ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{Source: cg.Source, Target: cg.Target}
}

// String returns a string representation of the ConnectionGene.
func (cg ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(Key: %d->%d, Weight: %.3f, Enabled: %t, Lineage: %d)",
		cg.Source, cg.Target, cg.Weight, cg.Enabled, cg.Lineage)
}

// Record renders the connection the way the model format stores it:
// "<source> <target> <weight> <E|D> <lineage>". The weight uses the shortest
// decimal form that parses back to the same float64.
func (cg ConnectionGene) Record() string {
	flag := "D"
	if cg.Enabled {
		flag = "E"
	}
	return fmt.Sprintf("%d %d %s %s %d",
		cg.Source, cg.Target, strconv.FormatFloat(cg.Weight, 'g', -1, 64), flag, cg.Lineage)
}
