// Package probe prints, snapshots and draws genotypes for inspection.
package probe

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neat-go/neat"
)

// PrintNodes writes the node section of the model format: the node count,
// the ids, then the role characters.
func PrintNodes(w io.Writer, g *neat.Genotype) error {
	bw := bufio.NewWriter(w)
	nodes := g.Nodes()
	fmt.Fprintf(bw, "%d\n", len(nodes))
	for _, n := range nodes {
		fmt.Fprintf(bw, "%d ", n.ID)
	}
	bw.WriteByte('\n')
	for _, n := range nodes {
		bw.WriteByte(n.Type.Char())
		bw.WriteByte(' ')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// PrintConnections writes the connection section of the model format.
func PrintConnections(w io.Writer, g *neat.Genotype) error {
	bw := bufio.NewWriter(w)
	conns := g.Connections()
	fmt.Fprintf(bw, "%d\n", len(conns))
	for _, c := range conns {
		bw.WriteString(c.Record())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Snapshot is a read-only view of a genotype for reporting.
type Snapshot struct {
	ID          string               `yaml:"id"`
	Fitness     float64              `yaml:"fitness"`
	Nodes       []SnapshotNode       `yaml:"nodes"`
	Connections []SnapshotConnection `yaml:"connections"`
	Summary     SnapshotSummary      `yaml:"summary"`
}

// SnapshotNode is one node gene; Role is sensor, hidden or output.
type SnapshotNode struct {
	ID   uint64 `yaml:"id"`
	Role string `yaml:"role"`
}

// SnapshotConnection is one connection gene.
type SnapshotConnection struct {
	Source  uint64  `yaml:"source"`
	Target  uint64  `yaml:"target"`
	Weight  float64 `yaml:"weight"`
	Enabled bool    `yaml:"enabled"`
	Lineage uint64  `yaml:"lineage"`
}

// SnapshotSummary holds values derived from the topology graph.
type SnapshotSummary struct {
	EnabledConnections int      `yaml:"enabled_connections"`
	Components         int      `yaml:"components"`
	Order              []uint64 `yaml:"order,flow"`
}

// NewSnapshot captures g.
func NewSnapshot(g *neat.Genotype) (*Snapshot, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	s := &Snapshot{
		ID:      g.ID,
		Fitness: g.Fitness,
		Summary: SnapshotSummary{
			EnabledConnections: g.EnabledCount(),
			Components:         g.Components(),
			Order:              order,
		},
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, SnapshotNode{ID: n.ID, Role: n.Type.String()})
	}
	for _, c := range g.Connections() {
		s.Connections = append(s.Connections, SnapshotConnection{
			Source:  c.Source,
			Target:  c.Target,
			Weight:  c.Weight,
			Enabled: c.Enabled,
			Lineage: c.Lineage,
		})
	}
	return s, nil
}

// WriteSnapshot writes the snapshot of g as YAML.
func WriteSnapshot(w io.Writer, g *neat.Genotype) error {
	s, err := NewSnapshot(g)
	if err != nil {
		return fmt.Errorf("snapshot genotype %s: %w", g.ID, err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}
