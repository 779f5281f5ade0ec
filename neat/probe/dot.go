package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/baldhumanity/neat-go/neat"
)

var roleColor = map[neat.NodeType]string{
	neat.SensorNode: "green2",
	neat.HiddenNode: "grey",
	neat.OutputNode: "pink",
}

type dotNode struct {
	id   uint64
	role neat.NodeType
}

func (n dotNode) ID() int64 { return int64(n.id) }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("%d (%c)", n.id, n.role.Char())},
		{Key: "fillcolor", Value: roleColor[n.role]},
	}
}

type dotEdge struct {
	from, to dotNode
	weight   float64
	enabled  bool
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node   { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge {
	e.from, e.to = e.to, e.from
	return e
}

func (e dotEdge) Attributes() []encoding.Attribute {
	color := "red"
	if e.enabled {
		color = "blue"
	}
	return []encoding.Attribute{
		{Key: "label", Value: "Weight: " + strconv.FormatFloat(e.weight, 'g', -1, 64)},
		{Key: "color", Value: color},
	}
}

type attrs []encoding.Attribute

func (a attrs) Attributes() []encoding.Attribute { return a }

// dotGraph adds global DOT styling to a directed graph.
type dotGraph struct {
	*simple.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	g = attrs{{Key: "rankdir", Value: "LR"}}
	n = attrs{
		{Key: "shape", Value: "circle"},
		{Key: "style", Value: "filled"},
		{Key: "fontname", Value: "Helvetica"},
		{Key: "fontsize", Value: "12"},
	}
	e = attrs{
		{Key: "fontname", Value: "Helvetica"},
		{Key: "fontsize", Value: "10"},
	}
	return g, n, e
}

// MarshalDOT renders every node and connection gene of g, disabled ones
// included, as a DOT digraph.
func MarshalDOT(g *neat.Genotype) ([]byte, error) {
	dg := simple.NewDirectedGraph()
	nodes := make(map[uint64]dotNode)
	for _, n := range g.Nodes() {
		dn := dotNode{id: n.ID, role: n.Type}
		nodes[n.ID] = dn
		dg.AddNode(dn)
	}
	for _, c := range g.Connections() {
		dg.SetEdge(dotEdge{from: nodes[c.Source], to: nodes[c.Target], weight: c.Weight, enabled: c.Enabled})
	}

	b, err := dot.Marshal(dotGraph{dg}, "genotype", "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal genotype %s to dot: %w", g.ID, err)
	}
	return append(b, '\n'), nil
}

// RenderImage writes dir/<id>.dot and converts it to dir/<id>.png with the
// Graphviz dot command. It returns the PNG path.
func RenderImage(ctx context.Context, g *neat.Genotype, dir, dotCommand string) (string, error) {
	b, err := MarshalDOT(g)
	if err != nil {
		return "", err
	}
	dotPath := filepath.Join(dir, g.ID+".dot")
	if err := os.WriteFile(dotPath, b, 0o644); err != nil {
		return "", fmt.Errorf("cannot write dot file '%s': %w", dotPath, err)
	}

	if dotCommand == "" {
		dotCommand = "dot"
	}
	pngPath := filepath.Join(dir, g.ID+".png")
	cmd := exec.CommandContext(ctx, dotCommand, "-Tpng", "-o", pngPath, dotPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("cannot generate image from '%s': %w: %s", dotPath, err, out)
	}
	return pngPath, nil
}
