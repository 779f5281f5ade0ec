package neat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ModelExt is the file extension of the text model format.
const ModelExt = ".model"

// ErrMalformedModel is returned when a model file cannot be parsed into a
// consistent genotype.
var ErrMalformedModel = errors.New("malformed model")

// ModelPath returns dir/stem.model.
func ModelPath(dir, stem string) string {
	return filepath.Join(dir, stem+ModelExt)
}

// WriteModel writes g in the text model format:
//
//	<node_count>
//	<id_1> <id_2> ... <id_N>
//	<role_1> <role_2> ... <role_N>
//	<connection_count>
//	<source> <target> <weight> <E|D> <lineage>
//	...
//
// Roles are S, H or O. Weights use the shortest exact decimal form.
func WriteModel(w io.Writer, g *Genotype) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", len(g.nodes))
	for _, n := range g.nodes {
		fmt.Fprintf(bw, "%d ", n.ID)
	}
	bw.WriteByte('\n')
	for _, n := range g.nodes {
		bw.WriteByte(n.Type.Char())
		bw.WriteByte(' ')
	}
	bw.WriteByte('\n')

	fmt.Fprintf(bw, "%d\n", len(g.connections))
	for _, c := range g.connections {
		bw.WriteString(c.Record())
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write model for genotype %s: %w", g.ID, err)
	}
	return nil
}

// ReadModel parses the text model format and rebuilds the genotype, including
// its topology graph. Any inconsistency yields ErrMalformedModel.
func ReadModel(r io.Reader, opts ...Option) (*Genotype, error) {
	tr := newTokenReader(r)

	nodeCount, err := tr.count("node count")
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeGene, nodeCount)
	for i := range nodes {
		id, err := tr.unsigned("node id")
		if err != nil {
			return nil, err
		}
		nodes[i].ID = id
	}
	for i := range nodes {
		tok, err := tr.next("node type")
		if err != nil {
			return nil, err
		}
		if len(tok) != 1 {
			return nil, fmt.Errorf("%w: node type %q", ErrMalformedModel, tok)
		}
		t, err := ParseNodeType(tok[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
		}
		nodes[i].Type = t
	}

	connCount, err := tr.count("connection count")
	if err != nil {
		return nil, err
	}
	conns := make([]ConnectionGene, connCount)
	for i := range conns {
		c := &conns[i]
		if c.Source, err = tr.unsigned("connection source"); err != nil {
			return nil, err
		}
		if c.Target, err = tr.unsigned("connection target"); err != nil {
			return nil, err
		}
		tok, err := tr.next("connection weight")
		if err != nil {
			return nil, err
		}
		if c.Weight, err = strconv.ParseFloat(tok, 64); err != nil {
			return nil, fmt.Errorf("%w: connection weight %q", ErrMalformedModel, tok)
		}
		if tok, err = tr.next("connection flag"); err != nil {
			return nil, err
		}
		switch tok {
		case "E":
			c.Enabled = true
		case "D":
			c.Enabled = false
		default:
			return nil, fmt.Errorf("%w: connection flag %q", ErrMalformedModel, tok)
		}
		if c.Lineage, err = tr.unsigned("connection lineage"); err != nil {
			return nil, err
		}
	}

	if tok, err := tr.next("end of model"); err == nil {
		return nil, fmt.Errorf("%w: unexpected trailing data %q", ErrMalformedModel, tok)
	} else if !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	g, err := FromGenes(nodes, conns, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
	}
	return g, nil
}

// DumpModel writes g to path, creating or truncating the file.
func DumpModel(g *Genotype, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot open target model file '%s': %w", path, err)
	}
	if err := WriteModel(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close model file '%s': %w", path, err)
	}
	return nil
}

// LoadModel reads a genotype from a model file. Missing or empty files are
// rejected before parsing.
func LoadModel(path string, opts ...Option) (*Genotype, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open source model file '%s': %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: model file '%s' is empty", ErrMalformedModel, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open source model file '%s': %w", path, err)
	}
	defer f.Close()

	g, err := ReadModel(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load '%s': %w", path, err)
	}
	return g, nil
}

// tokenReader splits a model stream into whitespace-separated tokens.
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

// next returns io.ErrUnexpectedEOF (wrapped in ErrMalformedModel) when the
// stream ends before the expected token.
func (tr *tokenReader) next(what string) (string, error) {
	if tr.sc.Scan() {
		return tr.sc.Text(), nil
	}
	if err := tr.sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", what, err)
	}
	return "", fmt.Errorf("%w: missing %s: %w", ErrMalformedModel, what, io.ErrUnexpectedEOF)
}

func (tr *tokenReader) unsigned(what string) (uint64, error) {
	tok, err := tr.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedModel, what, tok)
	}
	return v, nil
}

// count parses a section size and caps it so a corrupt header cannot force a
// huge allocation before the data runs out.
func (tr *tokenReader) count(what string) (int, error) {
	v, err := tr.unsigned(what)
	if err != nil {
		return 0, err
	}
	const maxCount = 1 << 24
	if v > maxCount {
		return 0, fmt.Errorf("%w: %s %d too large", ErrMalformedModel, what, v)
	}
	return int(v), nil
}
