// Package trace records mutation steps as CSV rows.
package trace

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/baldhumanity/neat-go/neat"
)

// Record is one mutation operator outcome together with the genotype size
// right after that operator ran, before any later operator of the same step.
type Record struct {
	Step               int    `csv:"step"`
	Genotype           string `csv:"genotype"`
	Operator           string `csv:"operator"`
	Accepted           bool   `csv:"accepted"`
	Attempts           int    `csv:"attempts"`
	Nodes              int    `csv:"nodes"`
	Connections        int    `csv:"connections"`
	EnabledConnections int    `csv:"enabled_connections"`
	Components         int    `csv:"components"`
}

// NewRecord describes res applied to g at the given step. Sizes come from res.
func NewRecord(step int, g *neat.Genotype, res neat.MutationResult) Record {
	return Record{
		Step:               step,
		Genotype:           g.ID,
		Operator:           string(res.Operator),
		Accepted:           res.Accepted,
		Attempts:           res.Attempts,
		Nodes:              res.Nodes,
		Connections:        res.Connections,
		EnabledConnections: res.EnabledConnections,
		Components:         res.Components,
	}
}

// Writer appends records to a CSV stream, writing the header before the
// first row only. A nil *Writer discards everything.
type Writer struct {
	out           io.Writer
	headerWritten bool
	rows          int
}

// NewWriter returns a Writer on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write appends records.
func (w *Writer) Write(records ...Record) error {
	if w == nil || len(records) == 0 {
		return nil
	}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	w.rows += len(records)
	return nil
}

// Rows returns how many records were written.
func (w *Writer) Rows() int {
	if w == nil {
		return 0
	}
	return w.rows
}

// Read parses a trace written by Writer.
func Read(in io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return records, nil
}
