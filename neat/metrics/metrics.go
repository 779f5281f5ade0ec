// Package metrics exposes mutation outcomes and genotype size as Prometheus
// metrics.
//
// A Recorder registers on any prometheus.Registerer, so tests and the CLI
// use private registries and never touch the global default.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/baldhumanity/neat-go/neat"
)

const namespace = "neat"

// Outcome label values.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Recorder holds the mutation metrics.
type Recorder struct {
	// MutationsTotal counts operator invocations. Labels: operator, outcome.
	MutationsTotal *prometheus.CounterVec
	// GenotypeNodes is the node count of the last observed genotype.
	GenotypeNodes prometheus.Gauge
	// GenotypeConnections is the connection gene count, labelled by state
	// (enabled, disabled).
	GenotypeConnections *prometheus.GaugeVec
}

// NewRecorder creates the metrics and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Structural mutation attempts by operator and outcome",
		}, []string{"operator", "outcome"}),
		GenotypeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "genotype_nodes",
			Help:      "Number of node genes in the genotype",
		}),
		GenotypeConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "genotype_connections",
			Help:      "Number of connection genes in the genotype by state",
		}, []string{"state"}),
	}
}

// Observe counts one operator result.
func (r *Recorder) Observe(res neat.MutationResult) {
	outcome := OutcomeRejected
	if res.Accepted {
		outcome = OutcomeAccepted
	}
	r.MutationsTotal.WithLabelValues(string(res.Operator), outcome).Inc()
}

// SetSize records the size of g.
func (r *Recorder) SetSize(g *neat.Genotype) {
	enabled := g.EnabledCount()
	r.GenotypeNodes.Set(float64(g.NodeCount()))
	r.GenotypeConnections.WithLabelValues("enabled").Set(float64(enabled))
	r.GenotypeConnections.WithLabelValues("disabled").Set(float64(g.ConnectionCount() - enabled))
}

// WriteText dumps every metric family of gatherer in the Prometheus text
// exposition format.
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
