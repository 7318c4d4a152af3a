// Package metrics exposes Prometheus counters for network generation and
// persistence. A Registry plugs into the generator as its Observer and
// into the session as its Recorder.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"hackterm/internal/domain"
)

// Registry holds all metrics for the application
type Registry struct {
	// Generator Metrics
	GeneratorNodesTotal       *prometheus.CounterVec
	GeneratorTruncationsTotal *prometheus.CounterVec
	GeneratorMeshLinksTotal   prometheus.Counter

	// Network Metrics
	NetworkServers prometheus.Gauge

	// Persistence Metrics
	PersistenceOperationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initGeneratorMetrics()
	r.initPersistenceMetrics()

	return r
}

func (r *Registry) initGeneratorMetrics() {
	r.GeneratorNodesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackterm_generator_nodes_total",
			Help: "Servers created by the topology generator",
		},
		[]string{"type"},
	)

	r.GeneratorTruncationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackterm_generator_truncations_total",
			Help: "Branches cut short because the network or a parent ran out of room",
		},
		[]string{"tier"},
	)

	r.GeneratorMeshLinksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "hackterm_generator_mesh_links_total",
			Help: "Extra router links added by the mesh pass",
		},
	)

	r.NetworkServers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "hackterm_network_servers",
			Help: "Servers in the current network",
		},
	)
}

func (r *Registry) initPersistenceMetrics() {
	r.PersistenceOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackterm_persistence_operations_total",
			Help: "Save, load, snapshot and restore operations",
		},
		[]string{"operation", "status"},
	)
}

// Prometheus returns the underlying registry
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// NodeCreated implements generator.Observer
func (r *Registry) NodeCreated(t domain.ServerType) {
	r.GeneratorNodesTotal.WithLabelValues(t.String()).Inc()
}

// BranchTruncated implements generator.Observer
func (r *Registry) BranchTruncated(tier domain.ServerType) {
	r.GeneratorTruncationsTotal.WithLabelValues(tier.String()).Inc()
}

// MeshLinked implements generator.Observer
func (r *Registry) MeshLinked() {
	r.GeneratorMeshLinksTotal.Inc()
}

// PersistenceOp records a persistence operation with its outcome code
func (r *Registry) PersistenceOp(operation string, err error) {
	status := "success"
	if err != nil {
		status = strings.ToLower(string(domain.CodeOf(err)))
	}
	r.PersistenceOperationsTotal.WithLabelValues(operation, status).Inc()
}

// NetworkSize sets the server gauge
func (r *Registry) NetworkSize(servers int) {
	r.NetworkServers.Set(float64(servers))
}

// WriteSummary prints every non-zero sample as "name{labels} value"
func (r *Registry) WriteSummary(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := sampleValue(mf.GetType(), m)
			if v == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func sampleValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
