// Package metrics keeps in-process session counters on a private prometheus
// registry. Nothing is exposed over the network; the statistics screen reads
// them back through Snapshot.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "inventory"

// Recorder collects session counters
type Recorder struct {
	registry         *prometheus.Registry
	actions          *prometheus.CounterVec
	actionErrors     *prometheus.CounterVec
	materialsCreated prometheus.Counter
	statusToggles    prometheus.Counter
	transfers        *prometheus.CounterVec
	transferredUnits *prometheus.CounterVec
	rejections       *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_actions_total",
			Help:      "Menu actions run in this session.",
		}, []string{"action"}),
		actionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_action_errors_total",
			Help:      "Menu actions that ended with an error.",
		}, []string{"action"}),
		materialsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "materials_created_total",
			Help:      "Materials created in this session.",
		}),
		statusToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "material_status_toggles_total",
			Help:      "Material status toggles.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Committed transfers by direction.",
		}, []string{"direction"}),
		transferredUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_units_total",
			Help:      "Units moved by committed transfers.",
		}, []string{"direction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_rejections_total",
			Help:      "Rejected transfer attempts by reason.",
		}, []string{"reason"}),
	}

	r.registry.MustRegister(
		r.actions,
		r.actionErrors,
		r.materialsCreated,
		r.statusToggles,
		r.transfers,
		r.transferredUnits,
		r.rejections,
	)
	return r
}

// ActionRun counts a menu action and, when failed, its error
func (r *Recorder) ActionRun(action string, failed bool) {
	r.actions.WithLabelValues(action).Inc()
	if failed {
		r.actionErrors.WithLabelValues(action).Inc()
	}
}

// MaterialCreated counts a created material
func (r *Recorder) MaterialCreated() {
	r.materialsCreated.Inc()
}

// StatusToggled counts a status toggle
func (r *Recorder) StatusToggled() {
	r.statusToggles.Inc()
}

// TransferCommitted counts a committed transfer and the units it moved
func (r *Recorder) TransferCommitted(direction string, amount int) {
	r.transfers.WithLabelValues(direction).Inc()
	r.transferredUnits.WithLabelValues(direction).Add(float64(amount))
}

// TransferRejected counts a rejected transfer attempt
func (r *Recorder) TransferRejected(reason string) {
	r.rejections.WithLabelValues(reason).Inc()
}

// Sample is one counter value
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers the registry into name{labels} samples sorted by name
func (r *Recorder) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			samples = append(samples, Sample{
				Name:  sampleName(mf.GetName(), m.GetLabel()),
				Value: m.GetCounter().GetValue(),
			})
		}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

// Value returns the value of a single sample, or 0 when it was never recorded
func (r *Recorder) Value(name string) float64 {
	samples, err := r.Snapshot()
	if err != nil {
		return 0
	}
	for _, s := range samples {
		if s.Name == name {
			return s.Value
		}
	}
	return 0
}

func sampleName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}
