package provisioning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics collects bootstrap outcome metrics for the node_exporter
// textfile collector. Collection is best effort and never fails the run.
type Metrics struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.GaugeVec
	phaseResult   *prometheus.GaugeVec
	gateAttempts  *prometheus.CounterVec
	gateExhausted *prometheus.CounterVec
	success       prometheus.Gauge
}

// NewMetrics creates an empty metrics registry for one run.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gatewayboot_phase_duration_seconds",
			Help: "Wall-clock duration of each provisioning phase.",
		}, []string{"phase"}),
		phaseResult: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gatewayboot_phase_success",
			Help: "1 if the phase completed without error, 0 otherwise.",
		}, []string{"phase"}),
		gateAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatewayboot_gate_attempts_total",
			Help: "Probe attempts per readiness gate.",
		}, []string{"gate"}),
		gateExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatewayboot_gate_exhausted_total",
			Help: "Readiness gates that ran out their budget.",
		}, []string{"gate"}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gatewayboot_success",
			Help: "1 if the bootstrap run completed successfully.",
		}),
	}
	m.registry.MustRegister(m.phaseDuration, m.phaseResult, m.gateAttempts, m.gateExhausted, m.success)
	return m
}

// ObservePhase records the duration and outcome of one phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	m.phaseDuration.WithLabelValues(phase).Set(d.Seconds())
	ok := 0.0
	if err == nil || errors.Is(err, ErrSkipRemaining) {
		ok = 1.0
	}
	m.phaseResult.WithLabelValues(phase).Set(ok)
}

// GateAttempt counts one probe attempt for a named gate.
func (m *Metrics) GateAttempt(gate string) {
	m.gateAttempts.WithLabelValues(gate).Inc()
}

// GateExhausted counts a gate that gave up waiting.
func (m *Metrics) GateExhausted(gate string) {
	m.gateExhausted.WithLabelValues(gate).Inc()
}

// SetSuccess records the overall run outcome.
func (m *Metrics) SetSuccess(ok bool) {
	if ok {
		m.success.Set(1)
	} else {
		m.success.Set(0)
	}
}

// WriteTextfile renders the registry in the node_exporter textfile format,
// writing via a temp file and rename so the collector never reads a
// partial file. An empty path disables the write.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".gatewayboot-metrics-*")
	if err != nil {
		return fmt.Errorf("failed to create metrics temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	enc := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metrics temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to publish metrics textfile: %w", err)
	}
	return nil
}
