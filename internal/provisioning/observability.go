package provisioning

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Logger is the minimal printf-style logger used throughout the pipeline.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during
// provisioning. Secret values must never be passed to any Observer method.
type Observer interface {
	Logger

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type    EventType         // Type of event
	Phase   string            // Phase name (e.g., "readiness.directory")
	Message string            // Human-readable message
	Fields  map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a phase was skipped (precondition absent).
	EventPhaseSkipped EventType = "phase.skipped"

	// EventGateWaiting indicates a readiness gate is still waiting.
	EventGateWaiting EventType = "gate.waiting"
	// EventGateReady indicates a readiness gate probe succeeded.
	EventGateReady EventType = "gate.ready"
	// EventGateExhausted indicates a readiness gate ran out its budget.
	// Exhaustion is reported, not fatal; the run continues.
	EventGateExhausted EventType = "gate.exhausted"
)

// LogObserver writes timestamped events through a logr.Logger backed by
// the bootstrap log file.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer writing timestamped lines to w.
func NewLogObserver(w io.Writer) *LogObserver {
	std := log.New(w, "", log.LstdFlags)
	return &LogObserver{log: stdr.New(std)}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kvs := make([]interface{}, 0, 2*(len(event.Fields)+2))
	kvs = append(kvs, "event", string(event.Type))
	if event.Phase != "" {
		kvs = append(kvs, "phase", event.Phase)
	}
	for k, v := range event.Fields {
		kvs = append(kvs, k, v)
	}
	o.log.Info(event.Message, kvs...)
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "starting"})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogGateExhausted logs a readiness gate that ran out its budget.
func LogGateExhausted(observer Observer, phase, gate string) {
	observer.Event(Event{
		Type:    EventGateExhausted,
		Phase:   phase,
		Message: "gave up waiting, continuing anyway",
		Fields:  map[string]string{"gate": gate},
	})
}
