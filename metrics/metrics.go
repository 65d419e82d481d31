package metrics

import (
	"errors"
	"regexp"
	"time"
)

// Outcome classifies how an intercepted call was answered.
type Outcome string

const (
	// Matched means a registered handler produced the response.
	Matched Outcome = "matched"
	// PassThrough means the call was forwarded to the original transport.
	PassThrough Outcome = "passthrough"
	// NotFound means a synthesised 404 was returned.
	NotFound Outcome = "not_found"
	// Unmocked means the call failed because nothing matched.
	Unmocked Outcome = "unmocked"
	// Failed means a handler or response construction failed.
	Failed Outcome = "error"
)

// Outcomes lists every Outcome.
var Outcomes = []Outcome{Matched, PassThrough, NotFound, Unmocked, Failed}

// DefaultNamespace prefixes metric names when none is configured.
const DefaultNamespace = "mockfetch"

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	// isMetricNameValid validates metric names using the same pattern as tarmac callback validation.
	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// Recorder receives one observation per intercepted call.
type Recorder interface {
	Observe(outcome Outcome, elapsed time.Duration)
}

// Nop is a Recorder that discards observations.
type Nop struct{}

// Observe does nothing.
func (Nop) Observe(Outcome, time.Duration) {}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Collector)(nil)
	_ Recorder = (*Host)(nil)
)
