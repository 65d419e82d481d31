package metrics

import (
	"time"

	"github.com/tarmac-project/mockfetch/hostcall"
	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnHistogram    = "histogram"
)

// HostConfig controls how a Host recorder interacts with the host runtime.
type HostConfig struct {
	// Namespace is the function namespace used for host calls. If empty,
	// hostcall.DefaultNamespace is used.
	Namespace string

	// Prefix starts every metric name. If empty, DefaultNamespace is used.
	Prefix string

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall hostcall.HostCall
}

// Host records observations through the Tarmac host metrics capability. The
// host counters carry no labels, so each outcome gets its own counter.
type Host struct {
	namespace string
	prefix    string
	hostCall  hostcall.HostCall
}

// NewHost creates a Host recorder with namespace defaults and optional
// host-call override.
func NewHost(cfg HostConfig) (*Host, error) {
	h := &Host{
		namespace: cfg.Namespace,
		prefix:    cfg.Prefix,
		hostCall:  cfg.HostCall,
	}

	if h.namespace == "" {
		h.namespace = hostcall.DefaultNamespace
	}
	if h.prefix == "" {
		h.prefix = DefaultNamespace
	}
	if !isMetricNameValid.MatchString(h.prefix) {
		return nil, ErrInvalidMetricName
	}
	if h.hostCall == nil {
		h.hostCall = wapc.HostCall
	}

	return h, nil
}

// CounterName returns the host counter used for outcome.
func (h *Host) CounterName(outcome Outcome) string {
	return h.prefix + "_requests_" + string(outcome) + "_total"
}

// HistogramName returns the host histogram used for latency.
func (h *Host) HistogramName() string {
	return h.prefix + "_response_seconds"
}

// Observe increments the outcome counter and records elapsed.
func (h *Host) Observe(outcome Outcome, elapsed time.Duration) {
	if h == nil {
		return
	}

	if payload, err := (&proto.MetricsCounter{Name: h.CounterName(outcome)}).MarshalVT(); err == nil {
		_, _ = h.hostCall(h.namespace, capabilityName, fnCounter, payload)
	}

	if payload, err := (&proto.MetricsHistogram{Name: h.HistogramName(), Value: elapsed.Seconds()}).MarshalVT(); err == nil {
		_, _ = h.hostCall(h.namespace, capabilityName, fnHistogram, payload)
	}
}
