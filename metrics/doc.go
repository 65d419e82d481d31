/*
Package metrics records counters and latency for intercepted HTTP calls.

Two Recorder implementations are provided. Collector exports Prometheus
metrics through a prometheus.Registerer:

	mockfetch_requests_total{outcome="matched"}
	mockfetch_response_seconds

Host sends the same observations to the Tarmac host metrics capability over
waPC, for code running as a Tarmac function.

Recording is best-effort: Observe never returns an error and marshal or
host-call failures are swallowed so they cannot change the outcome of the
call being measured. A nil *Collector or *Host is a valid no-op Recorder.
*/
package metrics
