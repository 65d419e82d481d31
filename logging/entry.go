package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Entry describes one intercepted call.
type Entry struct {
	Method   string
	URL      string
	Duration time.Duration

	RequestHeader http.Header
	RequestBody   []byte

	// Status is zero when no response was produced.
	Status         int
	ResponseHeader http.Header

	// ResponseBody is nil when the body was not available, such as for
	// streams.
	ResponseBody []byte

	Err error
}

// Format renders e as a block of lines indented by two spaces under a
// "METHOD URL (duration)" header.
func (e Entry) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)", e.Method, e.URL, FormatDuration(e.Duration))

	line := func(label, value string) {
		fmt.Fprintf(&b, "\n  %s: %s", label, value)
	}

	line("request headers", headerObject(e.RequestHeader))
	if len(e.RequestBody) > 0 {
		line("request body", body(e.RequestBody, e.RequestHeader))
	}

	if e.Status != 0 {
		line("response status", fmt.Sprintf("%d", e.Status))
		line("response headers", headerObject(e.ResponseHeader))
		if len(e.ResponseBody) > 0 {
			line("response body", body(e.ResponseBody, e.ResponseHeader))
		}
	}

	if e.Err != nil {
		line("error", e.Err.Error())
	}
	return b.String()
}

// FormatDuration renders d in the coarsest of seconds, milliseconds and
// microseconds that keeps the value at least one, with two decimals.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	}
}

// headerObject renders h as a JSON object with one comma-joined value per
// name.
func headerObject(h http.Header) string {
	obj := make(map[string]string, len(h))
	for k, v := range h {
		obj[k] = strings.Join(v, ", ")
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// body renders JSON payloads compactly and anything else as text.
func body(data []byte, h http.Header) string {
	if strings.Contains(strings.ToLower(h.Get("Content-Type")), "json") {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err == nil {
			return buf.String()
		}
	}
	return string(data)
}
