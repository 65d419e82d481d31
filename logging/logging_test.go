package logging

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default logger", func(t *testing.T) {
		t.Parallel()

		c, err := New(Config{})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, ok := c.(*client); !ok {
			t.Fatalf("expected *client implementation, got %T", c)
		}
	})

	t.Run("custom logger", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zapcore.DebugLevel)
		c, err := New(Config{Logger: zap.New(core)})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		c.Info("hello")

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("want 1 entry, got %d", len(entries))
		}
		if entries[0].LoggerName != "mockfetch" {
			t.Fatalf("unexpected logger name %q", entries[0].LoggerName)
		}
	})
}

func TestClientLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(Config{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tt := []struct {
		name  string
		call  func(Client)
		level zapcore.Level
	}{
		{"Info", func(c Client) { c.Info("msg") }, zapcore.InfoLevel},
		{"Warn", func(c Client) { c.Warn("msg") }, zapcore.WarnLevel},
		{"Error", func(c Client) { c.Error("msg") }, zapcore.ErrorLevel},
		{"Debug", func(c Client) { c.Debug("msg") }, zapcore.DebugLevel},
		{"Trace", func(c Client) { c.Trace("msg") }, zapcore.DebugLevel},
	}

	for _, tc := range tt {
		tc.call(c)
		got := logs.TakeAll()
		if len(got) != 1 {
			t.Fatalf("%s: want 1 entry, got %d", tc.name, len(got))
		}
		if got[0].Level != tc.level || got[0].Message != "msg" {
			t.Fatalf("%s: unexpected entry %v %q", tc.name, got[0].Level, got[0].Message)
		}
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	// Must not panic.
	Nop().Error("discarded")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tt := []struct {
		in   time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{time.Second, "1.00s"},
		{1250 * time.Microsecond, "1.25ms"},
		{time.Millisecond, "1.00ms"},
		{999 * time.Microsecond, "999.00µs"},
		{1500 * time.Nanosecond, "1.50µs"},
		{0, "0.00µs"},
	}

	for _, tc := range tt {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%s): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestEntryFormat(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name: "json round trip",
			entry: Entry{
				Method:         "POST",
				URL:            "http://h/x",
				Duration:       1250 * time.Microsecond,
				RequestHeader:  http.Header{"Content-Type": {"application/json"}},
				RequestBody:    []byte(`{ "a": 1 }`),
				Status:         200,
				ResponseHeader: http.Header{"Content-Type": {"application/json"}},
				ResponseBody:   []byte(`{"a":1}`),
			},
			want: "POST http://h/x (1.25ms)\n" +
				"  request headers: {\"Content-Type\":\"application/json\"}\n" +
				"  request body: {\"a\":1}\n" +
				"  response status: 200\n" +
				"  response headers: {\"Content-Type\":\"application/json\"}\n" +
				"  response body: {\"a\":1}",
		},
		{
			name: "text body and joined headers",
			entry: Entry{
				Method:         "GET",
				URL:            "http://h/t",
				Duration:       2 * time.Second,
				RequestHeader:  http.Header{"Accept": {"text/plain", "*/*"}},
				Status:         201,
				ResponseHeader: http.Header{},
				ResponseBody:   []byte("created"),
			},
			want: "GET http://h/t (2.00s)\n" +
				"  request headers: {\"Accept\":\"text/plain, */*\"}\n" +
				"  response status: 201\n" +
				"  response headers: {}\n" +
				"  response body: created",
		},
		{
			name: "failure",
			entry: Entry{
				Method: "GET",
				URL:    "http://h/missing",
				Err:    errors.New("no mock for GET http://h/missing"),
			},
			want: "GET http://h/missing (0.00µs)\n" +
				"  request headers: {}\n" +
				"  error: no mock for GET http://h/missing",
		},
		{
			name: "invalid json shown as text",
			entry: Entry{
				Method:         "GET",
				URL:            "http://h/bad",
				Status:         200,
				ResponseHeader: http.Header{"Content-Type": {"application/json"}},
				ResponseBody:   []byte("{oops"),
			},
			want: "GET http://h/bad (0.00µs)\n" +
				"  request headers: {}\n" +
				"  response status: 200\n" +
				"  response headers: {\"Content-Type\":\"application/json\"}\n" +
				"  response body: {oops",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.entry.Format()); diff != "" {
				t.Fatalf("unexpected block (-want +got):\n%s", diff)
			}
		})
	}
}
