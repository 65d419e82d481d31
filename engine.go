package mockfetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tarmac-project/mockfetch/config"
	"github.com/tarmac-project/mockfetch/logging"
	"github.com/tarmac-project/mockfetch/metrics"
	"github.com/tarmac-project/mockfetch/registry"
	"github.com/tarmac-project/mockfetch/response"
)

// transport is the substitute placed in the binding.
type transport struct {
	ctx *Context
}

// Ensure transport always satisfies http.RoundTripper at compile time.
var _ http.RoundTripper = (*transport)(nil)

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.ctx.roundTrip(req)
}

// exchange carries the state of one intercepted call.
type exchange struct {
	start   time.Time
	cfg     config.Configuration
	req     *http.Request
	method  string
	rawURL  string
	reqBody []byte
}

func (c *Context) roundTrip(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return nil, fmt.Errorf("%w: request has no URL", ErrUnsupportedTarget)
	}

	x := &exchange{
		start: time.Now(),
		cfg:   c.config.Get(),
	}

	// Work on a copy so the caller's request is left as it was sent
	x.req = req.Clone(req.Context())
	x.method = registry.NormalizeMethod(req.Method)
	x.rawURL = req.URL.String()

	body, err := bufferBody(x.req)
	if err != nil {
		return nil, err
	}
	x.reqBody = body

	h, res := c.registry.FindFirstMatch(x.rawURL, x.method)
	c.record(Call{
		Method:  x.method,
		URL:     x.rawURL,
		Header:  x.req.Header.Clone(),
		Body:    body,
		Matched: h != nil,
	})

	if h == nil {
		return c.unmatched(x)
	}
	if x.cfg.Logging {
		c.log.Trace(fmt.Sprintf("%s %s matched handler %s %v", x.method, x.rawURL, h.Method, h.URL))
	}

	delay := x.cfg.ResponseDelay
	if h.Delay != nil {
		delay = *h.Delay
	}
	if err := wait(x.req.Context(), delay); err != nil {
		return c.finish(x, metrics.Failed, nil, err)
	}

	m := &response.Match{Result: res, URL: x.req.URL, Query: x.req.URL.Query()}
	out, err := response.Resolve(h.Response, x.req, m)
	if err != nil {
		return c.finish(x, metrics.Failed, nil, err)
	}

	var resp *http.Response
	switch o := out.(type) {
	case response.Full:
		// Complete responses are returned untouched
		resp = o.Response
	case response.Simple:
		resp, err = response.Build(x.req, o)
		if err != nil {
			return c.finish(x, metrics.Failed, nil, err)
		}
	default:
		return c.finish(x, metrics.Failed, nil, fmt.Errorf("%w: %T", response.ErrNoOutcome, out))
	}

	return c.finish(x, metrics.Matched, resp, nil)
}

// unmatched applies the HandleUnmockedRequests policy.
func (c *Context) unmatched(x *exchange) (*http.Response, error) {
	switch x.cfg.HandleUnmockedRequests {
	case config.PassThrough:
		if c.original == nil || c.original == http.RoundTripper(c.transport) {
			return c.finish(x, metrics.Failed, nil, ErrNoOriginal)
		}
		if x.cfg.Logging {
			c.log.Debug(fmt.Sprintf("passing %s %s through to the original transport", x.method, x.rawURL))
		}
		resp, err := c.original.RoundTrip(x.req)
		return c.finish(x, metrics.PassThrough, resp, err)

	case config.Return404:
		resp, err := response.Build(x.req, response.Simple{Status: http.StatusNotFound})
		if err != nil {
			return c.finish(x, metrics.Failed, nil, err)
		}
		return c.finish(x, metrics.NotFound, resp, nil)

	default:
		err := fmt.Errorf("%w: %s %s", ErrUnmockedRequest, x.method, x.rawURL)
		return c.finish(x, metrics.Unmocked, nil, err)
	}
}

// finish records metrics and writes the log entry. Errors are returned
// unchanged.
func (c *Context) finish(x *exchange, outcome metrics.Outcome, resp *http.Response, err error) (*http.Response, error) {
	elapsed := time.Since(x.start)
	if err != nil {
		outcome = failure(outcome)
	}
	c.metrics.Observe(outcome, elapsed)

	if x.cfg.Logging {
		entry := logging.Entry{
			Method:        x.method,
			URL:           x.rawURL,
			Duration:      elapsed,
			RequestHeader: x.req.Header,
			RequestBody:   x.reqBody,
			Err:           err,
		}
		if resp != nil && err == nil {
			entry.Status = resp.StatusCode
			entry.ResponseHeader = resp.Header
			entry.ResponseBody, _ = response.Peek(resp)
		}

		switch {
		case err != nil:
			c.log.Error(entry.Format())
		case outcome == metrics.NotFound:
			c.log.Warn(entry.Format())
		default:
			c.log.Info(entry.Format())
		}
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// failure keeps specific failure outcomes and folds the rest into Failed.
func failure(o metrics.Outcome) metrics.Outcome {
	if o == metrics.Unmocked {
		return o
	}
	return metrics.Failed
}

// bufferBody reads the request body and replaces it with a replayable copy.
func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.ContentLength = int64(len(data))
	return data, nil
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
