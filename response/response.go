package response

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tarmac-project/mockfetch/urlpattern"
)

var (
	// ErrInvalidStatus is returned for status codes outside 200-599.
	ErrInvalidStatus = errors.New("response status must be between 200 and 599")

	// ErrNullBodyStatus is returned when a 204, 205 or 304 response has a body.
	ErrNullBodyStatus = errors.New("response with null body status cannot have body")

	// ErrNoOutcome is returned when a responder produces no response.
	ErrNoOutcome = errors.New("responder returned no response")
)

const (
	// HeaderContentType is the header inspected for JSON tagging.
	HeaderContentType = "Content-Type"

	// ContentTypeJSON is added to structured bodies without a content type.
	ContentTypeJSON = "application/json"
)

// Match is passed to responder functions alongside the request.
type Match struct {
	// Result holds the captures of the handler's URL pattern.
	Result *urlpattern.Result

	// URL is the parsed request URL.
	URL *url.URL

	// Query holds the parsed query parameters.
	Query url.Values
}

// Param returns a named pathname capture.
func (m *Match) Param(name string) string {
	if m == nil || m.Result == nil {
		return ""
	}
	return m.Result.Pathname.Groups[name]
}

// Outcome is what a responder produces: a Simple description or a Full
// response.
type Outcome interface {
	isOutcome()
}

// Simple is a lightweight response description. A zero Status means 200.
type Simple struct {
	Status int
	Header HeaderSource
	Body   Body
}

func (Simple) isOutcome() {}

// Full is a complete response returned to the caller untouched.
type Full struct {
	Response *http.Response
}

func (Full) isOutcome() {}

// Spec describes how a handler responds. Build one with Static, Prebuilt or
// Func.
type Spec interface {
	resolve(req *http.Request, m *Match) (Outcome, error)
}

type static struct {
	simple Simple
}

func (s static) resolve(*http.Request, *Match) (Outcome, error) {
	return s.simple, nil
}

// Static responds with the same description every time. A Stream body is
// shared by every response, so only the first caller can read it.
func Static(s Simple) Spec {
	return static{simple: s}
}

type prebuilt struct {
	resp *http.Response
}

func (p prebuilt) resolve(*http.Request, *Match) (Outcome, error) {
	return Full{Response: p.resp}, nil
}

// Prebuilt responds with resp itself. Its body can only be read once, so use
// Func to serve repeated requests with fresh bodies.
func Prebuilt(resp *http.Response) Spec {
	return prebuilt{resp: resp}
}

// Func computes the response per request. The function may block; it runs on
// the goroutine that issued the request.
type Func func(req *http.Request, m *Match) (Outcome, error)

func (f Func) resolve(req *http.Request, m *Match) (Outcome, error) {
	return f(req, m)
}

// Valid reports whether spec can produce a response.
func Valid(spec Spec) bool {
	switch s := spec.(type) {
	case nil:
		return false
	case Func:
		return s != nil
	case prebuilt:
		return s.resp != nil
	default:
		return true
	}
}

// Resolve runs spec for req. Errors from a Func are returned unchanged.
func Resolve(spec Spec, req *http.Request, m *Match) (Outcome, error) {
	out, err := spec.resolve(req, m)
	if err != nil {
		return nil, err
	}
	switch o := out.(type) {
	case nil:
		return nil, ErrNoOutcome
	case Full:
		if o.Response == nil {
			return nil, ErrNoOutcome
		}
	case *Full:
		if o == nil || o.Response == nil {
			return nil, ErrNoOutcome
		}
		return *o, nil
	case *Simple:
		if o == nil {
			return nil, ErrNoOutcome
		}
		return *o, nil
	}
	return out, nil
}

// Build turns s into an *http.Response for req.
//
// Structured bodies are serialised as JSON and tagged application/json unless
// s.Header already names a content type. Text, search-param and form bodies
// get the content type a fetch Response would infer.
func Build(req *http.Request, s Simple) (*http.Response, error) {
	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status > 599 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}
	if s.Body.kind != KindNone && nullBodyStatus(status) {
		return nil, fmt.Errorf("%w: %d", ErrNullBodyStatus, status)
	}

	enc, err := s.Body.encode()
	if err != nil {
		return nil, err
	}

	header := toHTTP(s.Header)
	if enc.contentType != "" && !HasHeader(s.Header, HeaderContentType) {
		header.Set(HeaderContentType, enc.contentType)
	}

	resp := &http.Response{
		Status:        strings.TrimSpace(fmt.Sprintf("%d %s", status, http.StatusText(status))),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		ContentLength: enc.length,
		Request:       req,
	}

	switch {
	case enc.buffered && len(enc.data) == 0:
		resp.Body = http.NoBody
		resp.ContentLength = 0
	case enc.buffered:
		resp.Body = &bufferedReadCloser{Reader: bytes.NewReader(enc.data), data: enc.data}
	case enc.reader == nil:
		resp.Body = http.NoBody
		resp.ContentLength = 0
	default:
		resp.Body = readCloser(enc.reader)
	}

	return resp, nil
}

func nullBodyStatus(status int) bool {
	switch status {
	case http.StatusNoContent, http.StatusResetContent, http.StatusNotModified:
		return true
	default:
		return false
	}
}

// bufferedReadCloser keeps the full payload so it can be inspected without
// consuming the body.
type bufferedReadCloser struct {
	*bytes.Reader
	data []byte
}

func (b *bufferedReadCloser) Close() error { return nil }

func readCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

// Peek returns the payload of a body built by Build without consuming it. It
// reports false for streamed or foreign bodies.
func Peek(resp *http.Response) ([]byte, bool) {
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return nil, resp != nil
	}
	if b, ok := resp.Body.(*bufferedReadCloser); ok {
		return b.data, true
	}
	return nil, false
}
