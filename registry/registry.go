package registry

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tarmac-project/mockfetch/response"
	"github.com/tarmac-project/mockfetch/urlpattern"
)

var (
	// ErrMissingURL is returned when a handler has no URL.
	ErrMissingURL = errors.New("handler URL is required")

	// ErrMissingResponse is returned when a handler has no response.
	ErrMissingResponse = errors.New("handler response is required")

	// ErrInvalidDelay is returned when a handler delay is negative.
	ErrInvalidDelay = errors.New("handler delay cannot be negative")

	// ErrUnsupportedURL is returned when a handler URL has an unsupported type.
	ErrUnsupportedURL = errors.New("handler URL must be a string, *url.URL or *urlpattern.Pattern")
)

// DefaultMethod is used when a handler or lookup has no method.
const DefaultMethod = http.MethodGet

// Handler is a registered mock.
type Handler struct {
	// URL is the identity value the handler was registered with: a string
	// template, a *url.URL or a *urlpattern.Pattern.
	URL any

	// Method is the uppercase HTTP method. Empty means GET.
	Method string

	// Delay overrides the configured response delay when set.
	Delay *time.Duration

	// Response produces the mocked response.
	Response response.Spec

	pattern *urlpattern.Pattern
}

// Pattern returns the compiled URL pattern.
func (h *Handler) Pattern() *urlpattern.Pattern { return h.pattern }

// clone returns a copy that shares nothing mutable with h.
func (h *Handler) clone() *Handler {
	c := *h
	if h.Delay != nil {
		d := *h.Delay
		c.Delay = &d
	}
	return &c
}

// Registry is an ordered, concurrency-safe list of handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers []*Handler
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// NormalizeMethod uppercases method, defaulting to GET.
func NormalizeMethod(method string) string {
	if method == "" {
		return DefaultMethod
	}
	return strings.ToUpper(method)
}

// Compile turns a handler URL value into a pattern.
func Compile(u any) (*urlpattern.Pattern, error) {
	switch v := u.(type) {
	case nil:
		return nil, ErrMissingURL
	case string:
		if v == "" {
			return nil, ErrMissingURL
		}
		return urlpattern.New(v, nil)
	case *url.URL:
		if v == nil {
			return nil, ErrMissingURL
		}
		return urlpattern.New(v.String(), nil)
	case *urlpattern.Pattern:
		if v == nil {
			return nil, ErrMissingURL
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedURL, u)
	}
}

// Register validates and compiles h, then appends it. It returns a copy of
// the stored handler.
func (r *Registry) Register(h Handler) (*Handler, error) {
	if !response.Valid(h.Response) {
		if h.URL == nil {
			return nil, errors.Join(ErrMissingURL, ErrMissingResponse)
		}
		return nil, ErrMissingResponse
	}
	if h.Delay != nil && *h.Delay < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDelay, *h.Delay)
	}

	p, err := Compile(h.URL)
	if err != nil {
		return nil, err
	}

	stored := &Handler{
		URL:      h.URL,
		Method:   NormalizeMethod(h.Method),
		Response: h.Response,
		pattern:  p,
	}
	if h.Delay != nil {
		d := *h.Delay
		stored.Delay = &d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, stored)
	return stored.clone(), nil
}

// Exists reports whether a handler with the same URL identity and method is
// registered.
func (r *Registry) Exists(u any, method string) (bool, error) {
	if missing(u) {
		return false, ErrMissingURL
	}
	method = NormalizeMethod(method)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index(u, method) >= 0, nil
}

// Remove deletes the earliest handler with the same URL identity and method.
// It reports whether one was removed.
func (r *Registry) Remove(u any, method string) bool {
	if missing(u) {
		return false
	}
	method = NormalizeMethod(method)

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(u, method)
	if i < 0 {
		return false
	}
	r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
	return true
}

// Clear removes every handler.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Handlers returns copies of the handlers in registration order.
func (r *Registry) Handlers() []*Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Handler, len(r.handlers))
	for i, h := range r.handlers {
		out[i] = h.clone()
	}
	return out
}

// FindFirstMatch returns the earliest handler for method whose pattern
// matches rawURL, along with the match captures. It returns nil when no
// handler matches.
func (r *Registry) FindFirstMatch(rawURL, method string) (*Handler, *urlpattern.Result) {
	method = NormalizeMethod(method)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handlers {
		if h.Method != method {
			continue
		}
		if res := h.pattern.Exec(rawURL); res != nil {
			return h, res
		}
	}
	return nil, nil
}

// index must be called with the lock held.
func (r *Registry) index(u any, method string) int {
	for i, h := range r.handlers {
		if h.Method == method && sameURL(h.URL, u) {
			return i
		}
	}
	return -1
}

func sameURL(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case *url.URL:
		y, ok := b.(*url.URL)
		return ok && x.String() == y.String()
	case *urlpattern.Pattern:
		y, ok := b.(*urlpattern.Pattern)
		return ok && x == y
	default:
		return false
	}
}

func missing(u any) bool {
	switch v := u.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *url.URL:
		return v == nil
	case *urlpattern.Pattern:
		return v == nil
	default:
		return false
	}
}
