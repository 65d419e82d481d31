package mockfetch

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tarmac-project/mockfetch/config"
	"github.com/tarmac-project/mockfetch/intercept"
	"github.com/tarmac-project/mockfetch/logging"
	"github.com/tarmac-project/mockfetch/metrics"
	"github.com/tarmac-project/mockfetch/registry"
	"github.com/tarmac-project/mockfetch/response"
)

// Options configures a Context.
type Options struct {
	// Binding is the transport slot the Context intercepts. If nil,
	// intercept.DefaultTransport is used.
	Binding intercept.Binding

	// Original receives pass-through requests. If nil, whatever Binding holds
	// when New runs is used.
	Original http.RoundTripper

	// Logger receives the request log. If nil, a zap development logger is
	// created.
	Logger *zap.Logger

	// Metrics records one observation per intercepted call. If nil, nothing
	// is recorded.
	Metrics metrics.Recorder
}

// Handler describes a mock to register.
type Handler struct {
	// URL is a string template such as "http{s}?://h/users/:id", a *url.URL
	// or a compiled *urlpattern.Pattern.
	URL any

	// Method is matched case-insensitively. Empty means GET.
	Method string

	// Delay overrides the configured response delay. Use the Delay helper to
	// set it inline.
	Delay *time.Duration

	// Response produces the answer.
	Response response.Spec
}

// Context owns a registry of handlers, a configuration and the interception
// of one transport binding.
type Context struct {
	registry    *registry.Registry
	config      *config.Store
	binding     intercept.Binding
	interceptor *intercept.Interceptor
	original    http.RoundTripper
	transport   *transport
	log         logging.Client
	metrics     metrics.Recorder

	// mu serialises registry changes with the install/uninstall they trigger.
	mu sync.Mutex

	callsMu sync.RWMutex
	calls   []Call
}

// New creates a Context. The binding is not touched until the first handler
// is registered or Replace is called.
func New(opts Options) (*Context, error) {
	log, err := logging.New(logging.Config{Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	c := &Context{
		registry: registry.New(),
		config:   config.New(),
		binding:  opts.Binding,
		log:      log,
		metrics:  opts.Metrics,
	}

	// Set defaults
	if c.binding == nil {
		c.binding = intercept.DefaultTransport
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop{}
	}

	c.transport = &transport{ctx: c}
	c.interceptor = intercept.New(c.binding, c.transport)

	c.original = opts.Original
	if c.original == nil {
		c.original = c.interceptor.Original()
	}

	return c, nil
}

// Delay returns a pointer to d for Handler.Delay and config.Update.
func Delay(d time.Duration) *time.Duration {
	return &d
}

// Configuration returns a copy of the current configuration.
func (c *Context) Configuration() config.Configuration {
	return c.config.Get()
}

// SetConfiguration applies the non-nil fields of u. An invalid policy fails
// the whole update.
func (c *Context) SetConfiguration(u config.Update) error {
	return c.config.Set(u)
}

// ApplyConfiguration applies a loosely typed settings map, as read from a
// fixture file.
func (c *Context) ApplyConfiguration(m map[string]any) error {
	return c.config.Apply(m)
}

// Mock registers h and returns the normalised handler that will be matched.
// Registering into an empty registry installs the interceptor.
func (c *Context) Mock(h Handler) (*registry.Handler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasEmpty := c.registry.Len() == 0
	stored, err := c.registry.Register(registry.Handler{
		URL:      h.URL,
		Method:   h.Method,
		Delay:    h.Delay,
		Response: h.Response,
	})
	if err != nil {
		return nil, err
	}

	if wasEmpty {
		c.interceptor.Install()
	}
	return stored, nil
}

// Includes reports whether a handler registered with the identical URL value
// and method exists. It does not match patterns; see WillMock for that.
func (c *Context) Includes(url any, method string) (bool, error) {
	return c.registry.Exists(url, method)
}

// WillMock reports whether a request for target would be answered by a
// handler.
func (c *Context) WillMock(target any, init *Init) bool {
	rawURL, method, err := describe(target, init)
	if err != nil {
		return false
	}
	h, _ := c.registry.FindFirstMatch(rawURL, method)
	return h != nil
}

// Unmock removes the earliest handler with the identical URL value and
// method. Removing the last handler restores the original transport.
func (c *Context) Unmock(url any, method string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.registry.Remove(url, method) {
		return false
	}
	if c.registry.Len() == 0 {
		c.interceptor.Uninstall()
	}
	return true
}

// UnmockAll removes every handler and restores the original transport.
func (c *Context) UnmockAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.Clear()
	c.interceptor.Uninstall()
}

// Handlers returns the registered handlers in match order.
func (c *Context) Handlers() []*registry.Handler {
	return c.registry.Handlers()
}

// IsReplaced reports whether the binding currently holds this Context's
// transport.
func (c *Context) IsReplaced() bool {
	return c.interceptor.Active()
}

// Replace installs the mock transport in the binding.
func (c *Context) Replace() {
	c.interceptor.Install()
}

// Restore puts the original transport back in the binding.
func (c *Context) Restore() {
	c.interceptor.Uninstall()
}

// Transport returns the mock-aware RoundTripper. It answers from the
// registry whether or not it is installed in the binding.
func (c *Context) Transport() http.RoundTripper {
	return c.transport
}

// Client returns an *http.Client that always uses the mock transport.
func (c *Context) Client() *http.Client {
	return &http.Client{Transport: c.transport}
}

// Original returns the transport pass-through requests are sent to.
func (c *Context) Original() http.RoundTripper {
	return c.original
}
