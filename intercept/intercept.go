package intercept

import (
	"net/http"
	"sync"
)

// Binding is a replaceable slot holding a RoundTripper.
type Binding interface {
	// Load returns the RoundTripper currently held.
	Load() http.RoundTripper

	// Store replaces the RoundTripper held.
	Store(http.RoundTripper)
}

// globalBinding is the http.DefaultTransport slot.
type globalBinding struct {
	mu sync.Mutex
}

// DefaultTransport binds the package-level http.DefaultTransport.
var DefaultTransport Binding = &globalBinding{}

func (b *globalBinding) Load() http.RoundTripper {
	b.mu.Lock()
	defer b.mu.Unlock()
	return http.DefaultTransport
}

func (b *globalBinding) Store(rt http.RoundTripper) {
	b.mu.Lock()
	defer b.mu.Unlock()
	http.DefaultTransport = rt
}

type clientBinding struct {
	mu     sync.Mutex
	client *http.Client
}

// ClientBinding binds the Transport field of c. A nil Transport loads as
// http.DefaultTransport, matching how the client itself behaves.
func ClientBinding(c *http.Client) Binding {
	return &clientBinding{client: c}
}

func (b *clientBinding) Load() http.RoundTripper {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client.Transport == nil {
		return http.DefaultTransport
	}
	return b.client.Transport
}

func (b *clientBinding) Store(rt http.RoundTripper) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.client.Transport = rt
}

// Interceptor installs and removes a substitute RoundTripper on a Binding.
type Interceptor struct {
	binding    Binding
	original   http.RoundTripper
	substitute http.RoundTripper
}

// New captures the RoundTripper binding currently holds as the original.
func New(binding Binding, substitute http.RoundTripper) *Interceptor {
	return &Interceptor{
		binding:    binding,
		original:   binding.Load(),
		substitute: substitute,
	}
}

// Active reports whether the binding currently holds the substitute.
func (i *Interceptor) Active() bool {
	return i.binding.Load() == i.substitute
}

// Install places the substitute in the binding, whatever it currently holds.
func (i *Interceptor) Install() {
	i.binding.Store(i.substitute)
}

// Uninstall restores the captured original, whatever the binding currently
// holds.
func (i *Interceptor) Uninstall() {
	i.binding.Store(i.original)
}

// Original returns the RoundTripper captured at construction.
func (i *Interceptor) Original() http.RoundTripper {
	return i.original
}
