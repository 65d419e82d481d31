package mockfetch

import (
	"context"
	"net/http"

	"github.com/tarmac-project/mockfetch/config"
	"github.com/tarmac-project/mockfetch/fixture"
	"github.com/tarmac-project/mockfetch/registry"
)

// defaultContext backs the package-level functions. It captures
// http.DefaultTransport as it is when the package is initialised.
var defaultContext = mustNew(Options{})

func mustNew(opts Options) *Context {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the Context used by the package-level functions.
func Default() *Context { return defaultContext }

// Configuration returns a copy of the default configuration.
func Configuration() config.Configuration { return defaultContext.Configuration() }

// SetConfiguration updates the default configuration.
func SetConfiguration(u config.Update) error { return defaultContext.SetConfiguration(u) }

// ApplyConfiguration updates the default configuration from a settings map.
func ApplyConfiguration(m map[string]any) error { return defaultContext.ApplyConfiguration(m) }

// Mock registers h on the default Context.
func Mock(h Handler) (*registry.Handler, error) { return defaultContext.Mock(h) }

// Includes reports whether an identical handler is registered on the
// default Context.
func Includes(url any, method string) (bool, error) { return defaultContext.Includes(url, method) }

// WillMock reports whether the default Context would answer target.
func WillMock(target any, init *Init) bool { return defaultContext.WillMock(target, init) }

// Unmock removes a handler from the default Context.
func Unmock(url any, method string) bool { return defaultContext.Unmock(url, method) }

// UnmockAll clears the default Context and restores http.DefaultTransport.
func UnmockAll() { defaultContext.UnmockAll() }

// IsReplaced reports whether http.DefaultTransport is the mock transport.
func IsReplaced() bool { return defaultContext.IsReplaced() }

// Replace installs the mock transport as http.DefaultTransport.
func Replace() { defaultContext.Replace() }

// Restore puts the original http.DefaultTransport back.
func Restore() { defaultContext.Restore() }

// Fetch issues a request through http.DefaultTransport.
func Fetch(ctx context.Context, target any, init *Init) (*http.Response, error) {
	return defaultContext.Fetch(ctx, target, init)
}

// Transport returns the mock transport of the default Context.
func Transport() http.RoundTripper { return defaultContext.Transport() }

// Client returns a client that always uses the default mock transport.
func Client() *http.Client { return defaultContext.Client() }

// Calls returns the requests seen by the default Context.
func Calls() []Call { return defaultContext.Calls() }

// ResetCalls forgets the requests seen by the default Context.
func ResetCalls() { defaultContext.ResetCalls() }

// LoadFixture loads f into the default Context.
func LoadFixture(f *fixture.File) error { return defaultContext.LoadFixture(f) }

// LoadFixtureFile loads the fixture at path into the default Context.
func LoadFixtureFile(path string) error { return defaultContext.LoadFixtureFile(path) }
