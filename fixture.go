package mockfetch

import (
	"fmt"
	"time"

	"github.com/tarmac-project/mockfetch/fixture"
	"github.com/tarmac-project/mockfetch/response"
)

// LoadFixture applies the configuration block of f and registers its mocks
// in order. Mocks registered before a failing entry stay registered.
func (c *Context) LoadFixture(f *fixture.File) error {
	if f == nil {
		return nil
	}

	if len(f.Config) > 0 {
		if err := c.ApplyConfiguration(f.Config); err != nil {
			return err
		}
	}

	for i, m := range f.Mocks {
		h := Handler{
			URL:    m.URL,
			Method: m.Method,
			Response: response.Static(response.Simple{
				Status: m.Response.Status,
				Header: response.HeaderMap(m.Response.Headers),
				Body:   response.Auto(m.Response.Body),
			}),
		}
		if m.Delay != nil {
			h.Delay = Delay(time.Duration(*m.Delay) * time.Millisecond)
		}

		if _, err := c.Mock(h); err != nil {
			return fmt.Errorf("fixture mock %d (%s %s): %w", i, m.Method, m.URL, err)
		}
	}
	return nil
}

// LoadFixtureFile reads a YAML or JSON fixture from path and loads it.
func (c *Context) LoadFixtureFile(path string) error {
	f, err := fixture.Load(path)
	if err != nil {
		return err
	}
	return c.LoadFixture(f)
}
