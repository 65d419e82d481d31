package mockfetch

import "net/http"

// Call captures a single request observed by the mock transport.
type Call struct {
	// Method is the uppercase HTTP method used.
	Method string
	// URL is the requested URL string.
	URL string
	// Header holds the request headers.
	Header http.Header
	// Body contains the request body, if provided.
	Body []byte
	// Matched reports whether a handler answered the call.
	Matched bool
}

func (c *Context) record(call Call) {
	c.callsMu.Lock()
	defer c.callsMu.Unlock()
	c.calls = append(c.calls, call)
}

// Calls returns the requests seen by the mock transport, oldest first.
func (c *Context) Calls() []Call {
	c.callsMu.RLock()
	defer c.callsMu.RUnlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// ResetCalls forgets the recorded requests.
func (c *Context) ResetCalls() {
	c.callsMu.Lock()
	defer c.callsMu.Unlock()
	c.calls = nil
}
