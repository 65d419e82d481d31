/*
Package mockfetch is an in-process test double for outbound HTTP calls.

A Context owns an ordered registry of mock handlers, a runtime configuration
and an interceptor that swaps a transport binding, http.DefaultTransport by
default, for a mock-aware http.RoundTripper. Registering the first handler
installs the substitute; removing the last one restores the original.

	mockfetch.Mock(mockfetch.Handler{
	  URL: "http{s}?://api.example.com/users/:id",
	  Response: response.Func(func(req *http.Request, m *response.Match) (response.Outcome, error) {
	    return response.Simple{Body: response.JSON(map[string]string{"id": m.Param("id")})}, nil
	  }),
	})
	defer mockfetch.UnmockAll()

	resp, err := http.Get("https://api.example.com/users/7")

Handlers are tried in registration order and the earliest match wins, even
when a later handler has a more specific pattern. Requests no handler matches
follow the HandleUnmockedRequests policy: fail with ErrUnmockedRequest (the
default), answer with an empty 404, or pass through to the original
transport.

The package-level functions operate on a default Context created when the
package is initialised, which captures http.DefaultTransport as it was at that
moment. Tests that need isolation can build their own Context with New and a
dedicated Binding.
*/
package mockfetch
