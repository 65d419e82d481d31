package mockfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tarmac-project/mockfetch/registry"
)

// Init holds optional request settings for Fetch and WillMock.
type Init struct {
	// Method defaults to GET, or to the method of a *http.Request target.
	Method string

	// Header is added to the request headers.
	Header http.Header

	// Body is sent as the request body. It replaces the body of a
	// *http.Request target.
	Body io.Reader
}

// Fetch issues a request through whatever the binding currently holds: the
// mock transport while it is installed, the original transport otherwise.
// target is a URL string, a *url.URL or an *http.Request.
func (c *Context) Fetch(ctx context.Context, target any, init *Init) (*http.Response, error) {
	req, err := newRequest(ctx, target, init)
	if err != nil {
		return nil, err
	}
	return c.binding.Load().RoundTrip(req)
}

// newRequest materialises target as an *http.Request bound to ctx.
func newRequest(ctx context.Context, target any, init *Init) (*http.Request, error) {
	if init == nil {
		init = &Init{}
	}

	var req *http.Request
	switch t := target.(type) {
	case string:
		r, err := http.NewRequestWithContext(ctx, registry.NormalizeMethod(init.Method), t, init.Body)
		if err != nil {
			return nil, err
		}
		req = r
	case *url.URL:
		if t == nil {
			return nil, ErrUnsupportedTarget
		}
		r, err := http.NewRequestWithContext(ctx, registry.NormalizeMethod(init.Method), t.String(), init.Body)
		if err != nil {
			return nil, err
		}
		req = r
	case *http.Request:
		if t == nil {
			return nil, ErrUnsupportedTarget
		}
		req = t.Clone(ctx)
		if init.Method != "" {
			req.Method = init.Method
		}
		if init.Body != nil {
			// Borrow the body handling of NewRequest
			r, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), init.Body)
			if err != nil {
				return nil, err
			}
			req.Body, req.GetBody, req.ContentLength = r.Body, r.GetBody, r.ContentLength
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}

	for name, values := range init.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return req, nil
}

// describe returns the URL and method a request for target would carry.
func describe(target any, init *Init) (string, string, error) {
	method := ""
	if init != nil {
		method = init.Method
	}

	switch t := target.(type) {
	case string:
		return t, registry.NormalizeMethod(method), nil
	case *url.URL:
		if t == nil {
			return "", "", ErrUnsupportedTarget
		}
		return t.String(), registry.NormalizeMethod(method), nil
	case *http.Request:
		if t == nil || t.URL == nil {
			return "", "", ErrUnsupportedTarget
		}
		if method == "" {
			method = t.Method
		}
		return t.URL.String(), registry.NormalizeMethod(method), nil
	default:
		return "", "", fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}
