package mockfetch

import (
	"errors"

	"github.com/tarmac-project/mockfetch/config"
	"github.com/tarmac-project/mockfetch/registry"
	"github.com/tarmac-project/mockfetch/urlpattern"
)

var (
	// ErrUnmockedRequest is returned when no handler matches a request and the
	// policy is config.ThrowError.
	ErrUnmockedRequest = errors.New("no mock for request")

	// ErrUnsupportedTarget is returned when a fetch target is not a string,
	// *url.URL or *http.Request.
	ErrUnsupportedTarget = errors.New("fetch target must be a string, *url.URL or *http.Request")

	// ErrNoOriginal is returned when a request should pass through but there is
	// no original transport to send it to.
	ErrNoOriginal = errors.New("no original transport to pass through to")
)

// Registration and pattern errors, re-exported for errors.Is checks.
var (
	ErrMissingURL      = registry.ErrMissingURL
	ErrMissingResponse = registry.ErrMissingResponse
	ErrInvalidDelay    = registry.ErrInvalidDelay
	ErrInvalidPolicy   = config.ErrInvalidPolicy
	ErrPatternSyntax   = urlpattern.ErrSyntax
	ErrRelativePattern = urlpattern.ErrRelativePattern
)
