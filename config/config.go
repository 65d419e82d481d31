package config

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// Policy decides what happens to a request no handler matches.
type Policy string

const (
	// PassThrough sends unmatched requests to the original transport.
	PassThrough Policy = "pass-through"

	// Return404 answers unmatched requests with an empty 404 response.
	Return404 Policy = "return-404"

	// ThrowError fails unmatched requests with an error.
	ThrowError Policy = "throw-error"
)

// Keys accepted by Apply.
const (
	KeyHandleUnmockedRequests = "handleUnmockedRequests"
	KeyResponseDelay          = "responseDelay"
	KeyLogging                = "logging"
)

var (
	// ErrInvalidPolicy is returned when HandleUnmockedRequests is not a known Policy.
	ErrInvalidPolicy = errors.New("invalid handleUnmockedRequests value")
)

// Valid reports whether p is one of the known policies.
func (p Policy) Valid() bool {
	switch p {
	case PassThrough, Return404, ThrowError:
		return true
	default:
		return false
	}
}

// Configuration is a snapshot of the settings of a Store.
type Configuration struct {
	// HandleUnmockedRequests controls unmatched requests.
	HandleUnmockedRequests Policy

	// ResponseDelay is applied to matched requests whose handler sets no delay.
	ResponseDelay time.Duration

	// Logging enables the request/response log block.
	Logging bool
}

// Defaults returns the configuration a new Store starts with.
func Defaults() Configuration {
	return Configuration{
		HandleUnmockedRequests: ThrowError,
		ResponseDelay:          0,
		Logging:                true,
	}
}

// Update is a partial configuration. Nil fields are left untouched.
type Update struct {
	HandleUnmockedRequests *Policy
	ResponseDelay          *time.Duration
	Logging                *bool
}

// Store owns a Configuration and guards it for concurrent use.
type Store struct {
	mu  sync.RWMutex
	cfg Configuration
}

// New returns a Store initialised with Defaults.
func New() *Store {
	return &Store{cfg: Defaults()}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set validates and applies the non-nil fields of u.
func (s *Store) Set(u Update) error {
	if u.HandleUnmockedRequests != nil && !u.HandleUnmockedRequests.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, *u.HandleUnmockedRequests)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u.HandleUnmockedRequests != nil {
		s.cfg.HandleUnmockedRequests = *u.HandleUnmockedRequests
	}
	if u.ResponseDelay != nil && *u.ResponseDelay >= 0 {
		s.cfg.ResponseDelay = *u.ResponseDelay
	}
	if u.Logging != nil {
		s.cfg.Logging = *u.Logging
	}
	return nil
}

// Apply converts a loosely typed settings map into an Update and sets it.
//
// responseDelay is read as whole milliseconds. Unknown keys are ignored.
func (s *Store) Apply(m map[string]any) error {
	var u Update

	if v, ok := m[KeyHandleUnmockedRequests]; ok {
		str, isString := v.(string)
		if !isString {
			return fmt.Errorf("%w: %v", ErrInvalidPolicy, v)
		}
		p := Policy(str)
		u.HandleUnmockedRequests = &p
	}

	if v, ok := m[KeyResponseDelay]; ok {
		if ms, valid := milliseconds(v); valid {
			d := time.Duration(ms) * time.Millisecond
			u.ResponseDelay = &d
		}
	}

	if v, ok := m[KeyLogging]; ok {
		if b, isBool := v.(bool); isBool {
			u.Logging = &b
		}
	}

	return s.Set(u)
}

// maxDelayMillis is the largest delay in milliseconds a time.Duration holds.
const maxDelayMillis = math.MaxInt64 / int64(time.Millisecond)

// milliseconds accepts any integer kind, or a whole float as produced by
// encoding/json, and rejects negative values and values a time.Duration
// cannot hold.
func milliseconds(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x > float64(maxDelayMillis) {
			return 0, false
		}
		n = int64(x)
	case time.Duration:
		return int64(x / time.Millisecond), x >= 0
	default:
		return 0, false
	}
	return n, n >= 0 && n <= maxDelayMillis
}
