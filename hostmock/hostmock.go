package hostmock

import (
	"errors"
	"fmt"
	"sync"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance. Empty
// routing fields accept any value.
type Config struct {
	// Namespace is the namespace expected in the host call.
	Namespace string

	// Capability is the capability expected in the host call.
	Capability string

	// Function is the function name expected in the host call.
	Function string

	// Validate inspects the payload before a response is produced.
	Validate func([]byte) error

	// Response produces the bytes returned for a payload.
	Response func([]byte) ([]byte, error)

	// Fail makes every call return Error.
	Fail bool

	// Error is returned when Fail is set.
	Error error
}

// Call is a recorded host call.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Mock simulates the host side of waPC calls.
type Mock struct {
	cfg Config

	mu    sync.Mutex
	calls []Call
}

// New creates a new instance of the Mock based on the provided Config.
func New(cfg Config) (*Mock, error) {
	return &Mock{cfg: cfg}, nil
}

// HostCall simulates a host call, validating routing and returning the
// scripted response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if err := expect(ErrUnexpectedNamespace, m.cfg.Namespace, namespace); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedCapability, m.cfg.Capability, capability); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedFunction, m.cfg.Function, function); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})
	m.mu.Unlock()

	if m.cfg.Validate != nil {
		if err := m.cfg.Validate(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Response == nil {
		return nil, nil
	}
	return m.cfg.Response(payload)
}

// Calls returns the recorded calls in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func expect(kind error, want, got string) error {
	if want == "" || want == got {
		return nil
	}
	return fmt.Errorf("%w: expected %s, got %s", kind, want, got)
}

// HTTPClient adapts a typed httpclient handler into a Response function. A
// nil handler answers with OK(200, nil).
func HTTPClient(handler func(*proto.HTTPClient) *proto.HTTPClientResponse) func([]byte) ([]byte, error) {
	return func(payload []byte) ([]byte, error) {
		var req proto.HTTPClient
		if err := req.UnmarshalVT(payload); err != nil {
			return nil, err
		}

		resp := OK(200, nil)
		if handler != nil {
			resp = handler(&req)
		}
		return resp.MarshalVT()
	}
}

// OK returns an httpclient response with a successful host status.
func OK(code int32, body []byte) *proto.HTTPClientResponse {
	return &proto.HTTPClientResponse{
		Status:  &sdkproto.Status{Status: "OK", Code: 200},
		Code:    code,
		Headers: map[string]*proto.Header{},
		Body:    body,
	}
}

// HostStatus returns an httpclient response carrying only a host status.
func HostStatus(code int32, status string) *proto.HTTPClientResponse {
	return &proto.HTTPClientResponse{
		Status: &sdkproto.Status{Status: status, Code: code},
	}
}
