package hostcall

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	wapc "github.com/wapc/wapc-guest-tinygo"
	pb "google.golang.org/protobuf/proto"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

const (
	capabilityName = "httpclient"
	fnCall         = "call"
)

const (
	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")

	// ErrInvalidURL indicates a request without an absolute URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrNilRequest indicates RoundTrip received a nil request.
	ErrNilRequest = errors.New("request is nil")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrReadBody wraps failures while reading a request body stream.
	ErrReadBody = errors.New("failed to read request body")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)

// HostCall is the waPC host function signature.
type HostCall func(namespace, capability, function string, payload []byte) ([]byte, error)

// Config configures the transport and its host integration.
type Config struct {
	// Namespace scopes the host calls. If empty, DefaultNamespace is used.
	Namespace string

	// InsecureSkipVerify disables TLS verification on the host side when
	// supported by the runtime.
	InsecureSkipVerify bool

	// HostCall overrides the waPC host function; nil uses wapc.HostCall.
	HostCall HostCall
}

// Transport is an http.RoundTripper backed by the host httpclient capability.
type Transport struct {
	namespace string
	insecure  bool
	hostCall  HostCall
}

// Ensure Transport always satisfies http.RoundTripper at compile time.
var _ http.RoundTripper = (*Transport)(nil)

// New creates a Transport with the provided configuration.
func New(cfg Config) (*Transport, error) {
	t := &Transport{
		namespace: cfg.Namespace,
		insecure:  cfg.InsecureSkipVerify,
		hostCall:  cfg.HostCall,
	}

	// Set defaults
	if t.namespace == "" {
		t.namespace = DefaultNamespace
	}
	if t.hostCall == nil {
		t.hostCall = wapc.HostCall
	}

	return t, nil
}

// Namespace returns the namespace used for host calls.
func (t *Transport) Namespace() string { return t.namespace }

// RoundTrip sends req through the host and converts the reply.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Validate the URL before touching the body stream
	if req.URL == nil || req.URL.Host == "" {
		return nil, ErrInvalidURL
	}

	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	// Read the body content if present
	var body []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.Join(ErrReadBody, err)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	msg := &proto.HTTPClient{
		Method:   strings.ToUpper(method),
		Url:      req.URL.String(),
		Insecure: t.insecure,
		Body:     body,
		Headers:  make(map[string]*proto.Header, len(req.Header)),
	}
	for name, values := range req.Header {
		msg.Headers[name] = &proto.Header{Values: values}
	}

	payload, err := pb.Marshal(msg)
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	raw, err := t.hostCall(t.namespace, capabilityName, fnCall, payload)
	if err != nil {
		return nil, errors.Join(ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if err := r.UnmarshalVT(raw); err != nil {
		return nil, errors.Join(ErrUnmarshalResponse, err)
	}

	if err := checkStatus(&r); err != nil {
		return nil, err
	}

	return toResponse(req, &r), nil
}

// checkStatus maps the host status into an error.
func checkStatus(r *proto.HTTPClientResponse) error {
	status := r.GetStatus()
	if status == nil {
		return ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(ErrHostError, errors.New(detail))
	default:
		return errors.Join(ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}
}

func toResponse(req *http.Request, r *proto.HTTPClientResponse) *http.Response {
	code := int(r.GetCode())
	out := &http.Response{
		Status:     strings.TrimSpace(fmt.Sprintf("%d %s", code, http.StatusText(code))),
		StatusCode: code,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header, len(r.GetHeaders())),
		Body:       http.NoBody,
		Request:    req,
	}

	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}

	if body := r.GetBody(); len(body) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.ContentLength = int64(len(body))
	}

	return out
}
