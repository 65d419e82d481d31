/*
Package hostmock provides a pretend Tarmac host for waPC calls.

It lets tests exercise the host-backed components of mockfetch, the
hostcall transport and the host metrics recorder, without a WebAssembly
runtime. A Mock checks the routing of each call, records it and answers
with scripted bytes or a scripted failure.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  Namespace:  "tarmac",
	  Capability: "httpclient",
	  Function:   "call",
	  Response: hostmock.HTTPClient(func(req *proto.HTTPClient) *proto.HTTPClientResponse {
	    return hostmock.OK(200, []byte("hi"))
	  }),
	})

	rt, _ := hostcall.New(hostcall.Config{HostCall: m.HostCall})

Behavior

  - If Fail is true, HostCall returns Error, or ErrOperationFailed when Error is nil.
  - Namespace, Capability and Function are enforced only when set.
  - Validate runs before Response. Without a Response the call returns nil bytes.
  - Every call that passes routing is recorded and available from Calls.
*/
package hostmock
