/*
Package hostcall provides an http.RoundTripper that sends requests through
the Tarmac host's httpclient capability.

Inside a Tarmac WebAssembly function there is no socket access, so the usual
net/http transport cannot be used. Transport encodes each request as a
protobuf payload and hands it to the host with a waPC call. It is meant to be
used as the original transport of a mockfetch Context so that unmatched
requests in "pass-through" mode reach the network through the host.

Host status codes 200 and 206 are successful. 400, 404 and 500 are reported
as ErrHostError and anything else as ErrHostResponseInvalid.
*/
package hostcall
