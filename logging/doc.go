/*
Package logging renders and emits the log entries written for intercepted
HTTP calls.

The package keeps a small Client interface with convenience methods for the
common log levels (Info, Warn, Error, Debug, Trace) backed by a zap logger.
Entry describes one intercepted call and Format renders it as a multi-line
block:

	GET http://api.example.com/users/7 (1.25ms)
	  request headers: {"Accept":"application/json"}
	  response status: 200
	  response headers: {"Content-Type":"application/json"}
	  response body: {"id":7}
*/
package logging
