/*
Package intercept swaps an HTTP transport binding for a substitute.

A Binding is a slot that holds an http.RoundTripper, such as
http.DefaultTransport or the Transport field of an *http.Client. An
Interceptor captures whatever the slot held when it was created, installs its
substitute on demand and puts the captured original back on Uninstall.

Installation is detected by identity: Active reports true only while the slot
holds this interceptor's substitute. If another party replaces the slot, the
interceptor no longer considers itself installed.
*/
package intercept
