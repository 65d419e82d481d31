/*
Package response turns handler descriptions into *http.Response values.

A handler answers with a Spec: Static for a fixed Simple description,
Prebuilt for a response the caller has already constructed, or Func to
compute an Outcome per request. Resolve dispatches the three uniformly.

Bodies carry an explicit BodyKind. Build serialises structured bodies as JSON
and adds "Content-Type: application/json" unless the supplied headers already
name a content type, in any spelling and any HeaderSource representation. A
Full outcome is never touched, which keeps streaming bodies under the
responder's control.
*/
package response
