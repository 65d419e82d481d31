/*
Package urlpattern compiles URL templates into reusable matchers.

A template is an absolute URL in which each component may use placeholders:

	http{s}?://api.example.com/users/:id
	https://*.example.com/files/*
	https://example.com/v:version(\d+)/items/:item?

Supported syntax within a component is literal text, :name, :name(regexp),
(regexp), the * wildcard, {...} groups, the ?, * and + modifiers, and
backslash escapes. In the pathname a "/" right before a placeholder belongs to
it, so "/users/:id?" matches both "/users" and "/users/7".

Components a template leaves out are filled in: username, password and port
must be empty, the pathname of an http-like URL is "/", and search and hash
match anything. Exec returns the named captures of every component; most
callers only need Result.Pathname.Groups.
*/
package urlpattern
