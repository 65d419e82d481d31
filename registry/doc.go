/*
Package registry holds the ordered set of mock handlers.

Handlers are kept in registration order and FindFirstMatch returns the
earliest one whose method and URL pattern accept a request. Duplicate
registrations are allowed; the later one is reachable only after the earlier
one is removed.

Identity lookups (Exists, Remove) compare the URL value a handler was
registered with, not its compiled pattern. Strings compare by value, *url.URL
values by their String form and *urlpattern.Pattern values by pointer.
*/
package registry
