/*
Package config holds the process-wide settings of a mock fetch context.

A Store always carries exactly one Configuration. Get returns a copy, so
callers never hold the live value. Settings change only through Set, which
takes typed pointer fields, or Apply, which takes the loosely typed maps that
fixture files decode into. Both validate each field on its own: an unknown
unmatched-request policy rejects the whole update, while a negative delay or a
wrongly typed value is skipped and the previous setting kept.
*/
package config
