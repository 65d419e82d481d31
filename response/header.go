package response

import (
	"net/http"
	"sort"
	"strings"
)

// HeaderSource is any header representation a Simple response accepts.
// Each must call fn once per name/value pair, preserving the supplied
// spelling of names.
type HeaderSource interface {
	Each(fn func(name, value string))
}

// HeaderMap is a single-valued header object.
type HeaderMap map[string]string

// Each visits the entries in name order.
func (h HeaderMap) Each(fn func(name, value string)) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, h[k])
	}
}

// HeaderPairs is an ordered list of name/value pairs.
type HeaderPairs [][2]string

// Each visits the pairs in order.
func (h HeaderPairs) Each(fn func(name, value string)) {
	for _, p := range h {
		fn(p[0], p[1])
	}
}

// HeaderSet adapts an http.Header.
type HeaderSet http.Header

// Each visits the names in order and their values in insertion order.
func (h HeaderSet) Each(fn func(name, value string)) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			fn(k, v)
		}
	}
}

// HasHeader reports whether src carries name, compared case-insensitively
// against the names exactly as supplied.
func HasHeader(src HeaderSource, name string) bool {
	if src == nil {
		return false
	}
	found := false
	src.Each(func(n, _ string) {
		if strings.EqualFold(n, name) {
			found = true
		}
	})
	return found
}

// toHTTP copies src into a canonicalised http.Header.
func toHTTP(src HeaderSource) http.Header {
	h := make(http.Header)
	if src == nil {
		return h
	}
	src.Each(h.Add)
	return h
}
