package urlpattern

import (
	"errors"
	"net/url"
	"strings"
)

var (
	// ErrSyntax is returned when a pattern cannot be parsed or compiled.
	ErrSyntax = errors.New("invalid URL pattern syntax")

	// ErrRelativePattern is returned when a pattern does not start with a scheme.
	ErrRelativePattern = errors.New("URL pattern must include a scheme")
)

// specialSchemes maps schemes with a default port to that port.
var specialSchemes = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
	"file":  "",
}

// Options adjust how a Pattern matches.
type Options struct {
	// IgnoreCase makes every component match case-insensitively. Protocol and
	// hostname always do.
	IgnoreCase bool
}

// Component is the match of a single URL component.
type Component struct {
	// Input is the component value that was matched.
	Input string

	// Groups maps group names to captured text. Unnamed groups are numbered
	// from "0" within the component. Groups that did not participate are "".
	Groups map[string]string
}

// Result is the outcome of a successful Exec.
type Result struct {
	Input    string
	Protocol Component
	Username Component
	Password Component
	Hostname Component
	Port     Component
	Pathname Component
	Search   Component
	Hash     Component
}

// Pattern is a compiled URL template.
type Pattern struct {
	source   string
	protocol *component
	username *component
	password *component
	hostname *component
	port     *component
	pathname *component
	search   *component
	hash     *component
}

// pieces holds the token slices of each component as split from the source.
// A nil slice means the component was not written in the pattern.
type pieces struct {
	protocol, username, password, hostname, port, pathname, search, hash []token
}

// New compiles pattern, which must be an absolute URL template such as
// "http{s}?://api.example.com/users/:id".
func New(pattern string, opts *Options) (*Pattern, error) {
	if opts == nil {
		opts = &Options{}
	}

	tokens, err := lex(pattern)
	if err != nil {
		return nil, err
	}

	pc, err := split(tokens)
	if err != nil {
		return nil, err
	}

	// A default port written out is the same URL as no port at all.
	if proto, ok := literalText(pc.protocol); ok {
		if port, ok := literalText(pc.port); ok && port != "" && specialSchemes[strings.ToLower(proto)] == port {
			pc.port = []token{}
		}
	}

	p := &Pattern{source: pattern}

	if p.protocol, err = compileComponent(pc.protocol, componentOptions{segment: defaultSegment, ignoreCase: true}); err != nil {
		return nil, err
	}
	special := p.special()

	if pc.pathname == nil || (len(pc.pathname) == 0 && special) {
		pc.pathname = literal("/")
		if !special {
			pc.pathname = literal("")
		}
	}
	if pc.search == nil {
		pc.search = wildcard()
		if pc.hash != nil {
			pc.search = literal("")
		}
	}
	if pc.hash == nil {
		pc.hash = wildcard()
	}

	plain := componentOptions{segment: defaultSegment, ignoreCase: opts.IgnoreCase}
	encoded := plain
	encoded.encode = percentEncode
	steps := []struct {
		dst    **component
		tokens []token
		opts   componentOptions
	}{
		{&p.username, pc.username, plain},
		{&p.password, pc.password, plain},
		{&p.hostname, pc.hostname, componentOptions{segment: hostnameSegment, ignoreCase: true}},
		{&p.port, pc.port, plain},
		{&p.pathname, pc.pathname, componentOptions{segment: pathSegment, prefix: "/", ignoreCase: opts.IgnoreCase, encode: percentEncode}},
		{&p.search, pc.search, encoded},
		{&p.hash, pc.hash, encoded},
	}
	for _, s := range steps {
		if *s.dst, err = compileComponent(s.tokens, s.opts); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// MustNew is like New but panics on error. It is meant for tests and
// package-level variables.
func MustNew(pattern string, opts *Options) *Pattern {
	p, err := New(pattern, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source the pattern was compiled from.
func (p *Pattern) String() string {
	return p.source
}

// Test reports whether input matches the pattern.
func (p *Pattern) Test(input string) bool {
	return p.Exec(input) != nil
}

// Exec matches input against the pattern and returns nil if it does not
// match or cannot be parsed as an absolute URL.
func (p *Pattern) Exec(input string) *Result {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" {
		return nil
	}

	scheme := strings.ToLower(u.Scheme)
	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}

	port := u.Port()
	if def, ok := specialSchemes[scheme]; ok && port == def {
		port = ""
	}

	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	if _, ok := specialSchemes[scheme]; ok && path == "" {
		path = "/"
	}

	r := &Result{Input: input}
	checks := []struct {
		c     *component
		value string
		dst   *Component
	}{
		{p.protocol, scheme, &r.Protocol},
		{p.username, user, &r.Username},
		{p.password, pass, &r.Password},
		{p.hostname, u.Hostname(), &r.Hostname},
		{p.port, port, &r.Port},
		{p.pathname, percentEncode(path), &r.Pathname},
		{p.search, percentEncode(u.RawQuery), &r.Search},
		{p.hash, percentEncode(u.EscapedFragment()), &r.Hash},
	}
	for _, ch := range checks {
		m, ok := ch.c.exec(ch.value)
		if !ok {
			return nil
		}
		*ch.dst = m
	}
	return r
}

// special reports whether the protocol pattern accepts a special scheme.
func (p *Pattern) special() bool {
	for scheme := range specialSchemes {
		if p.protocol.re.MatchString(scheme) {
			return true
		}
	}
	return false
}

// literalText returns the text of tokens that hold no matchers or groups.
func literalText(tokens []token) (string, bool) {
	var b strings.Builder
	for _, t := range tokens {
		if t.kind != tokChar && t.kind != tokEscaped {
			return "", false
		}
		b.WriteString(t.value)
	}
	return b.String(), true
}

func literal(s string) []token {
	tokens := make([]token, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, token{kind: tokEscaped, value: string(r)})
	}
	return tokens
}

func wildcard() []token {
	return []token{{kind: tokAsterisk, value: "*"}}
}

func isChar(t token, c string) bool {
	return t.kind == tokChar && t.value == c
}

// split divides the top level of a constructor string into URL components.
func split(tokens []token) (pieces, error) {
	var pc pieces

	// Protocol ends at the first top-level "://".
	depth := 0
	end := -1
	for i, t := range tokens {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		}
		if depth == 0 && isChar(t, ":") && i+2 < len(tokens) && isChar(tokens[i+1], "/") && isChar(tokens[i+2], "/") {
			end = i
			break
		}
	}
	if end < 0 {
		return pc, ErrRelativePattern
	}
	pc.protocol = tokens[:end]
	rest := tokens[end+3:]

	// The authority runs up to the first top-level '/', search '?' or '#'.
	authEnd := len(rest)
	depth = 0
	for i, t := range rest {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		}
		if depth != 0 {
			continue
		}
		if isChar(t, "/") || isChar(t, "#") || startsSearch(rest, i) {
			authEnd = i
			break
		}
	}
	if err := splitAuthority(rest[:authEnd], &pc); err != nil {
		return pc, err
	}
	rest = rest[authEnd:]

	// Pathname, search and hash.
	section := "pathname"
	start := 0
	depth = 0
	assign := func(name string, ts []token) {
		if ts == nil {
			ts = []token{}
		}
		switch name {
		case "pathname":
			pc.pathname = ts
		case "search":
			pc.search = ts
		case "hash":
			pc.hash = ts
		}
	}
	for i, t := range rest {
		switch t.kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
		}
		if depth != 0 {
			continue
		}
		if section == "pathname" && startsSearch(rest, i) {
			assign(section, rest[start:i])
			section, start = "search", i+1
			continue
		}
		if section != "hash" && isChar(t, "#") {
			assign(section, rest[start:i])
			section, start = "hash", i+1
		}
	}
	if section != "pathname" || len(rest) > 0 {
		assign(section, rest[start:])
	}
	if pc.pathname == nil && (pc.search != nil || pc.hash != nil) {
		pc.pathname = []token{}
	}

	if depth != 0 {
		return pc, ErrSyntax
	}
	return pc, nil
}

// startsSearch reports whether the token at i is a '?' that begins the
// search component rather than modifying the previous matcher.
func startsSearch(tokens []token, i int) bool {
	t := tokens[i]
	if t.kind != tokModifier || t.value != "?" {
		return false
	}
	return i == 0 || !tokens[i-1].isMatcher()
}

func splitAuthority(auth []token, pc *pieces) error {
	pc.username = []token{}
	pc.password = []token{}

	host := auth
	for i := len(auth) - 1; i >= 0; i-- {
		if isChar(auth[i], "@") {
			userinfo := auth[:i]
			host = auth[i+1:]
			pc.username = userinfo
			for j, t := range userinfo {
				if isChar(t, ":") {
					pc.username = userinfo[:j]
					pc.password = userinfo[j+1:]
					break
				}
			}
			break
		}
	}

	pc.hostname = host
	pc.port = []token{}
	bracket := 0
	depth := 0
	for i, t := range host {
		switch {
		case t.kind == tokOpen:
			depth++
		case t.kind == tokClose:
			depth--
		case isChar(t, "["):
			bracket++
		case isChar(t, "]"):
			bracket--
		}
		if depth == 0 && bracket == 0 && isChar(t, ":") {
			pc.hostname = host[:i]
			pc.port = host[i+1:]
			break
		}
	}

	if depth != 0 {
		return ErrSyntax
	}
	return nil
}
