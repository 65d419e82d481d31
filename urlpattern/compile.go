package urlpattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	fullWildcard    = ".*"
	pathSegment     = "[^/]+?"
	hostnameSegment = "[^.]+?"
	defaultSegment  = ".+?"
)

// componentOptions describe how one URL component is compiled.
type componentOptions struct {
	// segment is the regexp used for a :name without its own regexp.
	segment string

	// prefix is the delimiter absorbed into a following matcher, if any.
	prefix string

	ignoreCase bool

	// encode canonicalises fixed text the way request values are.
	encode func(string) string
}

// component is a compiled pattern for a single URL component.
type component struct {
	source string
	re     *regexp.Regexp
	names  []string
}

// part is either fixed text or a matcher wrapped in optional prefix/suffix
// text, followed by an optional modifier.
type part struct {
	fixed    bool
	text     string
	prefix   string
	suffix   string
	value    string
	modifier string
}

func (p part) regexp(encode func(string) string) string {
	if encode == nil {
		encode = func(s string) string { return s }
	}
	quote := func(s string) string { return regexp.QuoteMeta(encode(s)) }

	if p.fixed {
		if p.modifier == "" {
			return quote(p.text)
		}
		return "(?:" + quote(p.text) + ")" + p.modifier
	}

	pre := quote(p.prefix)
	suf := quote(p.suffix)

	switch p.modifier {
	case "":
		return pre + "(" + p.value + ")" + suf
	case "?":
		return "(?:" + pre + "(" + p.value + ")" + suf + ")?"
	case "+":
		return pre + "((?:" + p.value + ")(?:" + suf + pre + "(?:" + p.value + "))*)" + suf
	default:
		return "(?:" + pre + "((?:" + p.value + ")(?:" + suf + pre + "(?:" + p.value + "))*)" + suf + ")?"
	}
}

// parser walks the tokens of one component.
type parser struct {
	tokens []token
	pos    int
	opts   componentOptions
	parts  []part
	names  []string
	seen   map[string]bool
	next   int
	text   strings.Builder
}

func compileComponent(tokens []token, opts componentOptions) (*component, error) {
	p := &parser{tokens: tokens, opts: opts, seen: map[string]bool{}}
	if err := p.parse(); err != nil {
		return nil, err
	}

	var b strings.Builder
	if opts.ignoreCase {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	for _, pt := range p.parts {
		b.WriteString(pt.regexp(opts.encode))
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return &component{source: render(tokens), re: re, names: p.names}, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return token{}, false
}

func (p *parser) atMatcher() bool {
	t, ok := p.peek()
	return ok && (t.kind == tokName || t.kind == tokRegex || t.kind == tokAsterisk)
}

func (p *parser) atText() bool {
	t, ok := p.peek()
	if !ok {
		return false
	}
	return t.kind == tokChar || t.kind == tokEscaped || t.kind == tokModifier
}

func (p *parser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.parts = append(p.parts, part{fixed: true, text: p.text.String()})
	p.text.Reset()
}

func (p *parser) parse() error {
	for {
		t, ok := p.peek()
		if !ok {
			p.flushText()
			return nil
		}

		switch {
		case p.atMatcher():
			prefix := ""
			if p.opts.prefix != "" && strings.HasSuffix(p.text.String(), p.opts.prefix) {
				pending := p.text.String()
				p.text.Reset()
				p.text.WriteString(strings.TrimSuffix(pending, p.opts.prefix))
				prefix = p.opts.prefix
			}
			p.flushText()

			value, err := p.matcher()
			if err != nil {
				return err
			}
			p.parts = append(p.parts, part{prefix: prefix, value: value, modifier: p.modifier()})

		case t.kind == tokOpen:
			p.flushText()
			p.pos++
			if err := p.group(); err != nil {
				return err
			}

		case t.kind == tokClose:
			return fmt.Errorf("%w: unbalanced '}'", ErrSyntax)

		default:
			// Chars, escapes and modifiers with nothing to modify are text.
			p.text.WriteString(t.text())
			p.pos++
		}
	}
}

// group parses the inside of a {...} group; the opening brace is consumed.
func (p *parser) group() error {
	prefix := p.readText()

	value := ""
	hasMatcher := false
	if p.atMatcher() {
		v, err := p.matcher()
		if err != nil {
			return err
		}
		value = v
		hasMatcher = true
	}

	suffix := p.readText()

	t, ok := p.peek()
	switch {
	case !ok:
		return fmt.Errorf("%w: unbalanced '{'", ErrSyntax)
	case t.kind == tokOpen:
		return fmt.Errorf("%w: nested '{'", ErrSyntax)
	case t.kind != tokClose:
		return fmt.Errorf("%w: expected '}'", ErrSyntax)
	}
	p.pos++

	mod := p.modifier()
	if !hasMatcher {
		p.parts = append(p.parts, part{fixed: true, text: prefix + suffix, modifier: mod})
		return nil
	}
	p.parts = append(p.parts, part{prefix: prefix, suffix: suffix, value: value, modifier: mod})
	return nil
}

func (p *parser) readText() string {
	var b strings.Builder
	for p.atText() {
		b.WriteString(p.tokens[p.pos].text())
		p.pos++
	}
	return b.String()
}

// matcher consumes a name (with optional regexp), a bare regexp or a wildcard
// and returns the regexp for its capture.
func (p *parser) matcher() (string, error) {
	t := p.tokens[p.pos]
	p.pos++

	switch t.kind {
	case tokName:
		if p.seen[t.value] {
			return "", fmt.Errorf("%w: duplicate group name %q", ErrSyntax, t.value)
		}
		p.seen[t.value] = true
		p.names = append(p.names, t.value)

		if next, ok := p.peek(); ok && next.kind == tokRegex {
			p.pos++
			return next.value, nil
		}
		return p.opts.segment, nil

	case tokRegex:
		p.names = append(p.names, p.unnamed())
		return t.value, nil

	default:
		p.names = append(p.names, p.unnamed())
		return fullWildcard, nil
	}
}

func (p *parser) unnamed() string {
	name := strconv.Itoa(p.next)
	p.next++
	return name
}

// modifier consumes a trailing ?, + or * if present.
func (p *parser) modifier() string {
	t, ok := p.peek()
	if !ok {
		return ""
	}
	if t.kind == tokModifier || t.kind == tokAsterisk {
		p.pos++
		return t.value
	}
	return ""
}

func (c *component) exec(input string) (Component, bool) {
	m := c.re.FindStringSubmatch(input)
	if m == nil {
		return Component{}, false
	}

	groups := make(map[string]string, len(c.names))
	for i, name := range c.names {
		groups[name] = m[i+1]
	}
	return Component{Input: input, Groups: groups}, true
}

// percentEncode escapes control characters, spaces and non-ASCII bytes with
// upper case hex. Existing escapes are left alone.
func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c > 0x20 && c < 0x7f {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// render rebuilds pattern text from tokens.
func render(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.kind {
		case tokEscaped:
			b.WriteString(`\` + t.value)
		case tokOpen:
			b.WriteString("{")
		case tokClose:
			b.WriteString("}")
		case tokName:
			b.WriteString(":" + t.value)
		case tokRegex:
			b.WriteString("(" + t.value + ")")
		default:
			b.WriteString(t.value)
		}
	}
	return b.String()
}
