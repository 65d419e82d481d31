package urlpattern

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokChar tokenKind = iota
	tokEscaped
	tokOpen
	tokClose
	tokName
	tokRegex
	tokAsterisk
	tokModifier
)

type token struct {
	kind  tokenKind
	value string
}

// isMatcher reports whether a modifier directly after t applies to it.
func (t token) isMatcher() bool {
	switch t.kind {
	case tokName, tokRegex, tokAsterisk, tokClose:
		return true
	default:
		return false
	}
}

// text returns the literal text of a char or escaped token.
func (t token) text() string {
	return t.value
}

func isNameStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

// literalColon reports whether a colon followed by r (or by nothing) is plain
// text: protocol separators, ports and port patterns.
func literalColon(r rune, end bool) bool {
	if end {
		return true
	}
	return unicode.IsDigit(r) || strings.ContainsRune("/(*{}@[]", r)
}

func lex(pattern string) ([]token, error) {
	runes := []rune(pattern)
	n := len(runes)
	tokens := make([]token, 0, n)

	for i := 0; i < n; {
		c := runes[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return nil, fmt.Errorf("%w: trailing escape at %d", ErrSyntax, i)
			}
			tokens = append(tokens, token{kind: tokEscaped, value: string(runes[i+1])})
			i += 2
		case '{':
			tokens = append(tokens, token{kind: tokOpen})
			i++
		case '}':
			tokens = append(tokens, token{kind: tokClose})
			i++
		case '*':
			tokens = append(tokens, token{kind: tokAsterisk, value: "*"})
			i++
		case '?', '+':
			tokens = append(tokens, token{kind: tokModifier, value: string(c)})
			i++
		case ':':
			j := i + 1
			if j < n && isNameStart(runes[j]) {
				for j < n && isNamePart(runes[j]) {
					j++
				}
				tokens = append(tokens, token{kind: tokName, value: string(runes[i+1 : j])})
				i = j
				continue
			}
			if !literalColon(peek(runes, j), j >= n) {
				return nil, fmt.Errorf("%w: invalid group name at %d", ErrSyntax, i)
			}
			tokens = append(tokens, token{kind: tokChar, value: ":"})
			i++
		case '(':
			body, next, err := lexRegex(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokRegex, value: body})
			i = next
		default:
			tokens = append(tokens, token{kind: tokChar, value: string(c)})
			i++
		}
	}

	return tokens, nil
}

func peek(runes []rune, i int) rune {
	if i < len(runes) {
		return runes[i]
	}
	return 0
}

// lexRegex reads a parenthesised regexp starting at runes[start] == '('. It
// returns the body and the index just past the closing parenthesis.
func lexRegex(runes []rune, start int) (string, int, error) {
	var b strings.Builder
	depth := 1
	j := start + 1

	for j < len(runes) {
		ch := runes[j]
		if ch == '\\' {
			if j+1 >= len(runes) {
				return "", 0, fmt.Errorf("%w: trailing escape in regexp at %d", ErrSyntax, j)
			}
			b.WriteRune(ch)
			b.WriteRune(runes[j+1])
			j += 2
			continue
		}
		if ch == ')' {
			depth--
			if depth == 0 {
				j++
				break
			}
		}
		if ch == '(' {
			depth++
			if peek(runes, j+1) != '?' {
				return "", 0, fmt.Errorf("%w: capturing group inside regexp at %d", ErrSyntax, j)
			}
		}
		b.WriteRune(ch)
		j++
	}

	if depth != 0 {
		return "", 0, fmt.Errorf("%w: unterminated regexp at %d", ErrSyntax, start)
	}

	body := b.String()
	if body == "" {
		return "", 0, fmt.Errorf("%w: empty regexp at %d", ErrSyntax, start)
	}
	if strings.HasPrefix(body, "?") {
		return "", 0, fmt.Errorf("%w: regexp may not start with ? at %d", ErrSyntax, start)
	}
	return body, j, nil
}
