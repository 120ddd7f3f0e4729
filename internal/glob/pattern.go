// Package glob implements the restricted wildcard language used by file
// search: '*' matches any run of characters, '?' matches exactly one,
// everything else is literal. Matching is case-insensitive and applies
// to a single filename, never to a path.
package glob

import (
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAnyRun            // *
	tokenAnyChar           // ?
)

type token struct {
	kind    tokenKind
	literal string
}

// Matcher is a compiled pattern. Compile once, match many times.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile translates a wildcard pattern into a matcher. Translation
// works on tokens, not textual substitution: literal runs are quoted
// wholesale, so regexp metacharacters in the pattern ("a.b*", "f(1)?")
// stay literal.
func Compile(pattern string) (*Matcher, error) {
	tokens := tokenize(pattern)

	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, tok := range tokens {
		switch tok.kind {
		case tokenAnyRun:
			sb.WriteString(".*")
		case tokenAnyChar:
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(tok.literal))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, err
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

func tokenize(pattern string) []token {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	for _, r := range pattern {
		switch r {
		case '*':
			flush()
			// Collapse adjacent stars; "**" means the same as "*" here.
			if len(tokens) == 0 || tokens[len(tokens)-1].kind != tokenAnyRun {
				tokens = append(tokens, token{kind: tokenAnyRun})
			}
		case '?':
			flush()
			tokens = append(tokens, token{kind: tokenAnyChar})
		default:
			lit.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// Pattern returns the original pattern text.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether name, a bare filename, matches the whole
// pattern. The empty pattern matches only the empty name.
func (m *Matcher) Match(name string) bool {
	return m.re.MatchString(name)
}
