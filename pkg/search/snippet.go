package search

import (
	"regexp"
	"strings"
)

const snippetRadius = 40

// Matcher reports whether text contains a term, honouring "*" wildcards the
// same way the database LIKE patterns do.
type Matcher struct {
	patterns []*regexp.Regexp
	any      bool
}

func NewMatcher(terms []string, operator string) *Matcher {
	m := &Matcher{any: strings.EqualFold(operator, "OR")}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		parts := strings.Split(term, "*")
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		m.patterns = append(m.patterns, regexp.MustCompile("(?i)"+strings.Join(parts, ".*?")))
	}
	return m
}

// Match applies the operator across all terms.
func (m *Matcher) Match(text string) bool {
	if len(m.patterns) == 0 {
		return false
	}
	for _, p := range m.patterns {
		found := p.MatchString(text)
		if m.any && found {
			return true
		}
		if !m.any && !found {
			return false
		}
	}
	return !m.any
}

// MatchAny is true when at least one term occurs in text.
func (m *Matcher) MatchAny(text string) bool {
	for _, p := range m.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Snippet returns the text around the first term hit, collapsed to one line.
func (m *Matcher) Snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	start, end := -1, -1
	for _, p := range m.patterns {
		loc := p.FindStringIndex(text)
		if loc != nil && (start < 0 || loc[0] < start) {
			start, end = loc[0], loc[1]
		}
	}
	if start < 0 {
		return truncateRunes(text, snippetRadius*2)
	}

	runes := []rune(text)
	from := len([]rune(text[:start])) - snippetRadius
	to := len([]rune(text[:end])) + snippetRadius

	prefix, suffix := "...", "..."
	if from <= 0 {
		from, prefix = 0, ""
	}
	if to >= len(runes) {
		to, suffix = len(runes), ""
	}
	return prefix + string(runes[from:to]) + suffix
}

// Highlight wraps every term hit in text with mark.
func (m *Matcher) Highlight(text string, mark func(string) string) string {
	for _, p := range m.patterns {
		text = p.ReplaceAllStringFunc(text, mark)
	}
	return text
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
