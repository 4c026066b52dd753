package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher(t *testing.T) {
	and := NewMatcher([]string{"go", "generics"}, "AND")
	assert.True(t, and.Match("Go has GENERICS now"))
	assert.False(t, and.Match("Go only"))
	assert.True(t, and.MatchAny("Go only"))

	or := NewMatcher([]string{"rust", "generics"}, "OR")
	assert.True(t, or.Match("about generics"))
	assert.False(t, or.Match("about nothing"))

	wild := NewMatcher([]string{"type*work"}, "AND")
	assert.True(t, wild.Match("how do type parameters work"))
	assert.False(t, wild.Match("work on types"))

	assert.False(t, NewMatcher(nil, "AND").Match("anything"))
}

func TestSnippet(t *testing.T) {
	m := NewMatcher([]string{"needle"}, "AND")

	assert.Equal(t, "a short needle text", m.Snippet("a short\nneedle   text"))

	long := strings.Repeat("x", 100) + " needle " + strings.Repeat("y", 100)
	snippet := m.Snippet(long)
	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.Contains(t, snippet, "needle")

	missing := m.Snippet(strings.Repeat("z", 100))
	assert.Equal(t, strings.Repeat("z", 80)+"...", missing)
}

func TestHighlight(t *testing.T) {
	m := NewMatcher([]string{"go"}, "AND")
	out := m.Highlight("Go and go-routines", func(s string) string { return "[" + s + "]" })
	assert.Equal(t, "[Go] and [go]-routines", out)
}
