package search

import (
	"strings"
	"time"
	"unicode"
)

const dateLayout = "2006-01-02"

// Filters holds the terms and switches extracted from a raw search query.
type Filters struct {
	Terms          []string
	Operator       string // "AND" | "OR"
	SearchTitles   bool
	SearchContent  bool
	IncludePrivate bool
	From           time.Time
	To             time.Time
}

// ParseQuery extracts slash commands from the raw query string
// Supported:
// /or -> match any term instead of all terms
// /title -> search session titles only
// /content -> search message content only
// /from:YYYY-MM-DD, /to:YYYY-MM-DD -> date range (to is inclusive of that day)
// /private -> include private sessions
// "quoted phrase" -> a single term
// <text> -> remaining words are terms; "*" is a wildcard
func ParseQuery(raw string) Filters {
	filters := Filters{
		Operator:      "AND",
		SearchTitles:  true,
		SearchContent: true,
	}
	titleOnly, contentOnly := false, false

	for _, part := range tokenize(raw) {
		if part.quoted {
			filters.Terms = append(filters.Terms, part.text)
			continue
		}

		lowerPart := strings.ToLower(part.text)
		switch {
		case lowerPart == "/or":
			filters.Operator = "OR"
		case lowerPart == "/and":
			filters.Operator = "AND"
		case lowerPart == "/title":
			titleOnly = true
		case lowerPart == "/content":
			contentOnly = true
		case lowerPart == "/private":
			filters.IncludePrivate = true
		case strings.HasPrefix(lowerPart, "/from:"):
			if t, err := time.ParseInLocation(dateLayout, strings.TrimPrefix(lowerPart, "/from:"), time.Local); err == nil {
				filters.From = t
			}
		case strings.HasPrefix(lowerPart, "/to:"):
			if t, err := time.ParseInLocation(dateLayout, strings.TrimPrefix(lowerPart, "/to:"), time.Local); err == nil {
				filters.To = t.Add(24*time.Hour - time.Nanosecond)
			}
		default:
			filters.Terms = append(filters.Terms, part.text)
		}
	}

	if titleOnly != contentOnly {
		filters.SearchTitles = titleOnly
		filters.SearchContent = contentOnly
	}
	return filters
}

type token struct {
	text   string
	quoted bool
}

func tokenize(raw string) []token {
	var tokens []token
	var current strings.Builder
	inQuotes := false

	flush := func(quoted bool) {
		if current.Len() > 0 {
			tokens = append(tokens, token{text: current.String(), quoted: quoted})
			current.Reset()
		}
	}

	for _, r := range raw {
		switch {
		case r == '"':
			flush(inQuotes)
			inQuotes = !inQuotes
		case unicode.IsSpace(r) && !inQuotes:
			flush(false)
		default:
			current.WriteRune(r)
		}
	}
	flush(inQuotes)
	return tokens
}
