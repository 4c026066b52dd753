package dto

import (
	"time"

	"github.com/google/uuid"
)

// SearchRequest either carries a raw Query (parsed like the search box) or
// explicit filters.
type SearchRequest struct {
	Query          string     `json:"query"`
	Terms          []string   `json:"terms"`
	Operator       string     `json:"operator" validate:"omitempty,oneof=AND OR and or"`
	SearchTitles   bool       `json:"search_titles"`
	SearchContent  bool       `json:"search_content"`
	From           *time.Time `json:"from"`
	To             *time.Time `json:"to"`
	IncludePrivate bool       `json:"include_private"`
	Limit          int        `json:"limit" validate:"gte=0,lte=500"`
}

type SearchMatch struct {
	MessageIndex int    `json:"message_index"`
	Role         string `json:"role"`
	Snippet      string `json:"snippet"`
}

type SearchResultResponse struct {
	Session    *SessionResponse `json:"session"`
	TitleMatch bool             `json:"title_match"`
	Matches    []SearchMatch    `json:"matches"`
}

type SearchResponse struct {
	Terms    []string                `json:"terms"`
	Operator string                  `json:"operator"`
	Results  []*SearchResultResponse `json:"results"`
}

type SessionRangeRequest struct {
	From           time.Time
	To             time.Time
	IncludePrivate bool
}

type SessionIdsRequest struct {
	Ids []uuid.UUID `json:"ids"`
}
