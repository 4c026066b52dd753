package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	md := Markdown(Transcript{
		Title:        "Trip planning",
		Model:        "gpt-4o",
		SystemPrompt: "You are helpful.\nBe short.",
		CreatedAt:    ts,
		LastActive:   ts,
		Messages: []Message{
			{Role: "user", Text: "Where to go?", Images: 1, Version: 2, Timestamp: ts},
			{Role: "assistant", Text: "Lisbon.", Timestamp: ts.Add(time.Minute)},
		},
	}, DefaultOptions())

	assert.True(t, strings.HasPrefix(md, "# Trip planning\n\n"))
	assert.Contains(t, md, "**Model:** gpt-4o\n")
	assert.Contains(t, md, "**Messages:** 2\n")
	assert.Contains(t, md, "> **System prompt:** You are helpful.\n> Be short.\n")
	assert.Contains(t, md, "## User (10:00:00) _edited v2_\n\nWhere to go?\n")
	assert.Contains(t, md, "_[1 image(s) attached]_")
	assert.Contains(t, md, "## Assistant (10:01:00)\n\nLisbon.\n")
	assert.Equal(t, 2, strings.Count(md, "---"))
}

func TestMarkdownWithoutExtras(t *testing.T) {
	md := Markdown(Transcript{
		Title:        "t",
		SystemPrompt: "secret",
		Messages:     []Message{{Role: "user", Text: "hi", Timestamp: time.Now()}},
	}, Options{})

	assert.NotContains(t, md, "secret")
	assert.Contains(t, md, "## User\n\nhi\n")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "trip_planning_2024.md", FileName("  Trip planning: 2024! ", "md"))
	assert.Equal(t, "chat.json", FileName("???", "json"))
}
