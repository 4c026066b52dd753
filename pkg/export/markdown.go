// Package export renders chat transcripts for humans.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Transcript is the renderable view of a session.
type Transcript struct {
	Title        string
	Model        string
	SystemPrompt string
	CreatedAt    time.Time
	LastActive   time.Time
	Messages     []Message
}

type Message struct {
	Role      string
	Text      string
	Images    int
	Version   int
	Timestamp time.Time
}

// Options configures how transcripts are rendered
type Options struct {
	IncludeSystemPrompt bool
	IncludeTimestamps   bool
}

func DefaultOptions() Options {
	return Options{
		IncludeSystemPrompt: true,
		IncludeTimestamps:   true,
	}
}

// Markdown renders a transcript as a Markdown document.
func Markdown(t Transcript, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString("\n\n")

	if t.Model != "" {
		fmt.Fprintf(&sb, "**Model:** %s\n", t.Model)
	}
	fmt.Fprintf(&sb, "**Created:** %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Last active:** %s\n", t.LastActive.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Messages:** %d\n", len(t.Messages))

	if opts.IncludeSystemPrompt && strings.TrimSpace(t.SystemPrompt) != "" {
		sb.WriteString("\n> **System prompt:** ")
		sb.WriteString(strings.ReplaceAll(strings.TrimSpace(t.SystemPrompt), "\n", "\n> "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n---\n\n")

	for i, msg := range t.Messages {
		sb.WriteString("## ")
		sb.WriteString(roleTitle(msg.Role))
		if opts.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Local().Format("15:04:05"))
			sb.WriteString(")")
		}
		if msg.Version > 1 {
			fmt.Fprintf(&sb, " _edited v%d_", msg.Version)
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")
		if msg.Images > 0 {
			fmt.Fprintf(&sb, "\n_[%d image(s) attached]_\n", msg.Images)
		}

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

func roleTitle(role string) string {
	switch role {
	case "assistant":
		return "Assistant"
	case "system":
		return "System"
	default:
		return "User"
	}
}

// FileName builds a filesystem-safe export name from a title.
func FileName(title, ext string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('_')
		}
	}
	name := strings.Trim(sb.String(), "_")
	if name == "" {
		name = "chat"
	}
	if len(name) > 60 {
		name = name[:60]
	}
	return name + "." + ext
}
