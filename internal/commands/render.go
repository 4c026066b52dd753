package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rocktalk-be/internal/dto"
	"rocktalk-be/pkg/search"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var (
	titleStyle  = color.New(color.FgCyan, color.Bold)
	dimStyle    = color.New(color.Faint)
	matchStyle  = color.New(color.FgYellow, color.Bold)
	errorStyle  = color.New(color.FgRed)
	privateMark = color.New(color.FgMagenta).Sprint("private")
)

func errorText(err error) string {
	return errorStyle.Sprintf("Error: %v", err)
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeSessions(w io.Writer, sessions []*dto.SessionResponse) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tMODEL\tLAST ACTIVE\t")
	for _, s := range sessions {
		flag := ""
		if s.IsPrivate {
			flag = privateMark
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Id, shorten(s.Title, 40), s.Config.ModelId, s.LastActive.Local().Format("2006-01-02 15:04"), flag)
	}
	_ = tw.Flush()
}

func writeTemplates(w io.Writer, templates []*dto.TemplateResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tMODEL\tTEMP\tDEFAULT")
	for _, t := range templates {
		def := ""
		if t.IsDefault {
			def = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", t.Id, t.Name, t.Config.ModelId, t.Config.Temperature, def)
	}
	_ = tw.Flush()
}

// writeResults prints each hit with its matching terms highlighted.
func writeResults(w io.Writer, res *dto.SearchResponse) {
	if len(res.Results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}

	matcher := search.NewMatcher(res.Terms, res.Operator)
	mark := func(s string) string { return matchStyle.Sprint(s) }

	for _, r := range res.Results {
		title := r.Session.Title
		if r.TitleMatch {
			title = matcher.Highlight(title, mark)
		}
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Sprint(title), dimStyle.Sprint(r.Session.Id))
		for _, m := range r.Matches {
			fmt.Fprintf(w, "  #%d %-9s %s\n", m.MessageIndex, m.Role, matcher.Highlight(m.Snippet, mark))
		}
	}
	fmt.Fprintf(w, "\n%d session(s), terms: %s (%s)\n", len(res.Results), strings.Join(res.Terms, ", "), res.Operator)
}

// renderMarkdown formats a transcript for the terminal. Plain output is used
// when colour is off.
func renderMarkdown(md string, width int) (string, error) {
	if color.NoColor {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
