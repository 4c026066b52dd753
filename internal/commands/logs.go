package commands

import (
	"fmt"
	"io"
	"strings"

	"rocktalk-be/internal/config"
	"rocktalk-be/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	levelFlag     string
	logsLimitFlag int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent application log entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		entries, err := logger.NewFileLogger(cfg.App.LogFilePath).GetLogs(levelFlag, logsLimitFlag, 0)
		if err != nil {
			return err
		}
		writeLogs(cmd.OutOrStdout(), entries)
		return nil
	},
}

var levelColors = map[string]*color.Color{
	"debug": color.New(color.Faint),
	"info":  color.New(color.FgGreen),
	"warn":  color.New(color.FgYellow),
	"error": color.New(color.FgRed, color.Bold),
}

func writeLogs(w io.Writer, entries []logger.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No log entries.")
		return
	}
	for _, e := range entries {
		level := strings.ToLower(e.Level)
		label := strings.ToUpper(level)
		if c, ok := levelColors[level]; ok {
			label = c.Sprint(label)
		}
		fmt.Fprintf(w, "%s %-5s [%s] %s", dimStyle.Sprint(e.Timestamp), label, e.Module, e.Message)
		for k, v := range e.Details {
			fmt.Fprintf(w, " %s=%v", k, v)
		}
		fmt.Fprintln(w)
	}
}

func init() {
	logsCmd.Flags().StringVarP(&levelFlag, "level", "l", "", "Only show this level (debug, info, warn, error)")
	logsCmd.Flags().IntVarP(&logsLimitFlag, "limit", "n", 50, "Number of entries")
}
