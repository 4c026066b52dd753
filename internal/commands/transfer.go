package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"rocktalk-be/internal/dto"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	formatFlag string
	outputFlag string
)

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export sessions as JSON, or one session as markdown",
	Long: `Export writes the portable JSON format accepted by "rocktalk import".
With no ids every session is exported. --format markdown exports a single
session as a readable transcript.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var data []byte
		switch formatFlag {
		case "markdown", "md":
			if len(ids) != 1 {
				return fmt.Errorf("markdown export takes exactly one session id")
			}
			md, _, err := a.container.TransferService.ExportSessionMarkdown(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			data = []byte(md)
		case "json":
			docs, err := a.container.TransferService.ExportSessions(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if len(docs) == 1 {
				data, err = json.MarshalIndent(docs[0], "", "  ")
			} else {
				data, err = json.MarshalIndent(docs, "", "  ")
			}
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (json, markdown)", formatFlag)
		}

		if outputFlag == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outputFlag)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sessions from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		docs, err := dto.DecodeChatExports(data)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.container.TransferService.ImportSessions(cmd.Context(), docs)
		if err != nil {
			return err
		}
		writeSessions(cmd.OutOrStdout(), res.Imported)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format (json, markdown)")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to file instead of stdout")
}
