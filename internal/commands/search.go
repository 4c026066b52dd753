package commands

import (
	"strings"

	"rocktalk-be/internal/dto"

	"github.com/spf13/cobra"
)

var searchLimitFlag int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search session titles and messages",
	Long: `Search accepts the same syntax as the web search box:

  /title     search titles only
  /content   search message content only
  /or        match any term instead of all
  /private   include private sessions
  /from:YYYY-MM-DD  /to:YYYY-MM-DD   date range
  "a phrase" quoted terms stay together; * is a wildcard`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.container.SearchService.Search(cmd.Context(), &dto.SearchRequest{
			Query:          strings.Join(args, " "),
			IncludePrivate: includePrivateFlag,
			Limit:          searchLimitFlag,
		})
		if err != nil {
			return err
		}
		writeResults(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "n", 50, "Maximum sessions to return")
}
