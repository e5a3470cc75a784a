package commands

import (
	"strings"

	"biolink/cmd/filterctl/output"
	"biolink/internal/contentfilter"

	"github.com/spf13/cobra"
)

func newCheckCmd(load func() (*contentfilter.Filter, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "check <text...>",
		Short: "Check text against the filter",
		Long: `Run the filter on the given text and print the result. Arguments are
joined with spaces. Exits with status 1 when the text is blocked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load()
			if err != nil {
				return err
			}
			res := f.Check(strings.Join(args, " "))
			if res.IsClean {
				output.Clean(cmd.OutOrStdout())
				return nil
			}
			output.Blocked(cmd.OutOrStdout(), string(res.Reason), res.Category, res.MatchedWord)
			return errBlocked
		},
	}
}
