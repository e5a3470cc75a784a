package commands

import (
	"biolink/cmd/filterctl/output"
	"biolink/internal/contentfilter"

	"github.com/spf13/cobra"
)

func newWordsCmd(load func() (*contentfilter.Filter, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "Print every blocked word, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load()
			if err != nil {
				return err
			}
			for _, w := range f.AllBlockedWords() {
				output.Line(cmd.OutOrStdout(), w)
			}
			return nil
		},
	}
}
