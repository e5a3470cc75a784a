package commands

import (
	"strings"

	"biolink/cmd/filterctl/output"
	"biolink/internal/contentfilter"

	"github.com/spf13/cobra"
)

func newInfoCmd(load func() (*contentfilter.Filter, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the filter version, categories and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			s := f.Settings()

			output.Header(w, "Content filter "+f.Version())
			output.KeyValue(w, "categories", strings.Join(f.Categories(), ", "))
			output.KeyValue(w, "blocked words", len(f.AllBlockedWords()))
			output.KeyValue(w, "max caps ratio", s.MaxCapsRatio)
			output.KeyValue(w, "min length for caps check", s.MinLengthForCapsCheck)
			output.KeyValue(w, "max repeated chars", s.MaxRepeatedChars)
			output.KeyValue(w, "auto-hide threshold", f.AutoHideThreshold())
			return nil
		},
	}
}
