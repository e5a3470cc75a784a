package commands

import (
	"errors"
	"fmt"
	"os"

	"biolink/internal/contentfilter"

	"github.com/spf13/cobra"
)

// errBlocked makes the process exit non-zero without printing anything more.
var errBlocked = errors.New("content blocked")

// NewRootCmd builds the filterctl command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "filterctl",
		Short: "Inspect and try out the comment content filter",
		Long: `filterctl loads the same content filter configuration as the server and
lets you check text against it or list what it contains.

Without --config the built-in default configuration is used.

Examples:
  filterctl check "is this comment fine?"
  filterctl --config ./filter.json words
  filterctl info`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONTENT_FILTER_PATH"), "Path to a filter configuration JSON file")

	load := func() (*contentfilter.Filter, error) {
		f, err := contentfilter.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load filter: %w", err)
		}
		return f, nil
	}

	root.AddCommand(newCheckCmd(load), newWordsCmd(load), newInfoCmd(load))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := NewRootCmd().Execute()
	if errors.Is(err, errBlocked) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
