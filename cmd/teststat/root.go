package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "teststat [flags] <input>",
		Short:         "Teststat aggregates test-case executions into per build, phase and team statistics",
		Args:          exactlyOneInput,
		RunE:          runReport,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.Flags()
	flags.String("format", "json", "output format (json|yaml|pretty)")
	flags.String("delimiter", ",", "field delimiter of delimited input")
	flags.String("table", "", "table to read from SQLite input")
	flags.Int("workers", 1, "number of build shards aggregated concurrently")
	flags.StringArray("build", nil, "build ids or ranges to include (repeatable)")
	flags.StringArray("phase", nil, "phase ids or ranges to include (repeatable)")
	flags.StringArray("team", nil, "team ids or ranges to include (repeatable)")
	flags.String("log-level", "warning", "level at which to log to stderr")
	flags.Bool("strict", false, "fail when an execution has an unknown result code")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// exactlyOneInput rejects any arity other than one and shows usage on stderr.
// An input file literally named "version" must be passed as "./version".
func exactlyOneInput(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the teststat version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
