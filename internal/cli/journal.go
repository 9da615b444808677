package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/hsmx/internal/production"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Journal   string
	MachineID string
	Limit     int
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recent journal entries",
		Long: `Print the most recent evaluations recorded by "hsmx run --journal",
newest first.

Example:
  hsmx journal --journal ./hsmx.db --limit 5`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJournal(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal")
	cmd.Flags().StringVar(&opts.MachineID, "id", "", "only show entries of this machine")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of entries")

	return cmd
}

func printJournal(cmd *cobra.Command, opts *JournalOptions) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	if opts.Journal == "" {
		opts.Journal = opts.Config.Journal
	}
	if opts.Journal == "" {
		return WrapExitError(ExitCommandError, "no journal configured", nil)
	}
	if _, err := os.Stat(opts.Journal); err != nil {
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	journal, err := production.OpenJournal(opts.Journal, opts.Logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer journal.Close()

	entries, err := journal.Recent(ctx, opts.MachineID, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read journal", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		status := "ok"
		if e.Failed() {
			status = "error: " + e.Err
		}
		fmt.Fprintf(out, "%s %s %s %s -> %s (%s)\n",
			e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			e.MachineID,
			e.Event,
			path(e.Before),
			path(e.After),
			status,
		)
		for _, t := range e.Transitions {
			fmt.Fprintf(out, "  %s\n", t.Transition)
		}
		if len(e.Results) > 0 {
			fmt.Fprintf(out, "  results: %s\n", strings.Join(e.Results.Keys(), ", "))
		}
	}
	return nil
}
