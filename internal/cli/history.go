package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wpvol/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	App   string
	RunID string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded volume requests",
		Long: `List requests recorded in the --history database, oldest first.

Example:
  wpvol --history ~/.local/state/wpvol.db history --app firefox --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.App, "app", "", "only requests for this app name")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "only requests from this run ID")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "show only the most recent N requests")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.History == "" {
		_ = formatter.Error(CLIError{Code: ErrCodeUsage, Message: "--history is required"})
		return NewExitError(ExitCommandError, "--history is required")
	}

	hist, err := store.Open(opts.History)
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %w", errHistory, err))
	}
	defer hist.Close()

	changes, err := hist.ListChanges(cmd.Context(), store.Filter{
		AppName: opts.App,
		RunID:   opts.RunID,
		Limit:   opts.Limit,
	})
	if err != nil {
		return formatter.Fail(fmt.Errorf("%w: %w", errHistory, err))
	}

	if len(changes) == 0 {
		return formatter.Success(changes, "(no history)")
	}

	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = historyLine(c)
	}
	return formatter.Success(changes, strings.Join(lines, "\n"))
}

func historyLine(c store.Change) string {
	flags := ""
	if c.Changed {
		flags += " changed"
	}
	if c.DryRun {
		flags += " check"
	}
	return fmt.Sprintf("%d\t%s\t%s\t%q\t%v%s",
		c.Seq,
		c.RecordedAt.UTC().Format(time.RFC3339),
		c.RunID,
		c.AppName,
		c.Volume,
		flags,
	)
}
