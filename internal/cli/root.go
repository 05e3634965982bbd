package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/wpvol/internal/engine"
	"github.com/roach88/wpvol/internal/statefile"
	"github.com/roach88/wpvol/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	File    string // state file; empty means statefile.DefaultPath
	History string // SQLite history database; empty disables history

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// errHistory marks failures opening the history database.
var errHistory = errors.New("history database")

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the wpvol CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wpvol",
		Short: "Manage per-application volumes in WirePlumber's stream-properties",
		Long: `wpvol sets per-application stream volumes in the WirePlumber
stream-properties state file.

Requests are idempotent: the file is only rewritten when a volume actually
moves (by more than 0.001) or a new application entry is created. Use --check
to see what would change without writing anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeUsage, msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "stream-properties file (default $XDG_STATE_HOME/wireplumber/stream-properties)")
	cmd.PersistentFlags().StringVar(&opts.History, "history", "", "record requests in this SQLite database")

	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the text logger used by commands. Logs go to stderr so
// they never mix with JSON output.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// statePath picks the state file: --file, then fallback, then the default.
func statePath(opts *RootOptions, fallback string) (string, error) {
	if opts.File != "" {
		return opts.File, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return statefile.DefaultPath()
}

// newEngine wires an engine for path. The returned close func releases the
// history database and is always non-nil.
func newEngine(opts *RootOptions, path string, dryRun bool, logger *slog.Logger) (*engine.Engine, func(), error) {
	engineOpts := []engine.Option{
		engine.WithDryRun(dryRun),
		engine.WithLogger(logger),
	}
	if opts.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDGenerator(opts.RunIDs))
	}

	closeFn := func() {}
	if opts.History != "" {
		hist, err := store.Open(opts.History)
		if err != nil {
			return nil, closeFn, fmt.Errorf("%w: %w", errHistory, err)
		}
		engineOpts = append(engineOpts, engine.WithRecorder(hist))
		closeFn = func() {
			if err := hist.Close(); err != nil {
				logger.Error("error closing history database", "error", err)
			}
		}
	}

	return engine.New(path, engineOpts...), closeFn, nil
}
