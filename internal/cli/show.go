package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wpvol/internal/statefile"
	"github.com/roach88/wpvol/internal/streamprops"
)

// ShowEntry is the JSON form of one state-file entry.
type ShowEntry struct {
	Key               string                 `json:"key"`
	Category          string                 `json:"category"`
	SelectionProperty string                 `json:"selection_property"`
	Properties        streamprops.Properties `json:"properties"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [app_name]",
		Short: "Print entries of the state file",
		Long: `Parse the state file and print its entries in file order, as they
would be written back. With an app name, print only the matching entry.

Comment lines are not shown; they are dropped whenever wpvol rewrites the file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	path, err := statePath(opts, "")
	if err != nil {
		return formatter.Fail(err)
	}

	s, err := statefile.Load(path)
	if err != nil {
		return formatter.Fail(err)
	}

	entries := s.Entries()
	if len(args) == 1 {
		e, ok := s.Lookup(args[0])
		if !ok {
			_ = formatter.Error(CLIError{Code: ErrCodeGeneric, Message: fmt.Sprintf("no entry for %q in %s", args[0], path)})
			return NewExitError(ExitFailure, fmt.Sprintf("no entry for %q", args[0]))
		}
		entries = []*streamprops.Entry{e}
	}

	shown := make([]ShowEntry, len(entries))
	lines := make([]string, len(entries))
	for i, e := range entries {
		line, err := e.Line()
		if err != nil {
			return formatter.Fail(err)
		}
		lines[i] = line
		shown[i] = ShowEntry{
			Key:               e.Key(),
			Category:          e.Category.Label(),
			SelectionProperty: e.SelectionProperty,
			Properties:        e.Properties,
		}
	}

	if len(lines) == 0 {
		return formatter.Success(shown, "(no entries)")
	}
	return formatter.Success(shown, strings.Join(lines, "\n"))
}
