package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/wpvol/internal/engine"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	Description string
	Check       bool
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <app_name> <volume>",
		Short: "Set every channel of an application's stream to a volume",
		Long: `Set every channel of an application's stream to a linear volume
between 0.0 and 1.0.

An Output/Audio entry matching application.name is created when the
application has none yet. The file is rewritten only if something changed.

Example:
  wpvol set firefox 0.6
  wpvol set "Music Player" 1.0 --description "full volume for music"
  wpvol set vlc 0.3 --check --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "note recorded with the request")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "report what would change without writing")

	return cmd
}

func runSet(opts *SetOptions, appName, volumeArg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	volume, err := strconv.ParseFloat(volumeArg, 64)
	if err != nil {
		_ = formatter.Error(CLIError{Code: ErrCodeUsage, Message: fmt.Sprintf("invalid volume %q: must be a number between 0.0 and 1.0", volumeArg)})
		return WrapExitError(ExitCommandError, ErrCodeUsage, err)
	}

	path, err := statePath(opts.RootOptions, "")
	if err != nil {
		return formatter.Fail(err)
	}

	eng, closeHistory, err := newEngine(opts.RootOptions, path, opts.Check, logger)
	defer closeHistory()
	if err != nil {
		return formatter.Fail(err)
	}

	res, err := eng.Apply(cmd.Context(), engine.Request{
		AppName:     appName,
		Volume:      volume,
		Description: opts.Description,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(res, resultLine(res))
}

// resultLine renders one result for text output.
func resultLine(res engine.Result) string {
	status := "ok"
	if res.Changed {
		status = "changed"
	}
	if res.DryRun {
		status += " (check)"
	}
	return fmt.Sprintf("%s: %s", status, res.Message)
}
