package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wpvol/internal/engine"
	"github.com/roach88/wpvol/internal/plan"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Check bool
}

// ApplyResult is the JSON payload of the apply command.
type ApplyResult struct {
	File    string          `json:"file"`
	Changed bool            `json:"changed"`
	Results []engine.Result `json:"results"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Apply a YAML plan of volume requests",
		Long: `Apply every task of a YAML plan against one load of the state file.

The plan is validated before the state file is read; one invalid task
rejects the whole plan. The file is written at most once.

Plan format:
  file: ./stream-properties   # optional, --file takes precedence
  tasks:
    - app_name: firefox
      volume: 0.6
      description: browser a bit quieter`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "report what would change without writing")

	return cmd
}

func runApply(opts *ApplyOptions, planPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	p, err := plan.Load(planPath)
	if err != nil {
		return formatter.Fail(err)
	}
	logger.Debug("plan loaded", "path", planPath, "tasks", len(p.Tasks))

	path, err := statePath(opts.RootOptions, p.File)
	if err != nil {
		return formatter.Fail(err)
	}

	eng, closeHistory, err := newEngine(opts.RootOptions, path, opts.Check, logger)
	defer closeHistory()
	if err != nil {
		return formatter.Fail(err)
	}

	results, err := eng.ApplyAll(cmd.Context(), p.Requests())
	if err != nil {
		return formatter.Fail(err)
	}

	out := ApplyResult{File: path, Results: results}
	lines := make([]string, len(results))
	for i, r := range results {
		out.Changed = out.Changed || r.Changed
		lines[i] = resultLine(r)
	}

	return formatter.Success(out, strings.Join(lines, "\n"))
}
