package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figgo/figgo/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit int
}

// NewRunsCommand creates the runs command for inspecting the run log.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Inspect recorded pipeline runs",
		Long: `List recent pipeline runs from the run log, or show one run in
full when an id is given. Requires --db.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(opts, args[0], cmd)
			}
			return runListRuns(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to list")

	return cmd
}

func runsFormatter(opts *RunsOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func runsStore(opts *RunsOptions, formatter *OutputFormatter) (*store.Store, error) {
	if opts.DBPath == "" {
		_ = formatter.Error("E001", "runs requires --db", nil)
		return nil, NewExitError(ExitCommandError, "runs requires --db")
	}
	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "opening run log", err)
	}
	return st, nil
}

func runListRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := runsFormatter(opts, cmd)
	st, err := runsStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %-18s %s (%s)\n",
			run.ID[:8], run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Status, run.Component, run.NodeID)
	}
	return nil
}

func runShowRun(opts *RunsOptions, id string, cmd *cobra.Command) error {
	formatter := runsFormatter(opts, cmd)
	st, err := runsStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error("E001", fmt.Sprintf("no run with id %s", id), nil)
		return NewExitError(ExitCommandError, "run not found")
	}
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "fetching run", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(run)
	}
	fmt.Fprintf(formatter.Writer, "Run %s\n", run.ID)
	fmt.Fprintf(formatter.Writer, "  created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(formatter.Writer, "  node:      %s\n", run.NodeID)
	fmt.Fprintf(formatter.Writer, "  component: %s\n", run.Component)
	fmt.Fprintf(formatter.Writer, "  status:    %s\n", run.Status)
	if run.OutputHash != "" {
		fmt.Fprintf(formatter.Writer, "  hash:      %s\n", run.OutputHash)
	}
	for _, f := range run.Findings {
		fmt.Fprintf(formatter.Writer, "  finding:   %s\n", f.String())
	}
	return nil
}
