package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/figgo/figgo/internal/merge"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Component  string
	ImportPath string
	Mode       string
	DryRun     bool
}

// NewMergeCommand creates the merge command. It installs an already
// generated component into a host file without recompiling anything.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge <host.tsx>",
		Short: "Merge a generated component usage into a host file",
		Long: `Install or update the import and usage of a generated component
inside the host file's managed region. Running the same merge twice
leaves the file unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Component, "component", "", "component identifier (required)")
	cmd.Flags().StringVar(&opts.ImportPath, "import", "", "host-relative import path (required)")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(merge.ModeAppend), "merge mode (append|replace)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the merged file instead of writing it")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("import")

	return cmd
}

func runMerge(opts *MergeOptions, hostPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	hostText, err := os.ReadFile(hostPath)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading host file", err)
	}

	merged, err := merge.Merge(string(hostText), merge.Options{
		Component:  opts.Component,
		ImportPath: opts.ImportPath,
		Mode:       merge.Mode(opts.Mode),
		Stage:      cfg.Stage,
		HostDir:    filepath.Dir(hostPath),
	})
	if err != nil {
		return reportPipelineError(formatter, err)
	}

	if opts.DryRun {
		fmt.Fprint(formatter.Writer, merged)
		return nil
	}
	if err := os.WriteFile(hostPath, []byte(merged), 0644); err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "writing host file", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"host":      hostPath,
			"component": opts.Component,
			"mode":      opts.Mode,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Merged %s into %s\n", opts.Component, hostPath)
	return nil
}
