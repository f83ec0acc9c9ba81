// Package cli wires the figgo commands: generate, validate, merge, runs.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/figgo/figgo/internal/builder"
	"github.com/figgo/figgo/internal/config"
	"github.com/figgo/figgo/internal/merge"
	"github.com/figgo/figgo/internal/pipeline"
	"github.com/figgo/figgo/internal/store"
	"github.com/figgo/figgo/internal/validate"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // optional CUE config file
	DBPath     string // run log database; empty disables recording
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the figgo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "figgo",
		Short: "figgo - deterministic design-to-code compiler",
		Long:  "Compiles design-tool node trees to validated TSX components and merges them into a host application.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to figgo config (CUE)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to run log database (omit to disable recording)")

	// Add subcommands
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

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

// loadConfig resolves the effective config: the --config file when given,
// defaults otherwise.
func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(opts.ConfigPath)
}

// newLogger builds the CLI logger. Quiet unless --verbose.
func newLogger(opts *RootOptions) *zap.Logger {
	if !opts.Verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openStore opens the run log when --db is set. Returns nil when disabled.
func openStore(opts *RootOptions) (*store.Store, error) {
	if opts.DBPath == "" {
		return nil, nil
	}
	return store.Open(opts.DBPath)
}

// reportPipelineError renders a pipeline failure and maps it onto the CLI
// exit code contract: validation failures and merge conflicts exit 1, bad
// input exits 2.
func reportPipelineError(formatter *OutputFormatter, err error) error {
	var inputErr *builder.InputError
	if errors.As(err, &inputErr) {
		_ = formatter.Error(inputErr.Code, inputErr.Message, nil)
		return WrapExitError(ExitCommandError, inputErr.Message, err)
	}
	if valErr, ok := validate.AsValidationError(err); ok {
		return reportValidationFailure(formatter, valErr.Report)
	}
	var conflict *merge.ConflictError
	if errors.As(err, &conflict) {
		_ = formatter.Error(conflict.Code, conflict.Message, nil)
		return WrapExitError(ExitFailure, conflict.Message, err)
	}
	stage := "pipeline"
	if runErr, ok := pipeline.AsRunError(err); ok {
		stage = string(runErr.Stage)
	}
	_ = formatter.Error("E001", err.Error(), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s failed", stage), err)
}

// reportValidationFailure prints every finding, then exits 1.
func reportValidationFailure(formatter *OutputFormatter, report *validate.Report) error {
	if formatter.Format == "json" {
		details := struct {
			Fixed    []string           `json:"fixed,omitempty"`
			Findings []validate.Finding `json:"findings"`
		}{Fixed: report.Fixed, Findings: report.Findings}
		_ = formatter.Error("V000", "validation failed", details)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(report.Findings)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, f := range report.Findings {
		fmt.Fprintf(formatter.Writer, "  %s\n", f.String())
	}
	if len(report.Fixed) > 0 {
		fmt.Fprintf(formatter.Writer, "\nAutofix passes applied: %v\n", report.Fixed)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(report.Findings)))
}
