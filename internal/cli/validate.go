package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figgo/figgo/internal/builder"
	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/source"
	"github.com/figgo/figgo/internal/validate"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the success payload for JSON output.
type ValidateResult struct {
	Component  string   `json:"component"`
	OutputHash string   `json:"outputHash"`
	Fixed      []string `json:"fixed,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <manifest.yaml>",
		Short: "Compile and validate without writing files",
		Long: `Run the compile pipeline up to and including validation, reporting
every finding, without persisting output or touching the host file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading manifest", err)
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	src := manifest.Source()
	doc, err := src.Document(cmd.Context())
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading document", err)
	}

	icons, err := source.ResolveAssets(cmd.Context(), src, manifest.IconNodeIDs())
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "resolving icon assets", err)
	}

	root, err := builder.Build(doc, manifest.Node, cfg)
	if err != nil {
		return reportPipelineError(formatter, err)
	}
	root = builder.FilterVisible(root)

	gen, err := codegen.Generate(root, icons, manifest.Component)
	if err != nil {
		return reportPipelineError(formatter, err)
	}
	formatter.VerboseLog("Generated %d byte(s) for %s", len(gen.Source), gen.Component)

	report, err := validate.New(cfg).Run(gen, root, icons)
	if err != nil {
		return reportPipelineError(formatter, err)
	}

	payload := ValidateResult{
		Component:  gen.Component,
		OutputHash: gen.Hash(),
		Fixed:      report.Fixed,
	}
	if formatter.Format == "json" {
		return formatter.Success(payload)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s validates cleanly\n", payload.Component)
	if len(payload.Fixed) > 0 {
		fmt.Fprintf(formatter.Writer, "  autofixes: %v\n", payload.Fixed)
	}
	return nil
}
