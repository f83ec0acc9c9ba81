package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figgo/figgo/internal/pipeline"
	"github.com/figgo/figgo/internal/source"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	DryRun bool
}

// GenerateResult is the success payload for JSON output.
type GenerateResult struct {
	Component  string   `json:"component"`
	FileName   string   `json:"fileName"`
	OutputHash string   `json:"outputHash"`
	Fixed      []string `json:"fixed,omitempty"`
	Merged     bool     `json:"merged"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <manifest.yaml>",
		Short: "Compile a design node to a validated TSX component",
		Long: `Compile the node named by the job manifest into a TSX component.

The document is decoded, the target subtree is canonicalized, code is
generated and validated, and the result is written to the manifest's
output directory. When the manifest names a host file, the component
usage is merged into it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate without writing any files")

	return cmd
}

func runGenerate(opts *GenerateOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
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
	formatter.VerboseLog("Loaded document %q", doc.Name)

	icons, err := source.ResolveAssets(cmd.Context(), src, manifest.IconNodeIDs())
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "resolving icon assets", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening run log", err)
	}
	if st != nil {
		defer st.Close()
	}

	req := pipeline.Request{
		Doc:        doc,
		TargetID:   manifest.Node,
		Component:  manifest.Component,
		ImportPath: manifest.ImportPath,
		Icons:      icons,
		MergeMode:  manifest.MergeMode(),
		Overlay:    manifest.MergeOverlay(),
	}
	if !opts.DryRun {
		req.OutputDir = manifest.OutputDir
		req.HostPath = manifest.Host
	}

	p := pipeline.New(cfg, newLogger(opts.RootOptions), st)
	result, err := p.Run(cmd.Context(), req)
	if err != nil {
		return reportPipelineError(formatter, err)
	}

	payload := GenerateResult{
		Component:  result.Generated.Component,
		FileName:   result.Generated.FileName,
		OutputHash: result.Hash,
		Fixed:      result.Report.Fixed,
		Merged:     result.MergedHost != "",
	}
	if formatter.Format == "json" {
		return formatter.Success(payload)
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %s (%s)\n", payload.FileName, payload.OutputHash[:12])
	if len(payload.Fixed) > 0 {
		fmt.Fprintf(formatter.Writer, "  autofixes: %v\n", payload.Fixed)
	}
	if payload.Merged {
		fmt.Fprintf(formatter.Writer, "  merged into %s\n", manifest.Host)
	}
	if opts.DryRun {
		fmt.Fprintln(formatter.Writer, "  (dry run, nothing written)")
	}
	return nil
}
