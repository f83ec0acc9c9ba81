// Package pipeline runs one request end to end: build IR, generate code,
// validate, merge, persist, record. One request is one synchronous run; the
// IR tree is built once and read-only for every downstream stage.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/figgo/figgo/internal/builder"
	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/config"
	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
	"github.com/figgo/figgo/internal/merge"
	"github.com/figgo/figgo/internal/store"
	"github.com/figgo/figgo/internal/validate"
)

// Pipeline is the configured compiler. Construct once, run per request.
type Pipeline struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store // optional; nil disables run recording
}

// New creates a pipeline. The store may be nil.
func New(cfg config.Config, log *zap.Logger, st *store.Store) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log, store: st}
}

// Request is one design-to-code compilation request.
type Request struct {
	Doc       *design.Document
	TargetID  string
	Component string
	// ImportPath is the host-relative module path for the generated file,
	// e.g. "./components/HeroCard".
	ImportPath string
	Icons      map[string]codegen.IconAsset

	// OutputDir, when set, persists the generated file there after
	// validation passes.
	OutputDir string
	// HostPath, when set, merges the usage into that file and rewrites it.
	HostPath  string
	MergeMode merge.Mode
	Overlay   *merge.Overlay
}

// Result is the outcome of a successful run.
type Result struct {
	Root       *ir.Node
	Generated  *codegen.GeneratedFile
	Report     *validate.Report
	MergedHost string // rewritten host text, empty when no host was given
	Hash       string
}

// Run executes the request. Failures surface as typed errors wrapped in a
// *RunError naming the failed stage; nothing is persisted on failure.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	log := p.log.With(zap.String("node", req.TargetID), zap.String("component", req.Component))

	root, err := builder.Build(req.Doc, req.TargetID, p.cfg)
	if err != nil {
		return nil, p.fail(ctx, req, StageBuild, store.StatusInputError, nil, err)
	}
	root = builder.FilterVisible(root)
	log.Debug("IR built")

	gen, err := codegen.Generate(root, req.Icons, req.Component)
	if err != nil {
		return nil, p.fail(ctx, req, StageGenerate, store.StatusInputError, nil, err)
	}
	log.Debug("code generated", zap.Int("bytes", len(gen.Source)))

	report, err := validate.New(p.cfg).Run(gen, root, req.Icons)
	if err != nil {
		return nil, p.fail(ctx, req, StageValidate, store.StatusValidationFailed, report, err)
	}
	if len(report.Fixed) > 0 {
		log.Debug("autofixes applied", zap.Strings("passes", report.Fixed))
	}

	result := &Result{
		Root:      root,
		Generated: gen,
		Report:    report,
		Hash:      gen.Hash(),
	}

	if req.HostPath != "" {
		hostText, err := os.ReadFile(req.HostPath)
		if err != nil {
			return nil, p.fail(ctx, req, StageMerge, store.StatusInputError, report,
				fmt.Errorf("reading host file: %w", err))
		}
		merged, err := merge.Merge(string(hostText), merge.Options{
			Component:  gen.Component,
			ImportPath: req.ImportPath,
			Mode:       req.MergeMode,
			Overlay:    req.Overlay,
			Stage:      p.cfg.Stage,
			HostDir:    filepath.Dir(req.HostPath),
		})
		if err != nil {
			// Merge conflicts leave the host file untouched.
			return nil, p.fail(ctx, req, StageMerge, store.StatusMergeConflict, report, err)
		}
		result.MergedHost = merged
	}

	// Persist only after everything above succeeded.
	if req.OutputDir != "" {
		if err := writeFile(filepath.Join(req.OutputDir, gen.FileName), gen.Source); err != nil {
			return nil, p.fail(ctx, req, StagePersist, store.StatusInputError, report, err)
		}
	}
	if req.HostPath != "" {
		if err := writeFile(req.HostPath, result.MergedHost); err != nil {
			return nil, p.fail(ctx, req, StagePersist, store.StatusInputError, report, err)
		}
	}

	p.record(ctx, req, store.StatusOK, report, result.Hash)
	log.Info("run complete", zap.String("hash", result.Hash))
	return result, nil
}

func (p *Pipeline) fail(ctx context.Context, req Request, stage Stage, status string, report *validate.Report, err error) error {
	var findings []validate.Finding
	if report != nil {
		findings = report.Findings
	}
	p.recordFindings(ctx, req, status, findings)
	p.log.Warn("run failed",
		zap.String("node", req.TargetID),
		zap.String("stage", string(stage)),
		zap.Error(err))
	return &RunError{Stage: stage, Err: err}
}

func (p *Pipeline) record(ctx context.Context, req Request, status string, report *validate.Report, hash string) {
	if p.store == nil {
		return
	}
	run := &store.Run{
		NodeID:     req.TargetID,
		Component:  req.Component,
		Status:     status,
		OutputHash: hash,
	}
	if report != nil {
		run.Findings = report.Findings
	}
	if err := p.store.RecordRun(ctx, run); err != nil {
		p.log.Warn("recording run failed", zap.Error(err))
	}
}

func (p *Pipeline) recordFindings(ctx context.Context, req Request, status string, findings []validate.Finding) {
	if p.store == nil {
		return
	}
	run := &store.Run{
		NodeID:    req.TargetID,
		Component: req.Component,
		Status:    status,
		Findings:  findings,
	}
	if err := p.store.RecordRun(ctx, run); err != nil {
		p.log.Warn("recording run failed", zap.Error(err))
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
