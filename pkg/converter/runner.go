// Package converter runs a dialect over directories of agent and skill
// definitions and writes the results.
package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/logger"
	"github.com/theTyster/context-focused-claude/pkg/presenter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// Target is one kind of definition to convert, read from InputDir and
// written under OutputDir
type Target struct {
	Kind      frontmatter.Kind
	InputDir  string
	OutputDir string
}

// Runner converts definitions file by file. Each file is parsed, mapped,
// rendered and written before the next one is read.
type Runner struct {
	transcoder *transcode.Transcoder
	presenter  presenter.Presenter
	exclude    []string
	dryRun     bool
	diff       bool
	verify     bool
}

// Option configures a Runner
type Option func(*Runner) error

// WithExclude skips sources whose name or path matches any doublestar pattern
func WithExclude(patterns ...string) Option {
	return func(r *Runner) error {
		if err := ValidatePatterns(patterns); err != nil {
			return err
		}
		r.exclude = patterns
		return nil
	}
}

// WithDryRun converts without writing any output
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) error {
		r.dryRun = dryRun
		return nil
	}
}

// WithDiff shows a unified diff against the existing output in dry-run mode
func WithDiff(diff bool) Option {
	return func(r *Runner) error {
		r.diff = diff
		return nil
	}
}

// WithVerify re-reads every rendered document before it is written and
// fails the file when its header or JSON does not parse
func WithVerify(verify bool) Option {
	return func(r *Runner) error {
		r.verify = verify
		return nil
	}
}

// WithPresenter sets where progress is reported
func WithPresenter(p presenter.Presenter) Option {
	return func(r *Runner) error {
		r.presenter = p
		return nil
	}
}

// NewRunner creates a runner for the given dialect
func NewRunner(dialect *transcode.Dialect, opts ...Option) (*Runner, error) {
	r := &Runner{
		transcoder: transcode.New(dialect),
		presenter:  presenter.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Dialect returns the dialect the runner converts to
func (r *Runner) Dialect() *transcode.Dialect {
	return r.transcoder.Dialect()
}

// Run converts every target. It fails only when none of the input
// directories exist; missing directories for some targets are reported as
// warnings and per-file failures are collected in the report.
func (r *Runner) Run(ctx context.Context, targets []Target) (*Report, error) {
	report := &Report{}

	var present []Target
	for _, t := range targets {
		info, err := os.Stat(t.InputDir)
		if err != nil || !info.IsDir() {
			msg := fmt.Sprintf("%s directory not found: %s", kindTitle(t.Kind), t.InputDir)
			r.presenter.Warning(msg)
			report.warn(msg)
			continue
		}
		present = append(present, t)
	}

	if len(present) == 0 {
		dirs := make([]string, 0, len(targets))
		for _, t := range targets {
			dirs = append(dirs, t.InputDir)
		}
		return report, errors.Wrapf(ErrMissingInputDirectory, "%v", dirs)
	}

	for _, t := range present {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		targetReport, err := r.RunTarget(ctx, t)
		report.Merge(targetReport)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// RunTarget converts every definition of one kind in t.InputDir
func (r *Runner) RunTarget(ctx context.Context, t Target) (*Report, error) {
	report := &Report{}

	r.presenter.Section(fmt.Sprintf("Converting %ss", kindTitle(t.Kind)))
	r.presenter.Info(fmt.Sprintf("Input directory: %s", t.InputDir))

	sources, err := Discover(t.InputDir, t.Kind, r.exclude)
	if err != nil {
		return report, err
	}

	if len(sources) == 0 {
		r.presenter.Info(fmt.Sprintf("No %ss found.", t.Kind))
		return report, nil
	}
	r.presenter.Info(fmt.Sprintf("Found %d %s(s) to convert:", len(sources), t.Kind))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r.convertInto(ctx, src, t.OutputDir, report)
	}

	return report, nil
}

// ConvertSource converts a single definition, as watch mode does for each
// changed file. Excluded definitions are skipped and not counted.
func (r *Runner) ConvertSource(ctx context.Context, src Source, outputDir string) *Report {
	report := &Report{}
	if Excluded(r.exclude, src) {
		logger.G(ctx).WithField("file", src.Path).Debug("skipping excluded definition")
		return report
	}
	r.convertInto(ctx, src, outputDir, report)
	return report
}

func (r *Runner) convertInto(ctx context.Context, src Source, outputDir string, report *Report) {
	log := logger.G(ctx).WithField("file", src.Path).WithField("kind", src.Kind)

	outPath, unknown, err := r.convert(src, outputDir)
	for _, tool := range unknown {
		msg := fmt.Sprintf("Unknown tool in %s: %s", src.Name, tool)
		r.presenter.Warning(msg)
		report.warn(msg)
	}

	if err != nil {
		log.WithError(err).Debug("conversion failed")
		r.presenter.Error(err, fmt.Sprintf("failed to convert %s", src.Name))
		report.failure(err)
		return
	}

	log.WithField("output", outPath).Debug("converted definition")
	if r.dryRun {
		r.presenter.Success(fmt.Sprintf("Would write: %s", outPath))
	} else {
		r.presenter.Success(fmt.Sprintf("Saved to: %s", outPath))
	}
	report.success(outPath)
}

func (r *Runner) convert(src Source, outputDir string) (string, []string, error) {
	content, err := os.ReadFile(src.Path)
	if err != nil {
		return "", nil, errors.Wrapf(err, "failed to read %s", src.Path)
	}

	var def *frontmatter.Definition
	if src.Kind == frontmatter.KindSkill {
		def, err = frontmatter.ParseSkill(src.Path, src.Name, string(content))
	} else {
		def, err = frontmatter.ParseAgent(src.Path, string(content))
	}
	if err != nil {
		return "", nil, err
	}

	result, err := r.transcoder.Convert(def)
	if err != nil {
		return "", nil, err
	}

	outPath := filepath.Join(outputDir, result.Path)

	if r.verify {
		if err := r.verifyOutput(result.Content); err != nil {
			return "", result.UnknownTools, errors.Wrapf(err, "rendered %s does not verify", outPath)
		}
	}

	if r.dryRun {
		if r.diff && !r.presenter.IsQuiet() {
			r.presenter.Diff(diffAgainst(outPath, result.Content))
		}
		return outPath, result.UnknownTools, nil
	}

	if err := writeOutput(outPath, result.Content); err != nil {
		return "", result.UnknownTools, err
	}

	return outPath, result.UnknownTools, nil
}

func (r *Runner) verifyOutput(content []byte) error {
	switch r.Dialect().Format {
	case transcode.FormatJSON:
		if !json.Valid(content) {
			return errors.New("output is not valid JSON")
		}
		return nil
	default:
		return frontmatter.Verify(content)
	}
}

func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}
	if err := lockedfile.Write(path, bytes.NewReader(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// diffAgainst diffs the current file at path, empty when missing, with content
func diffAgainst(path string, content []byte) string {
	existing, err := os.ReadFile(path)
	if err != nil {
		existing = nil
	}
	return udiff.Unified(path, path, string(existing), string(content))
}

func kindTitle(kind frontmatter.Kind) string {
	switch kind {
	case frontmatter.KindSkill:
		return "Skill"
	default:
		return "Agent"
	}
}
