package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/imaging"
	"github.com/ironsheep/colorgrid/internal/logging"
)

// FileError attributes a processing failure to one input file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the failure as {"input": ..., "error": ...}.
func (e *FileError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Input string `json:"input"`
		Error string `json:"error"`
	}{e.Path, e.Err.Error()})
}

// Report summarizes a batch run.
type Report struct {
	Files    []*FileResult `json:"files"`
	Failures []*FileError  `json:"failures"`

	// Canceled is set when the run stopped early between two files.
	Canceled bool `json:"canceled,omitempty"`
}

// OK reports whether every file was processed.
func (r *Report) OK() bool {
	return len(r.Failures) == 0 && !r.Canceled
}

// ProcessFunc processes one input file.
type ProcessFunc func(path string, cfg config.Config) (*FileResult, error)

// Runner processes a batch sequentially.
type Runner struct {
	cfg      config.Config
	logger   *slog.Logger
	process  ProcessFunc
	progress func(done, total int)
}

// NewRunner creates a runner for cfg. A nil logger uses slog.Default().
func NewRunner(cfg config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logging.With(logger, logging.ComponentBatch),
		process: ProcessFile,
	}
}

// WithProcessFunc replaces the per-file stage. Used by tests.
func (r *Runner) WithProcessFunc(fn ProcessFunc) *Runner {
	r.process = fn
	return r
}

// OnProgress registers a callback invoked after every file.
func (r *Runner) OnProgress(fn func(done, total int)) *Runner {
	r.progress = fn
	return r
}

// Run validates the configuration, expands the inputs and processes every
// file in order.
//
// A configuration or precondition error is returned before any file is
// processed. Per-file failures are collected in the report and do not stop
// the run. If ctx is canceled the run stops before the next file and returns
// the partial report together with ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := ExpandInputs(r.cfg.Inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, config.ErrNoInput
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	r.logger.Info("starting batch",
		"files", len(files),
		"steps", r.cfg.Steps,
		"mode", r.cfg.SampleMode().String(),
		"save_sorted", r.cfg.SaveSorted,
		"output_dir", r.cfg.OutputDir)

	report := &Report{
		Files:    []*FileResult{},
		Failures: []*FileError{},
	}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			report.Canceled = true
			r.logger.Warn("batch canceled", "remaining", len(files)-i)
			return report, err
		}

		start := time.Now()
		result, err := r.processOne(path)
		if err != nil {
			fe := &FileError{Path: path, Err: err}
			report.Failures = append(report.Failures, fe)
			r.logger.Error("failed to process file", "file", filepath.Base(path), "error", err)
		} else {
			report.Files = append(report.Files, result)
			r.logger.Info("processed file",
				"file", filepath.Base(path),
				"colors", result.Colors,
				"grid", filepath.Base(result.GridPath),
				"duration", time.Since(start).Round(time.Millisecond))
		}

		if r.progress != nil {
			r.progress(i+1, len(files))
		}
	}

	r.logger.Info("batch finished", "processed", len(report.Files), "failed", len(report.Failures))
	return report, nil
}

// processOne converts a panic in any stage into an error for that file.
func (r *Runner) processOne(path string) (result *FileResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("unexpected failure: %v", rec)
		}
	}()
	return r.process(path, r.cfg)
}

// Run is shorthand for NewRunner(cfg, logger).Run(ctx).
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Report, error) {
	return NewRunner(cfg, logger).Run(ctx)
}

// ExpandInputs replaces every directory in inputs with the supported image
// files it directly contains, sorted by name. Plain paths are kept as given,
// even when they do not exist; such files fail individually later.
func ExpandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			files = append(files, in)
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("cannot read input directory %s: %w", in, err)
		}
		for _, e := range entries {
			if e.IsDir() || !imaging.IsSupported(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(in, e.Name()))
		}
	}
	return files, nil
}
