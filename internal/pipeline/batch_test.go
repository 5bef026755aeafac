package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/logging"
)

func TestRunner_ContinuesAfterFailure(t *testing.T) {
	inDir := t.TempDir()
	good1 := writeStripes(t, inDir, "a.png", 4, 4, stripeColors...)
	bad := filepath.Join(inDir, "b.png")
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	good2 := writeStripes(t, inDir, "c.png", 4, 4, color.RGBA{40, 80, 120, 255})

	cfg := testConfig(filepath.Join(t.TempDir(), "out"))
	cfg.Inputs = []string{good1, bad, good2}

	var progress []int
	report, err := NewRunner(cfg, logging.Discard()).
		OnProgress(func(done, total int) {
			if total != 3 {
				t.Errorf("total: got %d, want 3", total)
			}
			progress = append(progress, done)
		}).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Files) != 2 {
		t.Fatalf("files: got %d, want 2", len(report.Files))
	}
	if report.Files[0].Input != good1 || report.Files[1].Input != good2 {
		t.Errorf("file order: %s, %s", report.Files[0].Input, report.Files[1].Input)
	}
	if len(report.Failures) != 1 || report.Failures[0].Path != bad {
		t.Fatalf("failures: %+v", report.Failures)
	}
	if report.OK() {
		t.Error("report with a failure should not be OK")
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("progress: got %v", progress)
	}

	// The output directory was created
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		t.Errorf("output dir missing: %v", err)
	}
}

func TestRunner_ConfigErrors(t *testing.T) {
	img := writeStripes(t, t.TempDir(), "a.png", 2, 2, stripeColors...)

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"steps too low", func(c *config.Config) { c.Steps = 1 }, config.ErrInvalidConfiguration},
		{"steps too high", func(c *config.Config) { c.Steps = 257 }, config.ErrInvalidConfiguration},
		{"no input", func(c *config.Config) { c.Inputs = nil }, config.ErrNoInput},
		{"no output", func(c *config.Config) { c.OutputDir = "" }, config.ErrNoOutputDir},
		{"empty directory", func(c *config.Config) { c.Inputs = []string{t.TempDir()} }, config.ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			cfg.Inputs = []string{img}
			tt.mutate(&cfg)

			called := false
			report, err := NewRunner(cfg, logging.Discard()).
				WithProcessFunc(func(string, config.Config) (*FileResult, error) {
					called = true
					return &FileResult{}, nil
				}).
				Run(context.Background())

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if report != nil {
				t.Error("report should be nil on a configuration error")
			}
			if called {
				t.Error("no file should be processed")
			}
		})
	}
}

func TestRunner_Canceled(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Inputs = []string{"one.png", "two.png", "three.png"}

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	report, err := NewRunner(cfg, logging.Discard()).
		WithProcessFunc(func(path string, _ config.Config) (*FileResult, error) {
			seen = append(seen, path)
			cancel()
			return &FileResult{Input: path}, nil
		}).
		Run(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(seen) != 1 {
		t.Errorf("processed %v, want only the first file", seen)
	}
	if report == nil || !report.Canceled || len(report.Files) != 1 {
		t.Errorf("report: %+v", report)
	}
	if report.OK() {
		t.Error("canceled report should not be OK")
	}
}

func TestRunner_RecoversPanic(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Inputs = []string{"boom.png", "fine.png"}

	report, err := NewRunner(cfg, logging.Discard()).
		WithProcessFunc(func(path string, _ config.Config) (*FileResult, error) {
			if path == "boom.png" {
				panic("decoder exploded")
			}
			return &FileResult{Input: path}, nil
		}).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Failures) != 1 || !strings.Contains(report.Failures[0].Error(), "decoder exploded") {
		t.Errorf("failures: %+v", report.Failures)
	}
	if len(report.Files) != 1 || report.Files[0].Input != "fine.png" {
		t.Errorf("files: %+v", report.Files)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt", "c.webp"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandInputs([]string{"/explicit/x.gif", dir})
	if err != nil {
		t.Fatalf("ExpandInputs failed: %v", err)
	}

	want := []string{
		"/explicit/x.gif",
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.webp"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFileError(t *testing.T) {
	cause := errors.New("disk full")
	fe := &FileError{Path: "/in/photo.png", Err: cause}

	if !errors.Is(fe, cause) {
		t.Error("FileError should unwrap to its cause")
	}
	if fe.Error() != "photo.png: disk full" {
		t.Errorf("Error: got %s", fe.Error())
	}

	data, err := json.Marshal(fe)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"input":"/in/photo.png","error":"disk full"}` {
		t.Errorf("JSON: got %s", data)
	}
}
