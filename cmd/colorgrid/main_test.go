package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/logging"
	"github.com/ironsheep/colorgrid/internal/pipeline"
)

func TestBatchExit(t *testing.T) {
	done := []*pipeline.FileResult{
		{Input: "a.png", GridPath: "/out/a_color_grid.png", InfoPath: "/out/a_info.json"},
		{Input: "b.png", GridPath: "/out/b_color_grid.png", InfoPath: "/out/b_info.json", SortedPath: "/out/b_sorted.png"},
	}
	artifacts := "/out/a_color_grid.png\n/out/a_info.json\n/out/b_color_grid.png\n/out/b_info.json\n/out/b_sorted.png\n"

	tests := []struct {
		name     string
		report   *pipeline.Report
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "all files ok",
			report:   &pipeline.Report{Files: done, Failures: []*pipeline.FileError{}},
			wantCode: exitOK,
			wantOut:  artifacts,
		},
		{
			name: "one file failed",
			report: &pipeline.Report{Files: done, Failures: []*pipeline.FileError{
				{Path: "c.png", Err: errors.New("bad header")},
			}},
			wantCode: exitFileFailed,
			wantOut:  artifacts,
		},
		{
			name:     "interrupted after two files",
			report:   &pipeline.Report{Files: done, Failures: []*pipeline.FileError{}, Canceled: true},
			err:      context.Canceled,
			wantCode: exitInterrupted,
			wantOut:  artifacts,
		},
		{
			name:     "invalid configuration",
			err:      config.ErrNoOutputDir,
			wantCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := batchExit(&out, tt.report, tt.err, logging.Discard())
			if code != tt.wantCode {
				t.Errorf("exit code: got %d, want %d", code, tt.wantCode)
			}
			if out.String() != tt.wantOut {
				t.Errorf("stdout:\ngot  %q\nwant %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	t.Setenv(config.EnvSteps, "12")
	t.Setenv(config.EnvHueNormal, "false")

	cfg, inputs, err := loadConfig("colorgrid", []string{
		"-env", "does-not-exist.env",
		"-hue-normal",
		"-out", "/tmp/grids",
		"a.png", "b.png",
	})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Steps != 12 {
		t.Errorf("Steps: got %d, want 12 from the environment", cfg.Steps)
	}
	if !cfg.HueNormal || cfg.OutputDir != "/tmp/grids" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if len(inputs) != 2 || inputs[0] != "a.png" {
		t.Errorf("inputs: got %v", inputs)
	}

	if _, _, err := loadConfig("colorgrid", []string{"-steps", "1", "a.png"}); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("steps 1: got %v, want ErrInvalidConfiguration", err)
	}
}
