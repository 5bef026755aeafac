package pipeline

import (
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/colorgrid/internal/colorinfo"
	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/imaging"
)

// Analysis is the in-memory result of processing one image.
type Analysis struct {
	Mode    imaging.SampleMode
	Grid    *image.NRGBA
	Records []imaging.ColorRecord
	Info    []byte

	// Sorted is the pixel-sorted mosaic, nil unless requested.
	Sorted *image.NRGBA
}

// Analyze runs the sample, compose and serialize stages on decoded pixels.
// withSorted additionally produces the pixel-sorted mosaic.
func Analyze(p *imaging.Pixels, cfg config.Config, withSorted bool) (*Analysis, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	mode := cfg.SampleMode()
	var hist *imaging.HueHistogram
	if mode == imaging.ModeHueWeighted || (withSorted && cfg.SortMode() == imaging.SortHueWeighted) {
		hist = imaging.BuildHueHistogram(p, cfg.HistogramOptions())
	}

	records, err := imaging.Sample(p, hist, cfg.Steps, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to sample colors: %w", err)
	}

	grid, placed, err := imaging.ComposeGrid(records, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to compose grid: %w", err)
	}

	info, err := colorinfo.Marshal(placed)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize color info: %w", err)
	}

	a := &Analysis{
		Mode:    mode,
		Grid:    grid,
		Records: placed,
		Info:    info,
	}

	if withSorted {
		sorted, err := imaging.PixelSort(p, hist, cfg.SortMode())
		if err != nil {
			return nil, fmt.Errorf("failed to sort pixels: %w", err)
		}
		a.Sorted = sorted
	}

	return a, nil
}

// FileResult lists the artifacts written for one input.
type FileResult struct {
	Input      string `json:"input"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Colors     int    `json:"colors"`
	Mode       string `json:"mode"`
	GridPath   string `json:"grid_path"`
	InfoPath   string `json:"info_path"`
	SortedPath string `json:"sorted_path,omitempty"`
}

// ProcessFile decodes path, analyzes it and writes its artifacts to
// cfg.OutputDir. Nothing is written unless every in-memory stage succeeded.
func ProcessFile(path string, cfg config.Config) (*FileResult, error) {
	a, result, err := analyzeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	stem := BaseName(path)

	result.GridPath, err = UniquePath(cfg.OutputDir, stem+"_color_grid", ".png")
	if err != nil {
		return nil, err
	}
	if err := WritePNG(result.GridPath, a.Grid); err != nil {
		return nil, err
	}

	infoStem, infoSuffix := colorinfo.FileName(a.Mode)
	result.InfoPath, err = UniquePath(cfg.OutputDir, stem+infoStem, infoSuffix)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(result.InfoPath, a.Info); err != nil {
		return nil, err
	}

	if a.Sorted != nil {
		result.SortedPath, err = UniquePath(cfg.OutputDir, stem+"_sorted", ".png")
		if err != nil {
			return nil, err
		}
		if err := WritePNG(result.SortedPath, a.Sorted); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// analyzeFile keeps the decoded pixels scoped to the in-memory stages.
func analyzeFile(path string, cfg config.Config) (*Analysis, *FileResult, error) {
	p, err := imaging.Load(path)
	if err != nil {
		return nil, nil, err
	}

	a, err := Analyze(p, cfg, cfg.SaveSorted)
	if err != nil {
		return nil, nil, err
	}

	return a, &FileResult{
		Input:  path,
		Width:  p.Width,
		Height: p.Height,
		Colors: len(a.Records),
		Mode:   a.Mode.String(),
	}, nil
}

// SortFile writes only the pixel-sorted mosaic of path to outputDir.
func SortFile(path, outputDir string, cfg config.Config) (string, error) {
	p, err := imaging.Load(path)
	if err != nil {
		return "", err
	}

	var hist *imaging.HueHistogram
	if cfg.SortMode() == imaging.SortHueWeighted {
		hist = imaging.BuildHueHistogram(p, cfg.HistogramOptions())
	}

	sorted, err := imaging.PixelSort(p, hist, cfg.SortMode())
	if err != nil {
		return "", fmt.Errorf("failed to sort pixels: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}

	out, err := UniquePath(outputDir, BaseName(path)+"_sorted", ".png")
	if err != nil {
		return "", err
	}
	if err := WritePNG(out, sorted); err != nil {
		return "", err
	}
	return out, nil
}
