package colorinfo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/colorgrid/internal/imaging"
)

// HueWeightedEntry is the projection of a hue-weighted record.
type HueWeightedEntry struct {
	Index       int    `json:"Index"`
	RGB         string `json:"RGB"`
	BGR         string `json:"BGR"`
	Value       int    `json:"Value"`
	Hue         int    `json:"Hue"`
	Saturation  int    `json:"Saturation"`
	Position    string `json:"Position"`
	Coordinates string `json:"Coordinates"`
}

// UniformEntry is the projection of a uniformly sampled record.
type UniformEntry struct {
	Index       int    `json:"Index"`
	RGB         string `json:"RGB"`
	HEX         string `json:"HEX"`
	Hue         int    `json:"Hue"`
	Saturation  int    `json:"Saturation"`
	Lightness   int    `json:"Lightness"`
	Value       int    `json:"Value"`
	Position    string `json:"Position"`
	Coordinates string `json:"Coordinates"`
}

// Document is the metadata written for one color grid.
type Document struct {
	TotalColors int   `json:"total_colors"`
	Colors      []any `json:"colors"`
}

// Build projects placed records into a Document.
//
// All records must come from the same sampling mode and must have been placed
// by imaging.ComposeGrid.
func Build(records []imaging.ColorRecord) (*Document, error) {
	doc := &Document{
		TotalColors: len(records),
		Colors:      make([]any, 0, len(records)),
	}

	for i, rec := range records {
		if rec.Row == 0 || rec.Col == 0 {
			return nil, fmt.Errorf("record %d has not been placed on a grid", rec.Index)
		}
		if rec.Mode != records[0].Mode {
			return nil, fmt.Errorf("record %d mode %v differs from %v", rec.Index, rec.Mode, records[0].Mode)
		}

		entry, err := project(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to project record %d: %w", i+1, err)
		}
		doc.Colors = append(doc.Colors, entry)
	}

	return doc, nil
}

func project(rec imaging.ColorRecord) (any, error) {
	switch rec.Mode {
	case imaging.ModeHueWeighted:
		return HueWeightedEntry{
			Index:       rec.Index,
			RGB:         rec.RGB.Tuple(),
			BGR:         rec.RGB.BGRTuple(),
			Value:       int(rec.HSV.V),
			Hue:         rec.HSV.HueDegrees(),
			Saturation:  rec.HSV.SaturationPercent(),
			Position:    Position(rec),
			Coordinates: Coordinates(rec),
		}, nil
	case imaging.ModeUniform:
		return UniformEntry{
			Index:       rec.Index,
			RGB:         rec.RGB.Tuple(),
			HEX:         rec.RGB.Hex(),
			Hue:         rec.HSL.H,
			Saturation:  rec.HSL.S,
			Lightness:   rec.HSL.L,
			Value:       int(rec.HSV.V),
			Position:    Position(rec),
			Coordinates: Coordinates(rec),
		}, nil
	}
	return nil, fmt.Errorf("unknown sample mode: %v", rec.Mode)
}

// Position formats the 1-based grid cell as "row R, col C".
func Position(rec imaging.ColorRecord) string {
	return fmt.Sprintf("row %d, col %d", rec.Row, rec.Col)
}

// Coordinates formats the block rectangle as "(x1, y1, x2, y2)".
func Coordinates(rec imaging.ColorRecord) string {
	b := rec.Block
	return fmt.Sprintf("(%d, %d, %d, %d)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// Encode writes doc as indented JSON. Non-ASCII text and HTML characters are
// written as-is.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode color info: %w", err)
	}
	return nil
}

// Marshal builds and encodes the document for records.
func Marshal(records []imaging.ColorRecord) ([]byte, error) {
	doc, err := Build(records)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns the pieces of the metadata file name for mode: the text
// appended to the input base name and the final suffix. A numeric
// disambiguator goes between the two.
func FileName(mode imaging.SampleMode) (stemSuffix, suffix string) {
	if mode == imaging.ModeHueWeighted {
		return "_color_grid", "_info.json"
	}
	return "", "_info.json"
}
