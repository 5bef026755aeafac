package imaging

import (
	"errors"
	"fmt"
	"image"
	"math/bits"
	"slices"
)

// Step count limits accepted by the samplers.
const (
	MinSteps = 2
	MaxSteps = 256
)

// ErrNoColors is returned when a sampler selects no colors for an image.
var ErrNoColors = errors.New("no colors selected")

// SampleMode selects the representative-color policy.
type SampleMode int

const (
	// ModeHueWeighted picks, per brightness band, the pixel whose hue has the
	// largest smoothed histogram weight.
	ModeHueWeighted SampleMode = iota

	// ModeUniform strides evenly through the image's distinct colors sorted
	// by brightness.
	ModeUniform
)

// String returns the mode name used in logs and tool arguments.
func (m SampleMode) String() string {
	switch m {
	case ModeHueWeighted:
		return "hue-weighted"
	case ModeUniform:
		return "uniform"
	}
	return fmt.Sprintf("SampleMode(%d)", int(m))
}

// ModeFor maps the hue-normal toggle to a sample mode.
func ModeFor(hueNormal bool) SampleMode {
	if hueNormal {
		return ModeHueWeighted
	}
	return ModeUniform
}

// Band is a brightness interval [Min, Max) over the value channel.
type Band struct {
	Index int `json:"index"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// Contains reports whether v lies in [Min, Max).
func (b Band) Contains(v uint8) bool {
	return int(v) >= b.Min && int(v) < b.Max
}

// Bands splits the value channel into steps contiguous bands of width
// 256/steps (integer division).
//
// Band i covers [i*w, min(255, (i+1)*w)). The upper bound is capped at 255 and
// is exclusive, so a pixel with value 255 never falls in any band, and when
// 256 is not a multiple of steps the values above steps*w are not covered
// either.
func Bands(steps int) ([]Band, error) {
	if steps < MinSteps || steps > MaxSteps {
		return nil, fmt.Errorf("steps %d outside [%d, %d]", steps, MinSteps, MaxSteps)
	}

	width := 256 / steps
	bands := make([]Band, steps)
	for i := range bands {
		bands[i] = Band{
			Index: i,
			Min:   i * width,
			Max:   min(255, (i+1)*width),
		}
	}
	return bands, nil
}

// ColorRecord describes one selected color.
//
// Records are produced by a sampler in emission order; Index is 1-based and
// counts emitted records only. Row, Col and Block stay zero until the record
// has been placed by ComposeGrid.
type ColorRecord struct {
	Index int
	Mode  SampleMode
	RGB   RGBColor
	HSV   HSVColor
	HSL   HSLColor

	// Band is the brightness band the color was selected from, or -1 for
	// uniform sampling.
	Band int

	// Source is the scan-order pixel index for hue-weighted records, or the
	// position in the brightness-sorted distinct color list for uniform
	// records.
	Source int

	Row   int
	Col   int
	Block image.Rectangle
}

func newRecord(index int, mode SampleMode, c RGBColor, hsv HSVColor, band, source int) ColorRecord {
	return ColorRecord{
		Index:  index,
		Mode:   mode,
		RGB:    c,
		HSV:    hsv,
		HSL:    ToHSL(c),
		Band:   band,
		Source: source,
	}
}

// Sample dispatches to the sampler for mode. hist is only consulted in
// ModeHueWeighted and must be non-nil there.
func Sample(p *Pixels, hist *HueHistogram, steps int, mode SampleMode) ([]ColorRecord, error) {
	switch mode {
	case ModeHueWeighted:
		if hist == nil {
			return nil, fmt.Errorf("hue-weighted sampling requires a hue histogram")
		}
		return SampleBands(p, hist, steps)
	case ModeUniform:
		return SampleUniform(p, steps)
	}
	return nil, fmt.Errorf("unknown sample mode: %v", mode)
}

// SampleBands selects one pixel per brightness band.
//
// For every band the pixel whose hue bucket carries the largest smoothed
// weight wins. Ties are resolved in favor of the first pixel in scan order.
// Bands with no pixels are skipped, so the result can be shorter than steps.
// Records are returned in ascending band order.
//
// The scan is a single pass over the image, independent of steps.
func SampleBands(p *Pixels, hist *HueHistogram, steps int) ([]ColorRecord, error) {
	bands, err := Bands(steps)
	if err != nil {
		return nil, err
	}
	width := 256 / steps

	best := make([]int, steps)
	bestWeight := make([]float64, steps)
	for i := range best {
		best[i] = -1
	}

	for i, c := range p.HSV {
		b := int(c.V) / width
		if b >= steps || !bands[b].Contains(c.V) {
			continue
		}
		w := hist.Weight(c.H)
		if best[b] < 0 || w > bestWeight[b] {
			best[b] = i
			bestWeight[b] = w
		}
	}

	records := make([]ColorRecord, 0, steps)
	for b, idx := range best {
		if idx < 0 {
			continue
		}
		records = append(records, newRecord(len(records)+1, ModeHueWeighted, p.RGB[idx], p.HSV[idx], b, idx))
	}
	return records, nil
}

// SampleUniform selects up to steps colors spread evenly over the image's
// distinct colors.
//
// Distinct colors are ordered by HSV value ascending, with ties kept in
// 0xRRGGBB order. Starting at index 0 every stride-th color is taken, where
// stride = max(1, distinct/steps), until steps colors have been taken. The
// result never contains a color absent from the image.
func SampleUniform(p *Pixels, steps int) ([]ColorRecord, error) {
	if steps < MinSteps || steps > MaxSteps {
		return nil, fmt.Errorf("steps %d outside [%d, %d]", steps, MinSteps, MaxSteps)
	}

	unique := distinctColors(p.RGB)
	slices.SortStableFunc(unique, func(a, b RGBColor) int {
		return int(max(a.R, a.G, a.B)) - int(max(b.R, b.G, b.B))
	})

	stride := max(1, len(unique)/steps)
	records := make([]ColorRecord, 0, min(steps, len(unique)))
	for i := 0; i < len(unique) && len(records) < steps; i += stride {
		c := unique[i]
		records = append(records, newRecord(len(records)+1, ModeUniform, c, ToHSV(c), -1, i))
	}
	return records, nil
}

// distinctColors returns each color present in rgb once, in ascending
// 0xRRGGBB order. A 2 MiB presence bitmap keeps memory independent of the
// image size.
func distinctColors(rgb []RGBColor) []RGBColor {
	seen := make([]uint64, (1<<24)/64)
	for _, c := range rgb {
		v := c.packed()
		seen[v/64] |= 1 << (v % 64)
	}

	total := 0
	for _, word := range seen {
		total += bits.OnesCount64(word)
	}

	out := make([]RGBColor, 0, total)
	for w, word := range seen {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, unpackRGB(uint32(w*64+bit)))
			word &= word - 1
		}
	}
	return out
}
