package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HueBuckets is the number of quantized hue values (half-degree buckets).
const HueBuckets = 180

// RGBColor represents an RGB color with 8-bit components.
//
// RGB is the canonical channel order inside this package. Decoders and encoders
// that use a different order are normalized at the boundary (see FromImage).
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSVColor is the internal working representation used for banding and
// weighting.
type HSVColor struct {
	H uint8 `json:"h"` // Hue bucket: 0-179 (degrees / 2)
	S uint8 `json:"s"` // Saturation: 0-255
	V uint8 `json:"v"` // Value: 0-255
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is only used for metadata display; all selection logic works on HSV.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGBColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color in "#RRGGBB" form.
func (c RGBColor) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

// Tuple formats the color as "(r, g, b)".
func (c RGBColor) Tuple() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// BGRTuple formats the color in blue-green-red order as "(b, g, r)".
func (c RGBColor) BGRTuple() string {
	return fmt.Sprintf("(%d, %d, %d)", c.B, c.G, c.R)
}

// packed returns the color as a 24-bit integer 0xRRGGBB.
func (c RGBColor) packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func unpackRGB(v uint32) RGBColor {
	return RGBColor{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ToHSV converts an 8-bit RGB color to quantized HSV.
//
// The continuous conversion is delegated to go-colorful and the result is
// quantized to the 8-bit ranges:
//
//	H = round(degrees / 2) mod 180
//	S = round(s * 255)
//	V = max(R, G, B)
//
// Gray colors (R == G == B) have hue 0 and saturation 0. The function is total
// over the 8-bit input domain.
func ToHSV(c RGBColor) HSVColor {
	h, s, _ := c.colorful().Hsv()

	hue := int(math.Round(h/2)) % HueBuckets
	return HSVColor{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: max(c.R, c.G, c.B),
	}
}

// ToHSL converts 8-bit RGB values to HSL for display.
//
// Returns HSLColor with each component rounded to the nearest integer:
//   - H: 0-359 (degrees on color wheel, 360 folds to 0)
//   - S: 0-100 (percentage)
//   - L: 0-100 (percentage)
func ToHSL(c RGBColor) HSLColor {
	h, s, l := c.colorful().Hsl()

	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// HueDegrees returns the approximate hue angle of the bucket in degrees.
func (c HSVColor) HueDegrees() int {
	return int(c.H) * 2
}

// SaturationPercent returns the saturation scaled to 0-100, truncated.
func (c HSVColor) SaturationPercent() int {
	return int(float64(c.S) / 255 * 100)
}
