package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// Default grid geometry.
const (
	DefaultBlockSize    = 400
	DefaultBlocksPerRow = 8
)

// GridLayout describes how colors are placed on the canvas.
type GridLayout struct {
	BlockSize    int
	BlocksPerRow int
	Background   color.NRGBA
}

// DefaultGridLayout returns 400px blocks, 8 per row, on white.
func DefaultGridLayout() GridLayout {
	return GridLayout{
		BlockSize:    DefaultBlockSize,
		BlocksPerRow: DefaultBlocksPerRow,
		Background:   color.NRGBA{255, 255, 255, 255},
	}
}

// Validate checks that the block geometry is positive.
func (l GridLayout) Validate() error {
	if l.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", l.BlockSize)
	}
	if l.BlocksPerRow <= 0 {
		return fmt.Errorf("blocks per row must be positive, got %d", l.BlocksPerRow)
	}
	return nil
}

// Rows returns ceil(count / BlocksPerRow).
func (l GridLayout) Rows(count int) int {
	return (count + l.BlocksPerRow - 1) / l.BlocksPerRow
}

// Size returns the canvas size for count blocks. The width is always a full
// row of blocks.
func (l GridLayout) Size(count int) (width, height int) {
	return l.BlocksPerRow * l.BlockSize, l.Rows(count) * l.BlockSize
}

// BlockRect returns the rectangle of the block at 0-based placement index i.
func (l GridLayout) BlockRect(i int) image.Rectangle {
	row := i / l.BlocksPerRow
	col := i % l.BlocksPerRow
	x1 := col * l.BlockSize
	y1 := row * l.BlockSize
	return image.Rect(x1, y1, x1+l.BlockSize, y1+l.BlockSize)
}

// ComposeGrid paints one solid block per record and returns the canvas
// together with placed copies of the records.
//
// Records are placed in input order, left to right then top to bottom. The
// returned records carry their 1-based Row and Col and their Block rectangle;
// the input slice is not modified. Blocks never overlap and leave no gaps;
// cells after the last record keep the background color.
func ComposeGrid(records []ColorRecord, layout GridLayout) (*image.NRGBA, []ColorRecord, error) {
	if err := layout.Validate(); err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrNoColors
	}

	width, height := layout.Size(len(records))
	canvas := imaging.New(width, height, layout.Background)

	placed := make([]ColorRecord, len(records))
	for i, rec := range records {
		rect := layout.BlockRect(i)
		draw.Draw(canvas, rect, &image.Uniform{C: rec.RGB.NRGBA()}, image.Point{}, draw.Src)

		rec.Row = i/layout.BlocksPerRow + 1
		rec.Col = i%layout.BlocksPerRow + 1
		rec.Block = rect
		placed[i] = rec
	}

	return canvas, placed, nil
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
