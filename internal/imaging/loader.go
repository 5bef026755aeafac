package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Pixels holds one decoded image as flat RGB and HSV buffers in row-major
// scan order.
//
// RGB[i] and HSV[i] describe the same pixel; the pixel at (x, y) has index
// y*Width + x. A Pixels value is never mutated after construction.
type Pixels struct {
	Width  int
	Height int
	RGB    []RGBColor
	HSV    []HSVColor
}

// Len returns the number of pixels.
func (p *Pixels) Len() int {
	return len(p.RGB)
}

// FromImage normalizes any decoded image into a Pixels value.
//
// The source is first converted to non-premultiplied 8-bit RGBA so the color
// channels of semi-transparent pixels are kept as stored; alpha is then
// discarded. The HSV buffer is computed once here and shared by every later
// stage.
func FromImage(img image.Image) *Pixels {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	p := &Pixels{
		Width:  width,
		Height: height,
		RGB:    make([]RGBColor, 0, width*height),
		HSV:    make([]HSVColor, 0, width*height),
	}

	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width*4; x += 4 {
			c := RGBColor{R: row[x], G: row[x+1], B: row[x+2]}
			p.RGB = append(p.RGB, c)
			p.HSV = append(p.HSV, ToHSV(c))
		}
	}

	return p
}

// FromRGB builds a Pixels value from RGB samples in scan order.
//
// It returns an error if len(rgb) != width*height.
func FromRGB(width, height int, rgb []RGBColor) (*Pixels, error) {
	if width < 0 || height < 0 || len(rgb) != width*height {
		return nil, fmt.Errorf("pixel count %d does not match %dx%d", len(rgb), width, height)
	}

	p := &Pixels{
		Width:  width,
		Height: height,
		RGB:    append([]RGBColor(nil), rgb...),
		HSV:    make([]HSVColor, len(rgb)),
	}
	for i, c := range p.RGB {
		p.HSV[i] = ToHSV(c)
	}
	return p, nil
}

// Image renders the RGB buffer back into an opaque *image.NRGBA.
func (p *Pixels) Image() *image.NRGBA {
	return renderRGB(p.Width, p.Height, p.RGB)
}

func renderRGB(width, height int, rgb []RGBColor) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range rgb {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

// Load decodes an image file into a Pixels value.
//
// Parameters:
//   - path: Path to the image file. Supported formats are PNG, JPEG, BMP,
//     GIF, TIFF and WebP.
//
// EXIF orientation is applied before the pixels are read.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
//   - Returns error if the image has no pixels
func Load(path string) (*Pixels, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode image: %s has no pixels", filepath.Base(path))
	}
	return FromImage(img), nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file extension: "png", "jpeg",
	// "bmp", "webp", "gif", "tiff" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads the image header and returns its metadata without
// decoding the pixel data.
func LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        FormatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatFromExt maps a file extension to a format name.
func FormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}

// IsSupported reports whether path has an extension accepted as batch input.
func IsSupported(path string) bool {
	switch FormatFromExt(path) {
	case "png", "jpeg", "bmp", "webp":
		return true
	}
	return false
}
