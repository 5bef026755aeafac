// Package imaging implements the colour analysis core of colorgrid.
//
// The package turns decoded pixel data into a small set of representative
// colours and lays them out as a block grid. Every stage is a pure function
// over immutable inputs:
//
//	pixels := imaging.FromImage(img)          // decode boundary, RGB order
//	hist := imaging.BuildHueHistogram(pixels, imaging.DefaultHistogramOptions())
//	records, err := imaging.SampleBands(pixels, hist, steps)
//	grid, placed, err := imaging.ComposeGrid(records, imaging.DefaultGridLayout())
//
// # Colour Representation
//
// Internal computation uses 8-bit quantized HSV, matching the common
// 8-bit image library convention:
//   - H: hue bucket 0-179 (half degrees, bucket*2 recovers degrees)
//   - S: saturation 0-255
//   - V: value (brightness) 0-255
//
// HSL is only produced for display:
//   - H: 0-359 degrees
//   - S: 0-100 percent
//   - L: 0-100 percent
//
// # Coordinate System
//
// Grid coordinates are 0-based with the origin at the top-left corner. A block
// rectangle (X1,Y1)-(X2,Y2) is inclusive at the top-left and exclusive at the
// bottom-right, the same convention as image.Rectangle. Row and column numbers
// stored on a ColorRecord are 1-based for display.
//
// # Memory
//
// A Pixels value holds two full-image buffers (RGB and HSV, 3 bytes each per
// pixel). PixelSort allocates one more key buffer while it runs. Callers
// processing several files should drop references to a Pixels value before
// loading the next image.
package imaging
