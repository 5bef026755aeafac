// Package pipeline runs the colorgrid stages over a batch of image files.
//
// Each file goes through decode -> sample -> compose -> serialize -> write,
// strictly one file at a time. A failure in any stage is attributed to that
// file and the batch moves on to the next one. Configuration errors are
// reported once, before any file is touched.
//
// # Artifacts
//
// For an input "photo.jpg" the following files are written to the output
// directory:
//   - photo_color_grid.png: the color grid
//   - photo_color_grid_info.json (hue-weighted) or photo_info.json (uniform)
//   - photo_sorted.png: only when the sorted mosaic is requested
//
// Existing files are never overwritten; the first free name of the form
// name.ext, name_1.ext, name_2.ext, ... is used instead. Every artifact is
// fully encoded in memory and written through a temporary file that is
// renamed into place, so no artifact is ever left half-written.
package pipeline
