// Package colorinfo serializes placed color records into the JSON metadata
// document written next to each color grid.
//
// The document has the shape
//
//	{ "total_colors": N, "colors": [ ... ] }
//
// and each entry's fields depend on the sampling mode that produced it:
//
// Hue-weighted entries:
//   - Index, RGB "(r, g, b)", BGR "(b, g, r)"
//   - Value (0-255), Hue (bucket*2 degrees), Saturation (0-100, truncated)
//   - Position "row R, col C", Coordinates "(x1, y1, x2, y2)"
//
// Uniform entries:
//   - Index, RGB "(r, g, b)", HEX "#RRGGBB"
//   - Hue (HSL degrees), Saturation (HSL %), Lightness (HSL %), Value (0-255)
//   - Position, Coordinates
//
// Consumers tell the two schemas apart by the presence of BGR or HEX.
package colorinfo
