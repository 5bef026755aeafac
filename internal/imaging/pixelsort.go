package imaging

import (
	"fmt"
	"image"
	"slices"
)

// SortMode selects the secondary key of PixelSort.
type SortMode int

const (
	// SortNormal orders pixels by (value, hue, saturation).
	SortNormal SortMode = iota

	// SortHueWeighted orders pixels by (value, smoothed hue weight,
	// saturation), clustering dominant hues inside each brightness level.
	SortHueWeighted
)

func (m SortMode) String() string {
	switch m {
	case SortNormal:
		return "normal"
	case SortHueWeighted:
		return "hue-weighted"
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// SortModeFor maps the hue-normal toggle to a sort mode.
func SortModeFor(hueNormal bool) SortMode {
	if hueNormal {
		return SortHueWeighted
	}
	return SortNormal
}

// Key layout, most significant first:
//
//	bits 56-63  value
//	bits 48-55  hue bucket or hue weight rank
//	bits 40-47  saturation
//	bits  0-39  original scan index
//
// Embedding the scan index makes every key unique, so an unstable sort of
// the keys yields a stable, total order over the pixels.
const (
	sortIndexBits = 40
	sortIndexMask = 1<<sortIndexBits - 1
)

// PixelSort returns a same-sized image holding every pixel of p exactly once,
// ordered ascending by value, then by the secondary key of mode, then by
// saturation. Ties keep their original scan order.
//
// hist is required for SortHueWeighted and ignored otherwise. The sort is
// O(P log P) over P pixels and allocates one 8-byte key per pixel in addition
// to the output image.
func PixelSort(p *Pixels, hist *HueHistogram, mode SortMode) (*image.NRGBA, error) {
	keys, err := sortKeys(p, hist, mode)
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i, k := range keys {
		c := p.RGB[k&sortIndexMask]
		o := i * 4
		out.Pix[o] = c.R
		out.Pix[o+1] = c.G
		out.Pix[o+2] = c.B
		out.Pix[o+3] = 255
	}
	return out, nil
}

// SortedOrder returns the source scan index of each output position of
// PixelSort.
func SortedOrder(p *Pixels, hist *HueHistogram, mode SortMode) ([]int, error) {
	keys, err := sortKeys(p, hist, mode)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(keys))
	for i, k := range keys {
		order[i] = int(k & sortIndexMask)
	}
	return order, nil
}

func sortKeys(p *Pixels, hist *HueHistogram, mode SortMode) ([]uint64, error) {
	if uint64(p.Len()) > sortIndexMask {
		return nil, fmt.Errorf("image too large to sort: %d pixels", p.Len())
	}

	var secondary [HueBuckets]uint8
	switch mode {
	case SortNormal:
		for h := range secondary {
			secondary[h] = uint8(h)
		}
	case SortHueWeighted:
		if hist == nil {
			return nil, fmt.Errorf("hue-weighted sort requires a hue histogram")
		}
		secondary = hist.weightRanks()
	default:
		return nil, fmt.Errorf("unknown sort mode: %v", mode)
	}

	keys := make([]uint64, p.Len())
	for i, c := range p.HSV {
		keys[i] = uint64(c.V)<<56 |
			uint64(secondary[c.H])<<48 |
			uint64(c.S)<<40 |
			uint64(i)
	}
	slices.Sort(keys)
	return keys, nil
}
