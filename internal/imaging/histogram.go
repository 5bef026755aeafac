package imaging

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// HistogramOptions controls how the hue histogram is smoothed.
type HistogramOptions struct {
	// KernelSize is the number of taps of the Gaussian kernel. Even sizes are
	// rounded up to the next odd size.
	KernelSize int

	// Sigma is the standard deviation of the kernel in hue buckets.
	Sigma float64

	// Wrap treats the hue axis as circular, so bucket 179 borders bucket 0.
	// When false the border is mirrored without repeating the edge bucket
	// (reflect-101), which leaves the 0/179 seam unsmoothed.
	Wrap bool
}

// DefaultHistogramOptions returns the 15-tap, sigma 3, non-wrapping smoothing
// used by the band sampler.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{
		KernelSize: 15,
		Sigma:      3,
		Wrap:       false,
	}
}

// HueHistogram maps each hue bucket to a smoothed, non-negative weight.
//
// It is built once per image and is read-only afterwards.
type HueHistogram struct {
	counts  [HueBuckets]int
	weights [HueBuckets]float64
}

// BuildHueHistogram counts the hue bucket of every pixel and smooths the
// counts with a 1-D Gaussian kernel along the hue axis.
func BuildHueHistogram(p *Pixels, opts HistogramOptions) *HueHistogram {
	h := &HueHistogram{}
	for _, c := range p.HSV {
		h.counts[c.H]++
	}

	kernel := gaussianKernel(opts.KernelSize, opts.Sigma)
	half := len(kernel) / 2
	for bucket := 0; bucket < HueBuckets; bucket++ {
		var sum float64
		for k, tap := range kernel {
			src := bucket + k - half
			if opts.Wrap {
				src = wrapIndex(src, HueBuckets)
			} else {
				src = reflect101(src, HueBuckets)
			}
			sum += float64(h.counts[src]) * tap
		}
		h.weights[bucket] = sum
	}

	return h
}

// Weight returns the smoothed weight of a hue bucket.
func (h *HueHistogram) Weight(bucket uint8) float64 {
	return h.weights[bucket]
}

// Count returns the raw pixel count of a hue bucket.
func (h *HueHistogram) Count(bucket uint8) int {
	return h.counts[bucket]
}

// Weights returns a copy of all smoothed weights indexed by hue bucket.
func (h *HueHistogram) Weights() []float64 {
	out := make([]float64, HueBuckets)
	copy(out, h.weights[:])
	return out
}

// Peak returns the hue bucket with the largest smoothed weight. Ties go to the
// lowest bucket.
func (h *HueHistogram) Peak() uint8 {
	return uint8(floats.MaxIdx(h.weights[:]))
}

// weightRanks assigns each hue bucket the dense rank of its weight, so that
// ordering buckets by rank is the same as ordering them by weight.
func (h *HueHistogram) weightRanks() [HueBuckets]uint8 {
	distinct := append([]float64(nil), h.weights[:]...)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	var ranks [HueBuckets]uint8
	for i, w := range h.weights {
		rank, _ := slices.BinarySearch(distinct, w)
		ranks[i] = uint8(rank)
	}
	return ranks
}

// gaussianKernel returns size taps sampled from N(0, sigma) and normalized to
// sum to 1. An even or non-positive size is bumped to the next odd size.
func gaussianKernel(size int, sigma float64) []float64 {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	if sigma <= 0 {
		// Derive sigma from the kernel size.
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}

	dist := distuv.Normal{Mu: 0, Sigma: sigma}
	half := size / 2
	kernel := make([]float64, size)
	for i := range kernel {
		kernel[i] = dist.Prob(float64(i - half))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// reflect101 mirrors an out-of-range index without repeating the edge
// element: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
