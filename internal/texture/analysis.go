package texture

import (
	"image"
)

const (
	// decayThreshold ends the initial fall-off when the autocorrelation never turns negative.
	decayThreshold = 0.5
	// peakFraction is how close to the strongest peak the reported one must be.
	peakFraction = 0.6
)

// ColumnAutocorrelation returns the circular autocorrelation of column x for lags
// 0..maxLag, normalized so lag 0 is 1. A constant column yields nil.
func ColumnAutocorrelation(img *image.Gray, x, maxLag int) []float64 {
	b := img.Bounds()
	n := b.Dy()
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	col := make([]float64, n)
	mean := 0.0
	for y := 0; y < n; y++ {
		col[y] = float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		mean += col[y]
	}
	mean /= float64(n)

	variance := 0.0
	for y := range col {
		col[y] -= mean
		variance += col[y] * col[y]
	}
	if variance == 0 {
		return nil
	}

	out := make([]float64, maxLag+1)
	for lag := range out {
		sum := 0.0
		for y := 0; y < n; y++ {
			sum += col[y] * col[(y+lag)%n]
		}
		out[lag] = sum / variance
	}
	return out
}

// MeanColumnAutocorrelation averages ColumnAutocorrelation over every non-constant column.
func MeanColumnAutocorrelation(img *image.Gray, maxLag int) []float64 {
	var (
		acc   []float64
		count int
	)
	for x := 0; x < img.Bounds().Dx(); x++ {
		r := ColumnAutocorrelation(img, x, maxLag)
		if r == nil {
			continue
		}
		if acc == nil {
			acc = make([]float64, len(r))
		}
		for i, v := range r {
			acc[i] += v
		}
		count++
	}
	for i := range acc {
		acc[i] /= float64(count)
	}
	return acc
}

// EstimateBandPeriod returns the vertical repeat distance of the bands in rows.
// It skips the decay from lag 0 (until the mean column autocorrelation turns negative,
// or drops below decayThreshold if it never does), then returns the first local
// maximum within peakFraction of the strongest peak up to height/2.
// It returns 0 when no such peak exists.
func EstimateBandPeriod(img *image.Gray) int {
	r := MeanColumnAutocorrelation(img, img.Bounds().Dy()/2)
	if len(r) < 3 {
		return 0
	}

	start := decayEnd(r)
	if start < 0 {
		return 0
	}

	var peaks []int
	for lag := start + 1; lag < len(r); lag++ {
		if r[lag] <= 0 || r[lag] < r[lag-1] {
			continue
		}
		if lag+1 < len(r) && r[lag] < r[lag+1] {
			continue
		}
		peaks = append(peaks, lag)
	}
	if len(peaks) == 0 {
		return 0
	}

	best := r[peaks[0]]
	for _, lag := range peaks[1:] {
		if r[lag] > best {
			best = r[lag]
		}
	}
	for _, lag := range peaks {
		if r[lag] >= best*peakFraction {
			return lag
		}
	}
	return 0
}

// decayEnd returns the first lag at which r turns negative, else the first lag below
// decayThreshold, else -1.
func decayEnd(r []float64) int {
	for lag := 1; lag < len(r); lag++ {
		if r[lag] < 0 {
			return lag
		}
	}
	for lag := 1; lag < len(r); lag++ {
		if r[lag] < decayThreshold {
			return lag
		}
	}
	return -1
}
