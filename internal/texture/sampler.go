package texture

import (
	"context"
	"math"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
)

// BandLayer describes one anisotropic resampling of the noise field.
type BandLayer struct {
	// Stretch is the number of times the field's vertical extent repeats over the output.
	Stretch float64
	// Phase offsets the wrapped vertical coordinate before indexing.
	Phase float64
	// RowShift rotates the sampled field row, modulo the field size.
	RowShift int
}

// SampleBands resamples field into a size×size layer of horizontal bands.
// Lookups are nearest-neighbour, never interpolated.
func SampleBands(ctx context.Context, pool *worker.Pool, field *Field, size int, layer BandLayer) (*Field, error) {
	out := NewField(size)
	base := field.Size
	last := float64(base - 1)

	// Column indices only depend on x.
	cols := make([]int, size)
	for x := range cols {
		u := float64(x) / float64(size)
		cols[x] = int(u * last)
	}

	err := pool.Run(ctx, size, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := float64(y) / float64(size)
			stretched := wrap01(v*layer.Stretch + layer.Phase)
			sy := wrapIndex(int(stretched*last)+layer.RowShift, base)

			src := field.Data[sy*base : (sy+1)*base]
			row := out.Data[y*size : (y+1)*size]
			for x, sx := range cols {
				row[x] = src[sx]
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func wrap01(x float64) float64 {
	x = math.Mod(x, 1.0)
	if x < 0 {
		x += 1
	}
	return x
}

func wrapIndex(x, max int) int {
	x %= max
	if x < 0 {
		x += max
	}
	return x
}
