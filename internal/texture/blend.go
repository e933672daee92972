package texture

import (
	"context"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
)

// Blend eases the primary layer by softness, mixes it 70/30 with the secondary layer
// and renormalizes the result to [0,1]. Both layers must have the same size.
func Blend(ctx context.Context, pool *worker.Pool, primary, secondary *Field, softness float64) (*Field, error) {
	size := primary.Size
	out := NewField(size)

	err := pool.Run(ctx, size, func(y0, y1 int) {
		for i := y0 * size; i < y1*size; i++ {
			p := soften(primary.Data[i], softness)
			out.Data[i] = p*primaryWeight + secondary.Data[i]*secondaryWeight
		}
	})
	if err != nil {
		return nil, err
	}

	out.Normalize()
	return out, nil
}

// soften cross-fades v between itself (softness 0) and smoothstep(v) (softness 1).
func soften(v, softness float64) float64 {
	return v*v*(3-2*v)*softness + v*(1-softness)
}
