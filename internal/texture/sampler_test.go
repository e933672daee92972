package texture

import (
	"context"
	"math/rand"
	"testing"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexField stores each cell's flat index so sampled values reveal their source.
func indexField(size int) *Field {
	f := NewField(size)
	for i := range f.Data {
		f.Data[i] = float64(i)
	}
	return f
}

func TestSampleBandsIndices(t *testing.T) {
	field := indexField(8)

	tests := []struct {
		name  string
		layer BandLayer
		rows  []int
	}{
		{"identity", BandLayer{Stretch: 1}, []int{0, 1, 3, 5}},
		{"stretched", BandLayer{Stretch: 2}, []int{0, 3, 0, 3}},
		{"phase and shift", BandLayer{Stretch: 1, Phase: 0.5, RowShift: 6}, []int{1, 3, 6, 7}},
	}
	cols := []int{0, 1, 3, 5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SampleBands(context.Background(), nil, field, 4, tt.layer)
			require.NoError(t, err)
			require.Equal(t, 4, out.Size)

			for y, sy := range tt.rows {
				for x, sx := range cols {
					assert.Equal(t, float64(sy*8+sx), out.At(x, y), "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestSampleBandsSecondaryLayer(t *testing.T) {
	p := DefaultParams()
	p.Size = 64
	layer := p.secondaryLayer()

	assert.InDelta(t, 4.8, layer.Stretch, 1e-12)
	assert.Equal(t, 0.37, layer.Phase)
	assert.Equal(t, 42, layer.RowShift)

	field := indexField(p.BaseSize())
	out, err := SampleBands(context.Background(), nil, field, p.Size, layer)
	require.NoError(t, err)

	// Row 0: v' = 0.37, floor(0.37*127) = 46, shifted by 42.
	assert.Equal(t, float64((46+42)*128), out.At(0, 0))
}

func TestSampleBandsRepeatsWithStretch(t *testing.T) {
	field, err := GenerateField(context.Background(), rand.New(rand.NewSource(42)), 128, 4, 0.5, FieldOptions{})
	require.NoError(t, err)

	out, err := SampleBands(context.Background(), worker.New(worker.Config{Workers: 3}), field, 64, BandLayer{Stretch: 8})
	require.NoError(t, err)

	for y := 0; y+8 < 64; y++ {
		for x := 0; x < 64; x++ {
			require.Equal(t, out.At(x, y), out.At(x, y+8), "row %d should repeat at row %d", y, y+8)
		}
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.InDelta(t, 0.25, wrap01(1.25), 1e-12)
	assert.InDelta(t, 0.75, wrap01(-0.25), 1e-12)
	assert.Equal(t, 0.0, wrap01(3))
	assert.Equal(t, 2, wrapIndex(10, 8))
	assert.Equal(t, 6, wrapIndex(-2, 8))
}
