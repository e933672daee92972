package texture

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioParams() Params {
	p := DefaultParams()
	p.Size = 64
	return p
}

func TestGenerateEndToEnd(t *testing.T) {
	res, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), scenarioParams())
	require.NoError(t, err)

	require.Equal(t, image.Rect(0, 0, 64, 64), res.Image.Bounds())
	assert.Equal(t, uint8(0), res.Min)
	assert.Equal(t, uint8(255), res.Max)
	assert.Equal(t, 128, res.Field.Size)

	lo, hi := res.Composite.MinMax()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestGenerateDeterministic(t *testing.T) {
	p := scenarioParams()

	first, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), p)
	require.NoError(t, err)

	second, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), p)
	require.NoError(t, err)

	parallel, err := NewGenerator(GeneratorOptions{
		Pool: worker.New(worker.Config{Workers: 5}),
	}).Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first.Image.Pix, second.Image.Pix, "same parameters must give identical pixels")
	assert.Equal(t, first.Image.Pix, parallel.Image.Pix, "worker count must not change pixels")

	p.Seed = 7
	other, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), p)
	require.NoError(t, err)
	assert.NotEqual(t, first.Image.Pix, other.Image.Pix)
}

func TestGenerateReportsStages(t *testing.T) {
	p := scenarioParams()
	p.Octaves = 3

	var stages []string
	gen := NewGenerator(GeneratorOptions{
		OnStage: func(completed, total int, stage string) {
			assert.Equal(t, Stages(p), total)
			assert.Equal(t, len(stages)+1, completed)
			stages = append(stages, stage)
		},
	})

	_, err := gen.Generate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"octave 0", "octave 1", "octave 2",
		"primary bands", "secondary bands", "blend", "quantize",
	}, stages)
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	p := scenarioParams()
	p.Size = 0

	called := false
	gen := NewGenerator(GeneratorOptions{
		OnStage: func(int, int, string) { called = true },
	})

	_, err := gen.Generate(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParams))
	assert.False(t, called, "no stage may run for invalid parameters")
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(GeneratorOptions{}).Generate(ctx, scenarioParams())
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateShowsHorizontalBands(t *testing.T) {
	res, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), scenarioParams())
	require.NoError(t, err)

	// BandStretch 8 over 64 rows puts the primary period at 8 rows.
	r := MeanColumnAutocorrelation(res.Image, 16)
	require.Len(t, r, 17)
	assert.Greater(t, r[8], r[4])
	assert.Greater(t, r[8], 0.3)
}

func TestGenerateBandPeriodFollowsStretch(t *testing.T) {
	tests := []struct {
		stretch float64
		period  int
	}{
		{4, 32},
		{8, 16},
		{16, 8},
	}

	for _, tt := range tests {
		p := DefaultParams()
		p.Size = 128
		p.BandStretch = tt.stretch

		res, err := NewGenerator(GeneratorOptions{}).Generate(context.Background(), p)
		require.NoError(t, err)

		got := EstimateBandPeriod(res.Image)
		assert.InDelta(t, tt.period, got, 1, "stretch %g: expected band period %d, got %d", tt.stretch, tt.period, got)
	}
}
