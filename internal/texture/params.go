package texture

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid texture parameters")

const (
	// secondaryStretchRatio scales BandStretch for the secondary band layer.
	secondaryStretchRatio = 0.6
	// secondaryPhase offsets the secondary layer's wrapped vertical coordinate.
	secondaryPhase = 0.37

	primaryWeight   = 0.7
	secondaryWeight = 0.3

	normalizeEpsilon = 1e-8
)

// Params defines a banded noise texture.
type Params struct {
	// Size is the edge length of the square output in pixels.
	Size int
	// BandStretch is how often the noise field repeats vertically across the output.
	BandStretch float64
	// Softness cross-fades the primary layer between identity (0) and smoothstep (1).
	Softness    float64
	Seed        int64
	Octaves     int
	Persistence float64
}

// DefaultParams returns the parameters used for the cloth banded noise asset.
func DefaultParams() Params {
	return Params{
		Size:        256,
		BandStretch: 8.0,
		Softness:    0.6,
		Seed:        42,
		Octaves:     4,
		Persistence: 0.5,
	}
}

// BaseSize is the edge length of the noise field sampled by the band layers.
func (p Params) BaseSize() int { return p.Size * 2 }

// MaxOctaves is the number of octaves whose lattice frequency 2^o does not exceed
// BaseSize. Finer octaves have more lattice cells than field pixels.
func (p Params) MaxOctaves() int {
	base := p.BaseSize()
	n := 0
	for freq := 1; freq > 0 && freq <= base; freq *= 2 {
		n++
	}
	return n
}

// Validate rejects parameters that would produce degenerate arrays.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidParams, p.Size)
	}
	if p.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be at least 1, got %d", ErrInvalidParams, p.Octaves)
	}
	if limit := p.MaxOctaves(); p.Octaves > limit {
		return fmt.Errorf("%w: octaves must be at most %d for size %d, got %d", ErrInvalidParams, limit, p.Size, p.Octaves)
	}
	if !(p.Persistence > 0 && p.Persistence <= 1) {
		return fmt.Errorf("%w: persistence must be within (0,1], got %g", ErrInvalidParams, p.Persistence)
	}
	if !(p.BandStretch > 0) {
		return fmt.Errorf("%w: band stretch must be positive, got %g", ErrInvalidParams, p.BandStretch)
	}
	if !(p.Softness >= 0 && p.Softness <= 1) {
		return fmt.Errorf("%w: softness must be within [0,1], got %g", ErrInvalidParams, p.Softness)
	}
	return nil
}

// primaryLayer returns the sampling parameters of the primary band layer.
func (p Params) primaryLayer() BandLayer {
	return BandLayer{Stretch: p.BandStretch}
}

// secondaryLayer returns the sampling parameters of the secondary band layer.
func (p Params) secondaryLayer() BandLayer {
	return BandLayer{
		Stretch:  p.BandStretch * secondaryStretchRatio,
		Phase:    secondaryPhase,
		RowShift: p.BaseSize() / 3,
	}
}
