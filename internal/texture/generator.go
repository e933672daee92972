package texture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
)

// StageFunc reports that a named pipeline stage finished as step completed of total.
type StageFunc func(completed, total int, stage string)

// Generator runs the banded noise pipeline:
// noise field, primary and secondary band layers, blend, quantize.
type Generator struct {
	pool    *worker.Pool
	logger  *slog.Logger
	onStage StageFunc
}

// GeneratorOptions configures a Generator. The zero value runs on one goroutine
// and logs to slog.Default().
type GeneratorOptions struct {
	Pool    *worker.Pool
	Logger  *slog.Logger
	OnStage StageFunc
}

// Result is the output of one generation run.
type Result struct {
	Image *image.Gray
	// Field is the normalized noise field the band layers were sampled from.
	Field     *Field
	Composite *Field
	Min       uint8
	Max       uint8
}

// NewGenerator creates a generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	return &Generator{
		pool:    opts.Pool,
		logger:  opts.Logger,
		onStage: opts.OnStage,
	}
}

// Stages returns the number of stage callbacks a run with p emits.
func Stages(p Params) int {
	// octaves + primary + secondary + blend + quantize
	return p.Octaves + 4
}

// Generate validates p and produces the quantized banded texture.
// The same Params always yield identical pixels, regardless of the worker count.
func (g *Generator) Generate(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	total := Stages(p)
	step := 0
	stage := func(name string, start time.Time) {
		step++
		g.log().Debug("Stage complete", "stage", name, "elapsed", time.Since(start))
		if g.onStage != nil {
			g.onStage(step, total, name)
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))

	start := time.Now()
	octaveStart := start
	field, err := GenerateField(ctx, rng, p.BaseSize(), p.Octaves, p.Persistence, FieldOptions{
		Pool: g.pool,
		OnOctave: func(o int) {
			stage(fmt.Sprintf("octave %d", o), octaveStart)
			octaveStart = time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate noise field: %w", err)
	}
	g.log().Debug("Noise field ready", "base_size", field.Size, "seam_error", SeamError(field))

	start = time.Now()
	primary, err := SampleBands(ctx, g.pool, field, p.Size, p.primaryLayer())
	if err != nil {
		return nil, fmt.Errorf("failed to sample primary bands: %w", err)
	}
	stage("primary bands", start)

	start = time.Now()
	secondary, err := SampleBands(ctx, g.pool, field, p.Size, p.secondaryLayer())
	if err != nil {
		return nil, fmt.Errorf("failed to sample secondary bands: %w", err)
	}
	stage("secondary bands", start)

	start = time.Now()
	composite, err := Blend(ctx, g.pool, primary, secondary, p.Softness)
	if err != nil {
		return nil, fmt.Errorf("failed to blend band layers: %w", err)
	}
	stage("blend", start)

	start = time.Now()
	img := Quantize(composite)
	lo, hi := GrayRange(img)
	stage("quantize", start)

	return &Result{
		Image:     img,
		Field:     field,
		Composite: composite,
		Min:       lo,
		Max:       hi,
	}, nil
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
