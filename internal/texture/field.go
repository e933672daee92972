package texture

import (
	"context"
	"math"
	"math/rand"

	"github.com/MeKo-Tech/bandednoise/internal/worker"
)

// Field is a square grid of float values stored row-major.
type Field struct {
	Size int
	Data []float64
}

// NewField allocates a zeroed size×size field.
func NewField(size int) *Field {
	return &Field{Size: size, Data: make([]float64, size*size)}
}

func (f *Field) idx(x, y int) int { return y*f.Size + x }

// At returns the value at column x, row y.
func (f *Field) At(x, y int) float64 { return f.Data[f.idx(x, y)] }

// MinMax returns the smallest and largest value in the field.
func (f *Field) MinMax() (lo, hi float64) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	lo, hi = f.Data[0], f.Data[0]
	for _, v := range f.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize rescales the field in place so its minimum maps to 0 and its maximum to 1.
// A field whose range is below normalizeEpsilon collapses to 0 instead of dividing by ~0.
func (f *Field) Normalize() {
	lo, hi := f.MinMax()
	span := hi - lo
	if span < normalizeEpsilon {
		span = normalizeEpsilon
	}
	for i, v := range f.Data {
		f.Data[i] = (v - lo) / span
	}
}

// GradientGrid holds the gradient angles of one octave on a (Freq+1)×(Freq+1) lattice.
// Row Freq repeats row 0 and column Freq repeats column 0, which makes the octave tile.
type GradientGrid struct {
	Freq   int
	Angles []float64
	gx     []float64
	gy     []float64
}

// NewGradientGrid draws (freq+1)² angles from rng in row-major order and wraps the edges.
func NewGradientGrid(rng *rand.Rand, freq int) *GradientGrid {
	n := freq + 1
	g := &GradientGrid{
		Freq:   freq,
		Angles: make([]float64, n*n),
		gx:     make([]float64, n*n),
		gy:     make([]float64, n*n),
	}
	for i := range g.Angles {
		g.Angles[i] = rng.Float64() * 2 * math.Pi
	}

	// Row copy first, then column copy: the far corner ends up with row 0's value.
	for x := 0; x < n; x++ {
		g.Angles[freq*n+x] = g.Angles[x]
	}
	for y := 0; y < n; y++ {
		g.Angles[y*n+freq] = g.Angles[y*n]
	}

	for i, a := range g.Angles {
		g.gx[i] = math.Cos(a)
		g.gy[i] = math.Sin(a)
	}
	return g
}

// Angle returns the gradient angle at lattice point (x, y).
func (g *GradientGrid) Angle(x, y int) float64 { return g.Angles[y*(g.Freq+1)+x] }

// dot is the contribution of lattice point (x, y) for the offset (dx, dy).
func (g *GradientGrid) dot(x, y int, dx, dy float64) float64 {
	i := y*(g.Freq+1) + x
	return g.gx[i]*dx + g.gy[i]*dy
}

// Sample evaluates the octave's gradient noise at pixel (x, y) of a size×size raster.
func (g *GradientGrid) Sample(x, y, size int) float64 {
	freq := g.Freq
	px := float64(x) / float64(size) * float64(freq)
	py := float64(y) / float64(size) * float64(freq)

	ix := int(px)
	iy := int(py)
	x0 := ix % freq
	y0 := iy % freq
	x1 := (x0 + 1) % (freq + 1)
	y1 := (y0 + 1) % (freq + 1)

	fx := px - float64(ix)
	fy := py - float64(iy)

	sx := smoothstep(fx)
	sy := smoothstep(fy)

	n00 := g.dot(x0, y0, fx, fy)
	n10 := g.dot(x1, y0, fx-1, fy)
	n01 := g.dot(x0, y1, fx, fy-1)
	n11 := g.dot(x1, y1, fx-1, fy-1)

	nx0 := n00*(1-sx) + n10*sx
	nx1 := n01*(1-sx) + n11*sx
	return nx0*(1-sy) + nx1*sy
}

// FieldOptions configures GenerateField.
type FieldOptions struct {
	Pool *worker.Pool
	// OnOctave is called after each octave has been accumulated.
	OnOctave func(octave int)
}

// GenerateField sums octaves of seamless gradient noise into a size×size field and
// normalizes it to [0,1]. Octave o uses frequency 2^o and amplitude persistence^o.
// One gradient grid is drawn from rng per octave, in increasing octave order.
func GenerateField(ctx context.Context, rng *rand.Rand, size, octaves int, persistence float64, opts FieldOptions) (*Field, error) {
	field := NewField(size)
	amplitude := 1.0
	freq := 1

	for o := 0; o < octaves; o++ {
		grid := NewGradientGrid(rng, freq)
		amp := amplitude

		err := opts.Pool.Run(ctx, size, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := field.Data[y*size : (y+1)*size]
				for x := range row {
					row[x] += grid.Sample(x, y, size) * amp
				}
			}
		})
		if err != nil {
			return nil, err
		}

		if opts.OnOctave != nil {
			opts.OnOctave(o)
		}
		amplitude *= persistence
		freq *= 2
	}

	field.Normalize()
	return field, nil
}

// SeamError reports the largest difference between opposite edges of the field,
// comparing the last row/column with the one that would follow it when tiled.
func SeamError(f *Field) float64 {
	n := f.Size
	if n < 2 {
		return 0
	}
	worst := 0.0
	for i := 0; i < n; i++ {
		worst = math.Max(worst, math.Abs(f.At(i, n-1)-f.At(i, 0)))
		worst = math.Max(worst, math.Abs(f.At(n-1, i)-f.At(0, i)))
	}
	return worst
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }
