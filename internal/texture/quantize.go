package texture

import (
	"image"
)

// Quantize maps a [0,1] field onto an 8-bit grayscale image.
// Values are truncated, not rounded: 0.999 becomes 254.
func Quantize(f *Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Size, f.Size))
	for y := 0; y < f.Size; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+f.Size]
		for x := range row {
			row[x] = uint8(clamp01(f.At(x, y)) * 255)
		}
	}
	return img
}

// GrayRange returns the darkest and brightest pixel values of img.
func GrayRange(img *image.Gray) (lo, hi uint8) {
	b := img.Bounds()
	if b.Empty() {
		return 0, 0
	}
	lo, hi = 255, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
