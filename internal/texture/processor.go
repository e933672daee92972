package texture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/gift"
)

// TileTexture repeats src over a width×height grayscale canvas.
// Offsets shift the sampling origin; sampling wraps on both axes.
func TileTexture(src image.Image, width, height int, offsetX, offsetY int) *image.Gray {
	if src == nil || width <= 0 || height <= 0 {
		return nil
	}

	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	dst := image.NewGray(image.Rect(0, 0, width, height))
	if srcW == 0 || srcH == 0 {
		return dst
	}

	for y := 0; y < height; y++ {
		sy := bounds.Min.Y + wrapIndex(offsetY+y, srcH)
		for x := 0; x < width; x++ {
			sx := bounds.Min.X + wrapIndex(offsetX+x, srcW)
			dst.SetGray(x, y, color.GrayModel.Convert(src.At(sx, sy)).(color.Gray))
		}
	}

	return dst
}

// TiledPreview lays out repeat×repeat copies of src so seams can be inspected,
// then scales the mosaic by scale using Lanczos resampling.
func TiledPreview(src image.Image, repeat int, scale float64) (*image.Gray, error) {
	if src == nil {
		return nil, fmt.Errorf("preview source is nil")
	}
	if repeat < 1 {
		return nil, fmt.Errorf("repeat must be at least 1, got %d", repeat)
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}

	b := src.Bounds()
	mosaic := TileTexture(src, b.Dx()*repeat, b.Dy()*repeat, 0, 0)
	if mosaic == nil {
		return nil, fmt.Errorf("preview source is empty")
	}
	if scale == 1 {
		return mosaic, nil
	}

	w := int(float64(mosaic.Bounds().Dx()) * scale)
	h := int(float64(mosaic.Bounds().Dy()) * scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scale %g collapses the %dx%d preview", scale, mosaic.Bounds().Dx(), mosaic.Bounds().Dy())
	}

	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := image.NewGray(g.Bounds(mosaic.Bounds()))
	g.Draw(dst, mosaic)
	return dst, nil
}
