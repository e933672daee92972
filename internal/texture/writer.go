package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// WriteOptions controls how an image is written to disk.
type WriteOptions struct {
	PNGCompression png.CompressionLevel
	// CreateDirs creates missing parent directories instead of failing.
	CreateDirs bool
}

// ParsePNGCompression maps a flag value (default, speed, best, none) to a png level.
func ParsePNGCompression(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("invalid png compression %q: must be default, speed, best or none", name)
	}
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoderFor(path string, opts WriteOptions) (encodeFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		enc := &png.Encoder{CompressionLevel: opts.PNGCompression}
		return enc.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q for %s: use .png, .tif or .tiff", ext, path)
	}
}

// WriteImage encodes img into a temporary file next to path and renames it into place,
// so a failed write never leaves a partial image behind.
func WriteImage(path string, img image.Image, opts WriteOptions) error {
	encode, err := encoderFor(path, opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if opts.CreateDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".bandednoise-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := encode(tmp, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move image into place at %s: %w", path, err)
	}
	committed = true
	return nil
}

// ReadImage decodes a PNG or TIFF file.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
