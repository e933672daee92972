package cmd

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/bandednoise/internal/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args. Flag values persist between calls,
// so every test passes the flags it depends on.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func readGray(t *testing.T, path string) *image.Gray {
	t.Helper()
	img, err := texture.ReadImage(path)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected grayscale image, got %T", img)
	return gray
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "banded_noise.png")

	stdout, err := executeCommand(t, "generate",
		"--output", out,
		"--size", "32",
		"--band-stretch", "8",
		"--softness", "0.6",
		"--seed", "42",
		"--octaves", "4",
		"--persistence", "0.5",
		"--workers", "2",
		"--create-dirs=false",
		"--png-compression", "best",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Generated banded noise texture: "+out)
	assert.Contains(t, stdout, "Size: 32x32")
	assert.Contains(t, stdout, "Band stretch: 8.0x")
	assert.Contains(t, stdout, "Value range: 0-255")

	img := readGray(t, out)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	// Same flags, same pixels.
	again := filepath.Join(t.TempDir(), "again.png")
	_, err = executeCommand(t, "generate", "--output", again, "--workers", "1")
	require.NoError(t, err)
	assert.Equal(t, img.Pix, readGray(t, again).Pix)
}

func TestGenerateCommandRejectsInvalidParams(t *testing.T) {
	out := filepath.Join(t.TempDir(), "noise.png")

	output, err := executeCommand(t, "generate", "--output", out, "--size", "0", "--create-dirs=false")
	require.Error(t, err)
	assert.True(t, errors.Is(err, texture.ErrInvalidParams))
	assert.NotContains(t, output, "Error:", "errors are reported once, by Execute")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no image may be written for invalid parameters")

	_, err = executeCommand(t, "generate", "--output", out, "--size", "16", "--png-compression", "turbo")
	require.Error(t, err)

	_, err = executeCommand(t, "generate", "--output", out, "--png-compression", "default", "--workers", "-1")
	require.Error(t, err)
}

func TestGenerateCommandMissingDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cloth", "textures", "noise.png")

	output, err := executeCommand(t, "generate",
		"--output", out,
		"--size", "16",
		"--workers", "1",
		"--png-compression", "default",
		"--create-dirs=false",
	)
	require.Error(t, err)
	assert.NotContains(t, output, "Error:")

	_, err = executeCommand(t, "generate", "--output", out, "--create-dirs=true")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), readGray(t, out).Bounds())
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "noise.png")
	dst := filepath.Join(dir, "mosaic.png")

	_, err := executeCommand(t, "generate",
		"--output", src,
		"--size", "16",
		"--workers", "1",
		"--png-compression", "default",
		"--create-dirs=false",
	)
	require.NoError(t, err)

	stdout, err := executeCommand(t, "preview", "--input", src, "--output", dst, "--repeat", "3", "--scale", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 48x48 preview")

	tile := readGray(t, src)
	mosaic := readGray(t, dst)
	require.Equal(t, image.Rect(0, 0, 48, 48), mosaic.Bounds())
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, tile.GrayAt(x, y), mosaic.GrayAt(x+32, y+16))
		}
	}
}

func TestGenerateCommandDefaultOutputIsRelative(t *testing.T) {
	flag := generateCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, filepath.Join("cloth", "textures", "banded_noise.png"), flag.DefValue)
	assert.False(t, filepath.IsAbs(flag.DefValue))
	assert.Contains(t, flag.Usage, "working directory")
}

func TestPreviewPath(t *testing.T) {
	assert.Equal(t, filepath.Join("cloth", "textures", "banded_noise_preview.png"),
		previewPath(filepath.Join("cloth", "textures", "banded_noise.png")))
	assert.Equal(t, "noise_preview.png", previewPath("noise.tiff"))
}
