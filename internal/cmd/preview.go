package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/bandednoise/internal/texture"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Tile a generated texture to inspect its seams",
	Long:  "Lay out a generated texture repeat x repeat times, optionally rescaled, so seams between tiles can be checked by eye.",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("input", "i", filepath.Join("cloth", "textures", "banded_noise.png"), "Texture to preview")
	previewCmd.Flags().StringP("output", "o", "", "Preview image path (default: <input>_preview.png)")
	previewCmd.Flags().Int("repeat", 2, "Number of copies per axis")
	previewCmd.Flags().Float64("scale", 1.0, "Scale factor applied to the tiled preview")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, previewCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("preview.input", "input")
	mustBind("preview.output", "output")
	mustBind("preview.repeat", "repeat")
	mustBind("preview.scale", "scale")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	input := viper.GetString("preview.input")
	output := viper.GetString("preview.output")
	repeat := viper.GetInt("preview.repeat")
	scale := viper.GetFloat64("preview.scale")

	if output == "" {
		output = previewPath(input)
	}

	src, err := texture.ReadImage(input)
	if err != nil {
		return err
	}

	preview, err := texture.TiledPreview(src, repeat, scale)
	if err != nil {
		return err
	}

	if err := texture.WriteImage(output, preview, texture.WriteOptions{}); err != nil {
		return err
	}

	b := preview.Bounds()
	logger.Info("Preview written", "input", input, "output", output, "repeat", repeat, "scale", scale)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d preview: %s\n", b.Dx(), b.Dy(), output)
	return nil
}

// previewPath derives "<dir>/<name>_preview.png" from the input path.
func previewPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_preview.png"
}
