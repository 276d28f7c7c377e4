package raster

import (
	"fmt"
	"image"
	"os"

	// Decoders for the formats slides commonly embed.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/deckgrid/deckgrid/pkg/box"
)

// Prober reads image dimensions from file headers without decoding pixels.
type Prober struct{}

var _ box.ImageProber = Prober{}

// Probe returns the pixel dimensions of an image file.
func (Prober) Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("read image header %q: %w", path, err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return 0, 0, fmt.Errorf("image %q has no pixels (%s)", path, format)
	}
	return cfg.Width, cfg.Height, nil
}
