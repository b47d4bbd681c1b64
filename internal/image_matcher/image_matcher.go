package image_matcher

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/BitPonyLLC/colorname/pkg/colorspace"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNoColors is returned when clustering yields nothing to choose from.
var ErrNoColors = errors.New("no colors found")

func load(pathname string) (image.Image, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", pathname, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", pathname, err)
	}

	return img, nil
}

// GetDominantColorOf clusters the pixels of the image at pathname and returns
// the center of the most populous cluster.
func GetDominantColorOf(pathname string) (colorspace.RGBColor, error) {
	img, err := load(pathname)
	if err != nil {
		return colorspace.RGBColor{}, err
	}

	return DominantColor(img)
}

// DominantColor is GetDominantColorOf for an already decoded image.
func DominantColor(img image.Image) (colorspace.RGBColor, error) {
	colors, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return colorspace.RGBColor{}, fmt.Errorf("unable to extract dominant color: %w", err)
	}

	var best *prominentcolor.ColorItem
	for i, color := range colors {
		if best == nil || color.Cnt > best.Cnt {
			best = &colors[i]
		}
	}

	if best == nil {
		return colorspace.RGBColor{}, ErrNoColors
	}

	return colorspace.RGBColor{
		Red:   uint8(best.Color.R),
		Green: uint8(best.Color.G),
		Blue:  uint8(best.Color.B),
	}, nil
}
