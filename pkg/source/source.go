// Package source provides the ways a query color can be obtained.
package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BitPonyLLC/colorname/internal/image_matcher"
	"github.com/BitPonyLLC/colorname/pkg/colordef"
	"github.com/BitPonyLLC/colorname/pkg/colorspace"
)

// ColorSource produces a query color.
type ColorSource interface {
	GetColor() (colorspace.RGBColor, error)
	String() string
}

// ErrUnrecognized is returned when text is not in any supported color notation.
var ErrUnrecognized = errors.New("unrecognized color")

// Text is a color written as RRGGBB, #RRGGBB, #RGB, or r,g,b decimal channels.
type Text string

// Image is the dominant color of an image file.
type Image string

var _ ColorSource = Text("")  // ensures we conform to the ColorSource interface
var _ ColorSource = Image("") // ensures we conform to the ColorSource interface

func (t Text) GetColor() (colorspace.RGBColor, error) {
	s := strings.TrimSpace(string(t))

	if strings.Contains(s, ",") {
		return parseDecimal(s)
	}

	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}

	c, err := colordef.ParseHex(s)
	if err != nil {
		return colorspace.RGBColor{}, fmt.Errorf("%w: %s", ErrUnrecognized, string(t))
	}

	return c, nil
}

func (t Text) String() string {
	return string(t)
}

func (i Image) GetColor() (colorspace.RGBColor, error) {
	return image_matcher.GetDominantColorOf(string(i))
}

func (i Image) String() string {
	return "image " + string(i)
}

//--------------------------------------------------------------------------------
// private

func parseDecimal(s string) (colorspace.RGBColor, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colorspace.RGBColor{}, fmt.Errorf("%w: %s", ErrUnrecognized, s)
	}

	var channels [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return colorspace.RGBColor{}, fmt.Errorf("%w: %s", ErrUnrecognized, s)
		}
		channels[i] = uint8(n)
	}

	return colorspace.RGBColor{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}
