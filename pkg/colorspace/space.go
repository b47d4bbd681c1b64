package colorspace

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Space identifies a color space that colors can be compared in.
type Space string

const (
	RGB Space = "RGB"
	HSV Space = "HSV"
	HSL Space = "HSL"
	YIQ Space = "YIQ"
	LAB Space = "LAB"
)

// ErrUnknownSpace is returned by ParseSpace for names it does not recognize.
var ErrUnknownSpace = errors.New("unknown color space")

const scale = 255.0

var spaces = []Space{RGB, HSV, HSL, YIQ, LAB}

var upper = cases.Upper(language.Und)

// Spaces lists every supported color space.
func Spaces() []Space {
	return append([]Space(nil), spaces...)
}

// ParseSpace converts a name like "hsv" into its Space.
func ParseSpace(name string) (Space, error) {
	want := Space(upper.String(name))
	for _, s := range spaces {
		if s == want {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSpace, name)
}

// Translate converts an RGB color into the given space. Every space other than
// RGB is computed on channels normalized to [0,1] and then scaled back up by
// 255 so distances in any space are of comparable magnitude. Hue is a fraction
// of a full turn before scaling. HSL components are ordered hue, lightness,
// saturation. Unknown spaces are treated as RGB.
func Translate(c RGBColor, space Space) Vector {
	if space == RGB {
		return c.Vector()
	}

	r := float64(c.Red) / scale
	g := float64(c.Green) / scale
	b := float64(c.Blue) / scale
	cf := colorful.Color{R: r, G: g, B: b}

	var v Vector
	switch space {
	case HSV:
		h, s, val := cf.Hsv()
		v = Vector{h / 360, s, val}
	case HSL:
		h, s, l := cf.Hsl()
		v = Vector{h / 360, l, s}
	case YIQ:
		v = Vector{
			0.30*r + 0.59*g + 0.11*b,
			0.60*r - 0.28*g - 0.32*b,
			0.21*r - 0.52*g + 0.31*b,
		}
	case LAB:
		l, a, bb := cf.Lab()
		v = Vector{l, a, bb}
	default:
		return c.Vector()
	}

	return Vector{v[0] * scale, v[1] * scale, v[2] * scale}
}
