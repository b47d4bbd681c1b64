// Package colorspace holds the color value types along with the conversions and
// the distance metric used to compare colors.
package colorspace

import "fmt"

// RGBColor represents Red Green and Blue values of a color
type RGBColor struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Vector is a color expressed as three components in some color space. The
// components are not clamped to any range.
type Vector [3]float64

const rgbHexFormat = "%02X%02X%02X"

// Hex returns the color formatted as RRGGBB.
func (c RGBColor) Hex() string {
	return fmt.Sprintf(rgbHexFormat, c.Red, c.Green, c.Blue)
}

// String is the same as Hex with a leading '#'.
func (c RGBColor) String() string {
	return "#" + c.Hex()
}

// RGBA packs the color into a single integer with a fully opaque alpha byte
// (0xRRGGBBFF).
func (c RGBColor) RGBA() uint32 {
	return uint32(c.Red)<<24 | uint32(c.Green)<<16 | uint32(c.Blue)<<8 | 0xFF
}

// Vector returns the color's components in the RGB space.
func (c RGBColor) Vector() Vector {
	return Vector{float64(c.Red), float64(c.Green), float64(c.Blue)}
}

// Sub returns the component-wise difference of v and o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}
