package colordef

import "github.com/BitPonyLLC/colorname/pkg/colorspace"

// BuiltinName is the name of the list returned by Builtin.
const BuiltinName = "Builtin colors"

type entry struct {
	name  string
	color colorspace.RGBColor
}

var builtinColors = []entry{
	{"Black", colorspace.RGBColor{Red: 0x00, Green: 0x00, Blue: 0x00}},
	{"Blue", colorspace.RGBColor{Red: 0x00, Green: 0x00, Blue: 0xFF}},
	{"Green", colorspace.RGBColor{Red: 0x00, Green: 0xFF, Blue: 0x00}},
	{"Cyan", colorspace.RGBColor{Red: 0x00, Green: 0xFF, Blue: 0xFF}},
	{"Debian Red", colorspace.RGBColor{Red: 0xD7, Green: 0x07, Blue: 0x51}},
	{"Red", colorspace.RGBColor{Red: 0xFF, Green: 0x00, Blue: 0x00}},
	{"Magenta", colorspace.RGBColor{Red: 0xFF, Green: 0x00, Blue: 0xFF}},
	{"Yellow", colorspace.RGBColor{Red: 0xFF, Green: 0xFF, Blue: 0x00}},
	{"White", colorspace.RGBColor{Red: 0xFF, Green: 0xFF, Blue: 0xFF}},
}

// Builtin returns a fresh copy of the built-in palette. It is disabled; callers
// decide whether it should start enabled.
func Builtin() *List {
	l := NewList(BuiltinName)
	for _, e := range builtinColors {
		l.Set(e.name, e.color)
	}
	return l
}
