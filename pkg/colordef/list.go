package colordef

import "github.com/BitPonyLLC/colorname/pkg/colorspace"

// List is a named collection of colors loaded from one source.
type List struct {
	Enabled bool
	Name    string
	Path    string // empty when not loaded from a file
	Options map[string]string
	Colors  map[string]colorspace.RGBColor

	names []string
}

// NewList creates an empty, disabled list.
func NewList(name string) *List {
	return &List{
		Name:    name,
		Options: map[string]string{NameOption: name},
		Colors:  map[string]colorspace.RGBColor{},
	}
}

// Set adds or replaces a color, remembering the order names were first added.
func (l *List) Set(name string, color colorspace.RGBColor) {
	if _, exists := l.Colors[name]; !exists {
		l.names = append(l.names, name)
	}
	l.Colors[name] = color
}

// Names returns the color names in the order they were defined.
func (l *List) Names() []string {
	return append([]string(nil), l.names...)
}

// Len is the number of colors in the list.
func (l *List) Len() int {
	return len(l.Colors)
}

// Clone returns a deep copy of the list.
func (l *List) Clone() *List {
	c := &List{
		Enabled: l.Enabled,
		Name:    l.Name,
		Path:    l.Path,
		Options: make(map[string]string, len(l.Options)),
		Colors:  make(map[string]colorspace.RGBColor, len(l.Colors)),
		names:   l.Names(),
	}
	for k, v := range l.Options {
		c.Options[k] = v
	}
	for k, v := range l.Colors {
		c.Colors[k] = v
	}
	return c
}
