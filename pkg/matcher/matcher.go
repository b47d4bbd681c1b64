// Package matcher ranks the colors of the enabled definition lists by their
// distance to a query color.
package matcher

import (
	"sort"

	"github.com/BitPonyLLC/colorname/pkg/colordef"
	"github.com/BitPonyLLC/colorname/pkg/colorspace"
)

// Result is one named color and how far it is from the query.
type Result struct {
	Distance float64
	Name     string
	Source   string              // name of the list the color came from
	Color    colorspace.RGBColor // always RGB, whatever space was compared in
}

// RGBA is the result color packed as 0xRRGGBBFF.
func (r Result) RGBA() uint32 {
	return r.Color.RGBA()
}

// Rank measures every color of every enabled list against query in the given
// space. The full set of results is returned sorted by ascending distance. Equal
// distances are ordered by color name, then list name, then color value.
func Rank(query colorspace.RGBColor, lists []*colordef.List, space colorspace.Space) []Result {
	q := colorspace.Translate(query, space)

	results := []Result{}
	for _, l := range lists {
		if !l.Enabled {
			continue
		}

		for name, c := range l.Colors {
			results = append(results, Result{
				Distance: colorspace.Distance(q, colorspace.Translate(c, space)),
				Name:     name,
				Source:   l.Name,
				Color:    c,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return less(results[i], results[j])
	})

	return results
}

func less(a, b Result) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.RGBA() < b.RGBA()
}
