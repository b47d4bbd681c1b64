package colorspace

import "math"

// Distance is the euclidean distance between a and b, accumulated one
// component at a time with hypot.
func Distance(a, b Vector) float64 {
	d := a.Sub(b)
	acc := d[0]
	for _, c := range d[1:] {
		acc = math.Hypot(acc, c)
	}
	return acc
}
