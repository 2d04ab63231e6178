package tensor

import "math"

// AlmostEqualSlices reports whether a and b have equal length and every
// pair of elements differs by at most tol.
func AlmostEqualSlices(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// AlmostEqual reports whether a and b share a shape and their elements
// agree within tol.
func AlmostEqual(a, b *Tensor, tol float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return SameShape(a, b) && AlmostEqualSlices(a.data, b.data, tol)
}
