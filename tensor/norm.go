package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Norm returns the Euclidean norm of t taken over all elements, regardless
// of shape.
func Norm(t *Tensor) float64 {
	return floats.Norm(t.data, 2)
}

// PNorm returns the p-norm of t over all elements. p <= 0 selects 2, and
// math.Inf(1) the max-abs norm.
func PNorm(t *Tensor, p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		p = 2
	}
	return floats.Norm(t.data, p)
}

// AllFinite reports whether t holds no NaN and no infinity.
func AllFinite(t *Tensor) bool {
	return !floats.HasNaN(t.data) && !math.IsInf(floats.Norm(t.data, math.Inf(1)), 0)
}

// Dot returns the sum of the elementwise product of a and b, which must
// share a shape.
func Dot(a, b *Tensor) (float64, error) {
	if !SameShape(a, b) {
		return 0, ErrShapeMismatch
	}
	return floats.Dot(a.data, b.data), nil
}
