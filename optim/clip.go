package optim

import (
	"math"

	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

// ClipFactor returns the factor that brings a vector of the given norm
// down to maxNorm: maxNorm/norm when norm exceeds maxNorm, 1 otherwise.
func ClipFactor(norm, maxNorm float64) float64 {
	if norm > maxNorm && norm > 0 && !math.IsInf(norm, 1) {
		return maxNorm / norm
	}
	return 1
}

// ClipNorm rescales t in place so that its L2 norm over all elements is at
// most maxNorm. The direction of t is preserved. It returns the norm before
// clipping and the factor applied.
func ClipNorm(t *tensor.Tensor, maxNorm float64) (norm, scale float64) {
	return ClipPNorm(t, maxNorm, 2)
}

// ClipPNorm is ClipNorm for an arbitrary p-norm.
//
// A norm that overflows while every element is finite is still clipped:
// t is first divided by its largest magnitude and then rescaled. Only a
// tensor holding an Inf or NaN is left untouched.
func ClipPNorm(t *tensor.Tensor, maxNorm, normType float64) (norm, scale float64) {
	if t == nil {
		return 0, 1
	}
	norm = tensor.PNorm(t, normType)
	if math.IsInf(norm, 1) && maxNorm > 0 && !math.IsInf(maxNorm, 1) && tensor.AllFinite(t) {
		// The true norm exceeds any finite maxNorm, so the result always
		// lands on maxNorm even when the normalized norm is below it.
		pre := 1 / tensor.PNorm(t, math.Inf(1))
		t.Scale(pre)
		factor := maxNorm / tensor.PNorm(t, normType)
		t.Scale(factor)
		return norm, pre * factor
	}
	scale = ClipFactor(norm, maxNorm)
	if scale != 1 {
		t.Scale(scale)
	}
	return norm, scale
}

// ClipValue clamps every element of t to [-limit, limit] in place. A
// non-positive limit leaves t untouched.
func ClipValue(t *tensor.Tensor, limit float64) {
	if t == nil || limit <= 0 {
		return
	}
	t.Clamp(limit)
}

// ClipNorms applies one joint norm bound across several tensors, as if they
// were concatenated. It returns the joint norm before clipping.
func ClipNorms(ts []*tensor.Tensor, maxNorm float64) float64 {
	norm := 0.0
	for _, t := range ts {
		if t == nil {
			continue
		}
		norm = math.Hypot(norm, tensor.Norm(t))
	}
	if scale := ClipFactor(norm, maxNorm); scale != 1 {
		for _, t := range ts {
			if t != nil {
				t.Scale(scale)
			}
		}
	}
	return norm
}
