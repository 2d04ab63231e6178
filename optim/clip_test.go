package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

func TestClipFactor(t *testing.T) {
	assert.Equal(t, 1.0, ClipFactor(0.5, 1))
	assert.Equal(t, 1.0, ClipFactor(1, 1))
	assert.InDelta(t, 0.2, ClipFactor(5, 1), 1e-12)
	assert.Equal(t, 1.0, ClipFactor(0, 0))
	assert.Equal(t, 1.0, ClipFactor(math.NaN(), 1))
}

func TestClipNormRescalesPreservingDirection(t *testing.T) {
	x := tensor.MustNew([]float64{3, 4, 0, 0}, 2, 2)
	norm, scale := ClipNorm(x, 1)
	assert.InDelta(t, 5, norm, 1e-12)
	assert.InDelta(t, 0.2, scale, 1e-12)
	assert.True(t, tensor.AlmostEqualSlices(x.Data(), []float64{0.6, 0.8, 0, 0}, 1e-12))
	assert.InDelta(t, 1, tensor.Norm(x), 1e-12)
}

func TestClipNormLeavesSmallTensor(t *testing.T) {
	x := tensor.MustNew([]float64{0.3, 0.4}, 2)
	norm, scale := ClipNorm(x, 1)
	assert.InDelta(t, 0.5, norm, 1e-12)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, []float64{0.3, 0.4}, x.Data())
}

func TestClipValueClampsElements(t *testing.T) {
	x := tensor.MustNew([]float64{-3, 0.5, 4}, 3)
	ClipValue(x, 1)
	assert.Equal(t, []float64{-1, 0.5, 1}, x.Data())

	ClipValue(x, 0)
	assert.Equal(t, []float64{-1, 0.5, 1}, x.Data())
}

func TestClipNormsJoint(t *testing.T) {
	a := tensor.MustNew([]float64{3}, 1)
	b := tensor.MustNew([]float64{4}, 1)
	norm := ClipNorms([]*tensor.Tensor{a, nil, b}, 2.5)
	assert.InDelta(t, 5, norm, 1e-12)
	assert.InDelta(t, 1.5, a.Data()[0], 1e-12)
	assert.InDelta(t, 2, b.Data()[0], 1e-12)
}

func TestMaxNormConstraint(t *testing.T) {
	c := NewMaxNormConstraint(2, 1)
	x := tensor.MustNew([]float64{1, -3}, 2)
	assert.NoError(t, c.Apply(x))
	assert.InDelta(t, 2, tensor.PNorm(x, 1), 1e-12)
	assert.InDelta(t, 0.5, x.Data()[0], 1e-12)

	assert.NoError(t, NewMaxNormConstraint(0, 2).Apply(x))
	assert.NoError(t, c.Apply(nil))
}

func TestClipNormOverflowingNorm(t *testing.T) {
	x := tensor.MustNew([]float64{math.MaxFloat64, -math.MaxFloat64}, 1, 2)
	norm, _ := ClipNorm(x, 2)
	assert.True(t, math.IsInf(norm, 1))
	assert.InDelta(t, 2, tensor.Norm(x), 1e-12)
	assert.True(t, tensor.AlmostEqualSlices(x.Data(), []float64{math.Sqrt2, -math.Sqrt2}, 1e-12), "clipped %v", x.Data())
}

func TestClipNormLeavesNonFinite(t *testing.T) {
	x := tensor.MustNew([]float64{math.Inf(1), 1}, 2)
	_, scale := ClipNorm(x, 1)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, 1.0, x.Data()[1])

	y := tensor.MustNew([]float64{math.NaN(), math.MaxFloat64, math.MaxFloat64}, 3)
	_, scale = ClipNorm(y, 1)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, math.MaxFloat64, y.Data()[1])
}

func TestClipNormOverflowingNormLargeBound(t *testing.T) {
	x := tensor.MustNew([]float64{math.MaxFloat64, math.MaxFloat64}, 2)
	ClipNorm(x, 1e10)
	assert.InDelta(t, 1, tensor.Norm(x)/1e10, 1e-12)
}
