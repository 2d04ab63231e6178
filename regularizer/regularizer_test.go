package regularizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fumitoshi0524/ixeoriLoss/loss"
	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

func TestL1(t *testing.T) {
	w := tensor.MustNew([]float64{-2, 0, 3}, 3)
	r := L1(0.5)
	assert.InDelta(t, 2.5, r.Cost(w), 1e-12)
	p, err := r.Penalty(w)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.5, 0, 0.5}, p.Data())
}

func TestL2(t *testing.T) {
	w := tensor.MustNew([]float64{1, -2, 2, 0}, 2, 2)
	r := L2(0.1)
	assert.InDelta(t, 0.45, r.Cost(w), 1e-12)
	p, err := r.Penalty(w)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, p.Shape())
	assert.True(t, tensor.AlmostEqualSlices(p.Data(), []float64{0.1, -0.2, 0.2, 0}, 1e-12))
}

func TestElasticNet(t *testing.T) {
	w := tensor.MustNew([]float64{1, -2}, 2)
	r := ElasticNet(1, 2)
	assert.InDelta(t, 3+5, r.Cost(w), 1e-12)
	p, err := r.Penalty(w)
	require.NoError(t, err)
	assert.True(t, tensor.AlmostEqualSlices(p.Data(), []float64{3, -5}, 1e-12))

	_, err = r.Penalty(nil)
	require.ErrorIs(t, err, tensor.ErrNilTensor)
}

func TestByName(t *testing.T) {
	r, err := ByName("none", 1, 1)
	require.NoError(t, err)
	assert.Nil(t, r)

	for _, name := range []string{"l1", "L2", " elasticnet "} {
		r, err := ByName(name, 1, 1)
		require.NoError(t, err)
		require.NotNil(t, r)
	}

	_, err = ByName("dropout", 1, 1)
	require.Error(t, err)
}

func TestPenaltyFeedsLoss(t *testing.T) {
	m := loss.MSE()
	w := tensor.MustNew([]float64{1, -1}, 2, 1)
	p, err := L1(0.25).Penalty(w)
	require.NoError(t, err)
	m.SetPenalty(p)

	pred := tensor.MustNew([]float64{1, 3}, 2, 1)
	labeled := tensor.MustNew([]float64{2, 1}, 2, 1)
	d, err := m.ComputeDelta(pred, labeled, loss.DefaultDeltaOutput)
	require.NoError(t, err)
	assert.True(t, tensor.AlmostEqualSlices(d.Data(), []float64{-0.25, 0.75}, 1e-12), "delta %v", d.Data())
}
