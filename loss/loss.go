// Package loss holds loss functions that report both a cost and the delta
// fed back into the network.
package loss

import (
	"fmt"

	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

// DefaultDeltaOutput is the upstream delta used when the loss is the last
// node of the graph.
const DefaultDeltaOutput = 1.0

// Function is a loss that can score predictions and produce the gradient
// with respect to them.
type Function interface {
	// ComputeLoss returns the cost of pred against labeled, averaged over
	// axis, or over every element when no axis is given.
	ComputeLoss(pred, labeled *tensor.Tensor, axis ...int) (*tensor.Tensor, error)
	// ComputeDelta returns d(cost)/d(pred) scaled by deltaOutput.
	ComputeDelta(pred, labeled *tensor.Tensor, deltaOutput float64) (*tensor.Tensor, error)
	// ReverseDelta maps a delta back to the prediction space.
	ReverseDelta(delta, labeled *tensor.Tensor, deltaOutput float64) (*tensor.Tensor, error)
}

// Penalized is implemented by losses that accept an externally computed
// regularization term.
type Penalized interface {
	SetPenalty(p *tensor.Tensor)
	Penalty() *tensor.Tensor
	ClearPenalty()
}

func batchSize(t *tensor.Tensor) (float64, error) {
	if t == nil {
		return 0, tensor.ErrNilTensor
	}
	n, err := t.Dim(0)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

func checkPair(a, b *tensor.Tensor) error {
	if a == nil || b == nil {
		return tensor.ErrNilTensor
	}
	if _, err := tensor.BroadcastShapes(a.Shape(), b.Shape()); err != nil {
		return fmt.Errorf("%v vs %v: %w", a.Shape(), b.Shape(), err)
	}
	return nil
}
