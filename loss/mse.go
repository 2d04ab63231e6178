package loss

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fumitoshi0524/ixeoriLoss/optim"
	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

// DefaultGradClipThreshold effectively disables clipping for well-scaled
// inputs.
const DefaultGradClipThreshold = 1e10

// ErrInvalidThreshold is returned for a clip threshold that is not positive.
var ErrInvalidThreshold = errors.New("gradient clip threshold must be positive")

// MeanSquaredError is the mean squared error loss with norm-based gradient
// clipping.
//
// Both the cost and the delta are computed from a per-batch difference
// that is rescaled as a whole whenever its L2 norm exceeds the clip
// threshold, so clipping changes the magnitude but never the direction.
// An optional penalty tensor is added to that difference after clipping.
//
// The penalty is guarded by a mutex; the remaining state is immutable.
type MeanSquaredError struct {
	threshold float64

	mu      sync.RWMutex
	penalty *tensor.Tensor
}

var (
	_ Function  = (*MeanSquaredError)(nil)
	_ Penalized = (*MeanSquaredError)(nil)
)

// NewMeanSquaredError returns an MSE loss that clips differences to an L2
// norm of threshold.
func NewMeanSquaredError(threshold float64) (*MeanSquaredError, error) {
	if !(threshold > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return &MeanSquaredError{threshold: threshold}, nil
}

// MSE returns an MSE loss with DefaultGradClipThreshold.
func MSE() *MeanSquaredError {
	return &MeanSquaredError{threshold: DefaultGradClipThreshold}
}

// GradClipThreshold returns the L2 norm differences are clipped to.
func (m *MeanSquaredError) GradClipThreshold() float64 {
	return m.threshold
}

// SetPenalty stores a copy of p; it is added to every later difference and
// delta. p must broadcast to the shape of the inputs it will meet. A nil p
// clears the penalty.
func (m *MeanSquaredError) SetPenalty(p *tensor.Tensor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.penalty = p.Clone()
}

// Penalty returns a copy of the current penalty, or nil.
func (m *MeanSquaredError) Penalty() *tensor.Tensor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.penalty.Clone()
}

// ClearPenalty removes the penalty.
func (m *MeanSquaredError) ClearPenalty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.penalty = nil
}

// ComputeLoss returns mean(((labeled - pred) / batch)^2) after clipping
// and penalty. With no axis the result has shape [1]; otherwise the listed
// axes are averaged out.
func (m *MeanSquaredError) ComputeLoss(pred, labeled *tensor.Tensor, axis ...int) (*tensor.Tensor, error) {
	if err := checkPair(pred, labeled); err != nil {
		return nil, fmt.Errorf("mse loss: %w", err)
	}
	n, err := batchSize(pred)
	if err != nil {
		return nil, fmt.Errorf("mse loss: %w", err)
	}
	diff, err := m.difference(labeled, pred, 1/n)
	if err != nil {
		return nil, fmt.Errorf("mse loss: %w", err)
	}
	out, err := tensor.MeanAxes(tensor.Square(diff), axis...)
	if err != nil {
		return nil, fmt.Errorf("mse loss: %w", err)
	}
	return out, nil
}

// ComputeDelta returns (pred - labeled) / batch * deltaOutput after
// clipping and penalty, shaped like the broadcast inputs.
func (m *MeanSquaredError) ComputeDelta(pred, labeled *tensor.Tensor, deltaOutput float64) (*tensor.Tensor, error) {
	if err := checkPair(pred, labeled); err != nil {
		return nil, fmt.Errorf("mse delta: %w", err)
	}
	n, err := batchSize(pred)
	if err != nil {
		return nil, fmt.Errorf("mse delta: %w", err)
	}
	delta, err := m.difference(pred, labeled, deltaOutput/n)
	if err != nil {
		return nil, fmt.Errorf("mse delta: %w", err)
	}
	return delta, nil
}

// ReverseDelta returns delta * (batch * deltaOutput) + labeled, with batch
// taken from delta.
//
// This recovers pred from ComputeDelta only when deltaOutput is 1, no
// clipping happened and no penalty was set: the delta output multiplies
// here where ComputeDelta also multiplies, and neither the clip factor nor
// the penalty is undone.
func (m *MeanSquaredError) ReverseDelta(delta, labeled *tensor.Tensor, deltaOutput float64) (*tensor.Tensor, error) {
	if err := checkPair(delta, labeled); err != nil {
		return nil, fmt.Errorf("mse reverse: %w", err)
	}
	n, err := batchSize(delta)
	if err != nil {
		return nil, fmt.Errorf("mse reverse: %w", err)
	}
	out, err := tensor.Add(tensor.MulScalar(delta, n*deltaOutput), labeled)
	if err != nil {
		return nil, fmt.Errorf("mse reverse: %w", err)
	}
	return out, nil
}

// difference computes (a - b) * scale, clips it to the threshold and adds
// the penalty. The clip applies to the raw scaled difference only.
func (m *MeanSquaredError) difference(a, b *tensor.Tensor, scale float64) (*tensor.Tensor, error) {
	diff, err := tensor.Sub(a, b)
	if err != nil {
		return nil, err
	}
	diff.Scale(scale)
	optim.ClipNorm(diff, m.threshold)

	m.mu.RLock()
	penalty := m.penalty
	m.mu.RUnlock()
	if penalty != nil {
		if err := diff.AddInPlace(penalty); err != nil {
			return nil, fmt.Errorf("penalty %v: %w", penalty.Shape(), err)
		}
	}
	return diff, nil
}
