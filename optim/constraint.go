package optim

import (
	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

type Constraint interface {
	Apply(t *tensor.Tensor) error
}

// MaxNormConstraint keeps a tensor's p-norm at or below maxNorm.
type MaxNormConstraint struct {
	maxNorm float64
	norm    float64
}

func NewMaxNormConstraint(maxNorm, norm float64) *MaxNormConstraint {
	if norm <= 0 {
		norm = 2
	}
	return &MaxNormConstraint{maxNorm: maxNorm, norm: norm}
}

func (c *MaxNormConstraint) MaxNorm() float64 {
	return c.maxNorm
}

func (c *MaxNormConstraint) Apply(t *tensor.Tensor) error {
	if t == nil || c.maxNorm <= 0 {
		return nil
	}
	ClipPNorm(t, c.maxNorm, c.norm)
	return nil
}
