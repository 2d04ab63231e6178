// Package regularizer produces penalty tensors for losses that accept an
// additive regularization term, such as loss.MeanSquaredError.
package regularizer

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/fumitoshi0524/ixeoriLoss/tensor"
)

// Regularizer scores a weight tensor and returns the gradient of that score.
type Regularizer interface {
	Name() string
	// Cost returns the regularization term for weights.
	Cost(weights *tensor.Tensor) float64
	// Penalty returns d(Cost)/d(weights), shaped like weights.
	Penalty(weights *tensor.Tensor) (*tensor.Tensor, error)
}

// L1Regularizer is lasso regularization: lambda * sum(|w|).
type L1Regularizer struct {
	Lambda float64
}

func L1(lambda float64) *L1Regularizer {
	return &L1Regularizer{Lambda: lambda}
}

func (r *L1Regularizer) Name() string { return "l1" }

func (r *L1Regularizer) Cost(weights *tensor.Tensor) float64 {
	return r.Lambda * floats.Norm(weights.Data(), 1)
}

func (r *L1Regularizer) Penalty(weights *tensor.Tensor) (*tensor.Tensor, error) {
	if weights == nil {
		return nil, tensor.ErrNilTensor
	}
	data := weights.Data()
	for i, v := range data {
		switch {
		case v > 0:
			data[i] = r.Lambda
		case v < 0:
			data[i] = -r.Lambda
		default:
			data[i] = 0
		}
	}
	return tensor.New(data, weights.Shape()...)
}

// L2Regularizer is ridge regularization: lambda/2 * sum(w^2).
type L2Regularizer struct {
	Lambda float64
}

func L2(lambda float64) *L2Regularizer {
	return &L2Regularizer{Lambda: lambda}
}

func (r *L2Regularizer) Name() string { return "l2" }

func (r *L2Regularizer) Cost(weights *tensor.Tensor) float64 {
	data := weights.Data()
	return 0.5 * r.Lambda * floats.Dot(data, data)
}

func (r *L2Regularizer) Penalty(weights *tensor.Tensor) (*tensor.Tensor, error) {
	if weights == nil {
		return nil, tensor.ErrNilTensor
	}
	return tensor.MulScalar(weights, r.Lambda), nil
}

// ElasticNetRegularizer sums an L1 and an L2 term.
type ElasticNetRegularizer struct {
	l1 L1Regularizer
	l2 L2Regularizer
}

func ElasticNet(l1Lambda, l2Lambda float64) *ElasticNetRegularizer {
	return &ElasticNetRegularizer{
		l1: L1Regularizer{Lambda: l1Lambda},
		l2: L2Regularizer{Lambda: l2Lambda},
	}
}

func (r *ElasticNetRegularizer) Name() string { return "elasticnet" }

func (r *ElasticNetRegularizer) Cost(weights *tensor.Tensor) float64 {
	return r.l1.Cost(weights) + r.l2.Cost(weights)
}

func (r *ElasticNetRegularizer) Penalty(weights *tensor.Tensor) (*tensor.Tensor, error) {
	p1, err := r.l1.Penalty(weights)
	if err != nil {
		return nil, err
	}
	p2, err := r.l2.Penalty(weights)
	if err != nil {
		return nil, err
	}
	return tensor.Add(p1, p2)
}

// ByName builds a regularizer from its Name. "none" and "" return nil.
func ByName(name string, l1Lambda, l2Lambda float64) (Regularizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "l1":
		return L1(l1Lambda), nil
	case "l2":
		return L2(l2Lambda), nil
	case "elasticnet":
		return ElasticNet(l1Lambda, l2Lambda), nil
	default:
		return nil, fmt.Errorf("unknown regularizer %q", name)
	}
}
