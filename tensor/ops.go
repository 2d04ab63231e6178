package tensor

import (
	"fmt"

	"github.com/fumitoshi0524/ixeoriLoss/internal/parallel"
)

// Add returns a + b with broadcasting.
func Add(a, b *Tensor) (*Tensor, error) {
	return binary("Add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Tensor) (*Tensor, error) {
	return binary("Sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise product of a and b with broadcasting.
func Mul(a, b *Tensor) (*Tensor, error) {
	return binary("Mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div returns a / b with broadcasting. Division by zero follows IEEE 754.
func Div(a, b *Tensor) (*Tensor, error) {
	return binary("Div", a, b, func(x, y float64) float64 { return x / y })
}

func binary(name string, a, b *Tensor, op func(x, y float64) float64) (*Tensor, error) {
	left, right, err := broadcastPair(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out := Zeros(left.shape...)
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = op(left.data[i], right.data[i])
		}
	})
	return out, nil
}

// AddInPlace adds other into t. other must broadcast to t's shape.
func (t *Tensor) AddInPlace(other *Tensor) error {
	if other == nil {
		return fmt.Errorf("AddInPlace: %w", ErrNilTensor)
	}
	src := other
	if !SameShape(t, other) {
		var err error
		if src, err = BroadcastTo(other, t.shape); err != nil {
			return fmt.Errorf("AddInPlace: %w", err)
		}
	}
	parallel.For(len(t.data), func(start, end int) {
		for i := start; i < end; i++ {
			t.data[i] += src.data[i]
		}
	})
	return nil
}
