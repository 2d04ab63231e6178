package tensor

import (
	"gonum.org/v1/gonum/floats"

	"github.com/fumitoshi0524/ixeoriLoss/internal/parallel"
)

func AddScalar(a *Tensor, value float64) *Tensor {
	out := a.Clone()
	floats.AddConst(value, out.data)
	return out
}

func MulScalar(a *Tensor, value float64) *Tensor {
	out := a.Clone()
	out.Scale(value)
	return out
}

// Square returns a tensor holding the square of every element of a.
func Square(a *Tensor) *Tensor {
	out := ZerosLike(a)
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = a.data[i] * a.data[i]
		}
	})
	return out
}

// Scale multiplies every element of t by v in place.
func (t *Tensor) Scale(v float64) {
	parallel.For(len(t.data), func(start, end int) {
		floats.Scale(v, t.data[start:end])
	})
}

// Clamp limits every element of t to [-limit, limit] in place.
func (t *Tensor) Clamp(limit float64) {
	if limit < 0 {
		return
	}
	parallel.For(len(t.data), func(start, end int) {
		for i := start; i < end; i++ {
			v := t.data[i]
			if v > limit {
				t.data[i] = limit
			} else if v < -limit {
				t.data[i] = -limit
			}
		}
	})
}
