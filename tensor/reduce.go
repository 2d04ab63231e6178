package tensor

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/fumitoshi0524/ixeoriLoss/internal/parallel"
)

// Sum adds every element of a and returns a tensor of shape [1].
func Sum(a *Tensor) *Tensor {
	return wrap([]float64{floats.Sum(a.data)}, []int{1})
}

// Mean averages every element of a and returns a tensor of shape [1].
func Mean(a *Tensor) *Tensor {
	out := Sum(a)
	out.data[0] /= float64(len(a.data))
	return out
}

// SumAxis sums elements along the given axis and returns a tensor with that
// axis removed. Reducing the only axis of a vector yields shape [1].
func SumAxis(a *Tensor, axis int) (*Tensor, error) {
	rank := a.Rank()
	axis, err := normalizeAxis(axis, rank)
	if err != nil {
		return nil, err
	}
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= a.shape[i]
	}
	inner := 1
	for i := axis + 1; i < rank; i++ {
		inner *= a.shape[i]
	}
	axisSize := a.shape[axis]
	outShape := make([]int, 0, rank-1)
	for i, dim := range a.shape {
		if i == axis {
			continue
		}
		outShape = append(outShape, dim)
	}
	if len(outShape) == 0 {
		outShape = []int{1}
	}
	out := Zeros(outShape...)
	parallel.For(outer, func(start, end int) {
		for o := start; o < end; o++ {
			dstBase := o * inner
			srcBase := o * axisSize * inner
			for in := 0; in < inner; in++ {
				s := 0.0
				for k := 0; k < axisSize; k++ {
					s += a.data[srcBase+k*inner+in]
				}
				out.data[dstBase+in] = s
			}
		}
	})
	return out, nil
}

// MeanAxis computes the mean along the given axis and returns a tensor with
// that axis removed.
func MeanAxis(a *Tensor, axis int) (*Tensor, error) {
	s, err := SumAxis(a, axis)
	if err != nil {
		return nil, err
	}
	ax, _ := normalizeAxis(axis, a.Rank())
	s.Scale(1.0 / float64(a.shape[ax]))
	return s, nil
}

// MeanAxes averages over every listed axis. With no axes it is Mean.
// Axes may be negative; repeating an axis is an error.
func MeanAxes(a *Tensor, axes ...int) (*Tensor, error) {
	if len(axes) == 0 {
		return Mean(a), nil
	}
	rank := len(a.shape)
	norm := make([]int, len(axes))
	seen := make(map[int]bool, len(axes))
	for i, axis := range axes {
		ax, err := normalizeAxis(axis, rank)
		if err != nil {
			return nil, err
		}
		if seen[ax] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateAxis, axis)
		}
		seen[ax] = true
		norm[i] = ax
	}
	// Reduce the highest axis first so the remaining indices stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(norm)))
	out := a
	for _, ax := range norm {
		var err error
		if out, err = MeanAxis(out, ax); err != nil {
			return nil, err
		}
	}
	return out, nil
}
