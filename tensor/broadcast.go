package tensor

import (
	"fmt"

	"github.com/fumitoshi0524/ixeoriLoss/internal/parallel"
)

// BroadcastShapes returns the shape two operands broadcast to. Shapes are
// aligned at the trailing dimension and a size-1 dimension stretches to
// match the other operand.
func BroadcastShapes(a, b []int) ([]int, error) {
	rank := max(len(a), len(b))
	out := make([]int, rank)
	for i := 1; i <= rank; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db, db == 1:
			out[rank-i] = da
		case da == 1:
			out[rank-i] = db
		default:
			return nil, fmt.Errorf("%w: %v and %v", ErrIncompatibleDims, a, b)
		}
	}
	return out, nil
}

// BroadcastTo materializes t expanded to targetShape. The result never
// aliases t.
func BroadcastTo(t *Tensor, targetShape []int) (*Tensor, error) {
	if t == nil {
		return nil, fmt.Errorf("BroadcastTo: %w", ErrNilTensor)
	}
	if equalShapes(t.shape, targetShape) {
		return t.Clone(), nil
	}
	strides, err := broadcastStrides(t, targetShape)
	if err != nil {
		return nil, err
	}
	out := Zeros(targetShape...)
	outStrides := out.strides
	parallel.For(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			rem := i
			src := 0
			for d, s := range outStrides {
				idx := rem / s
				rem -= idx * s
				src += idx * strides[d]
			}
			out.data[i] = t.data[src]
		}
	})
	return out, nil
}

// broadcastStrides returns per-dimension source strides for reading t as if
// it had targetShape; broadcast dimensions get a stride of zero.
func broadcastStrides(t *Tensor, targetShape []int) ([]int, error) {
	srcRank := len(t.shape)
	tgtRank := len(targetShape)
	if tgtRank < srcRank {
		return nil, fmt.Errorf("%w: cannot broadcast %v to lower rank %v", ErrIncompatibleDims, t.shape, targetShape)
	}
	off := tgtRank - srcRank
	strides := make([]int, tgtRank)
	for i := tgtRank - 1; i >= off; i-- {
		srcDim := t.shape[i-off]
		switch {
		case srcDim == targetShape[i]:
			strides[i] = t.strides[i-off]
		case srcDim == 1:
			strides[i] = 0
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v to %v", ErrIncompatibleDims, t.shape, targetShape)
		}
	}
	return strides, nil
}

// broadcastPair expands a and b to their common shape, skipping the copy
// when an operand already has it.
func broadcastPair(a, b *Tensor) (*Tensor, *Tensor, error) {
	if a == nil || b == nil {
		return nil, nil, ErrNilTensor
	}
	if SameShape(a, b) {
		return a, b, nil
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, nil, err
	}
	if !equalShapes(a.shape, shape) {
		if a, err = BroadcastTo(a, shape); err != nil {
			return nil, nil, err
		}
	}
	if !equalShapes(b.shape, shape) {
		if b, err = BroadcastTo(b, shape); err != nil {
			return nil, nil, err
		}
	}
	return a, b, nil
}
