package tensor

import "errors"

var (
	ErrNilTensor        = errors.New("tensor is nil")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrDataSize         = errors.New("data and shape mismatch")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrAxisOutOfRange   = errors.New("axis out of range")
	ErrDuplicateAxis    = errors.New("duplicate axis")
	ErrIncompatibleDims = errors.New("incompatible broadcast dimensions")
)
