package tensor

import "fmt"

// Tensor is a dense row-major float64 array of rank >= 1.
type Tensor struct {
	data    []float64
	shape   []int
	strides []int
}

func New(data []float64, shape ...int) (*Tensor, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: shape is required", ErrInvalidShape)
	}
	total, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	if total != len(data) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrDataSize, len(data), shape)
	}
	return &Tensor{
		data:    append([]float64(nil), data...),
		shape:   append([]int(nil), shape...),
		strides: makeStrides(shape),
	}, nil
}

func MustNew(data []float64, shape ...int) *Tensor {
	t, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

func Zeros(shape ...int) *Tensor {
	size, err := shapeSize(shape)
	if err != nil {
		panic(err)
	}
	return wrap(make([]float64, size), shape)
}

func Full(value float64, shape ...int) *Tensor {
	t := Zeros(shape...)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// ZerosLike returns a zero tensor with the shape of t.
func ZerosLike(t *Tensor) *Tensor {
	return Zeros(t.shape...)
}

func (t *Tensor) Clone() *Tensor {
	if t == nil {
		return nil
	}
	return &Tensor{
		data:    append([]float64(nil), t.data...),
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
	}
}

func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of one axis. Negative axes count from the end.
func (t *Tensor) Dim(axis int) (int, error) {
	ax, err := normalizeAxis(axis, t.Rank())
	if err != nil {
		return 0, err
	}
	return t.shape[ax], nil
}

func (t *Tensor) Numel() int {
	return len(t.data)
}

func (t *Tensor) Data() []float64 {
	return append([]float64(nil), t.data...)
}

// SetData overwrites the tensor's underlying values. The provided slice must match Numel().
func (t *Tensor) SetData(values []float64) error {
	if len(values) != len(t.data) {
		return fmt.Errorf("%w: SetData got %d values, want %d", ErrDataSize, len(values), len(t.data))
	}
	copy(t.data, values)
	return nil
}

// At returns the element at the given multi-index.
func (t *Tensor) At(idx ...int) (float64, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("%w: index rank %d for shape %v", ErrShapeMismatch, len(idx), t.shape)
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			return 0, fmt.Errorf("%w: index %d out of range for dim %d", ErrAxisOutOfRange, v, i)
		}
		off += v * t.strides[i]
	}
	return t.data[off], nil
}

// Reshape returns a copy of t with a new shape holding the same number of
// elements. A single -1 dimension is inferred from the others.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	shape = append([]int(nil), shape...)
	infer := -1
	known := 1
	for i, dim := range shape {
		switch {
		case dim == -1 && infer == -1:
			infer = i
		case dim > 0:
			known *= dim
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
		}
	}
	if infer >= 0 {
		if len(t.data)%known != 0 {
			return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, t.shape, shape)
		}
		shape[infer] = len(t.data) / known
	}
	total, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	if total != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, t.shape, shape)
	}
	return wrap(append([]float64(nil), t.data...), shape), nil
}

// SameShape reports whether a and b have identical shapes.
func SameShape(a, b *Tensor) bool {
	return equalShapes(a.shape, b.shape)
}

// CopyInto copies the contents of src into dst, ensuring shapes match.
func CopyInto(dst, src *Tensor) error {
	if dst == nil || src == nil {
		return fmt.Errorf("CopyInto: %w", ErrNilTensor)
	}
	if !SameShape(dst, src) {
		return fmt.Errorf("CopyInto %v <- %v: %w", dst.shape, src.shape, ErrShapeMismatch)
	}
	copy(dst.data, src.data)
	return nil
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}

func wrap(data []float64, shape []int) *Tensor {
	return &Tensor{
		data:    data,
		shape:   append([]int(nil), shape...),
		strides: makeStrides(shape),
	}
}

func shapeSize(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("%w: empty shape", ErrInvalidShape)
	}
	total := 1
	for _, dim := range shape {
		if dim <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
		}
		total *= dim
	}
	return total, nil
}

func makeStrides(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

func normalizeAxis(axis, rank int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return 0, fmt.Errorf("%w: axis %d for rank %d", ErrAxisOutOfRange, axis, rank)
	}
	return axis, nil
}

func equalShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
