package tensor

import "fmt"

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Data  []float32
	Shape []int64
}

// New creates a tensor and checks that the data length matches the shape.
func New(data []float32, shape ...int64) (*Tensor, error) {
	n := Elems(shape)
	if int64(len(data)) != n {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (%d elements)", len(data), shape, n)
	}

	return &Tensor{Data: data, Shape: shape}, nil
}

// Elems returns the number of elements implied by a shape.
func Elems(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}

	return n
}
