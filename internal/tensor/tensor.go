// Package tensor holds the minimal numeric array model the service needs to
// move model output across the wire: a flat row-major buffer plus shape, with
// an explicit residency tag instead of duck-typed capability checks.
package tensor

import (
	"errors"
	"fmt"
)

// Location describes where a tensor's buffer lives.
type Location int

const (
	// LocDevice means the buffer is accelerator-resident and must be
	// transferred to host memory before conversion.
	LocDevice Location = iota
	// LocHost means the buffer lives in host memory in the runtime's
	// native layout.
	LocHost
	// LocPlain means the data is already a plain nested sequence.
	LocPlain
)

func (l Location) String() string {
	switch l {
	case LocDevice:
		return "device"
	case LocHost:
		return "host"
	case LocPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Tensor is a dense row-major array. Shape[0] is the batch dimension for
// all model outputs handled by this service.
type Tensor struct {
	Shape []int
	Data  []float64
	Loc   Location
}

// New builds a tensor after checking that the buffer matches the shape.
func New(loc Location, shape []int, data []float64) (Tensor, error) {
	n := numel(shape)
	if n != len(data) {
		return Tensor{}, fmt.Errorf("tensor: shape %v wants %d elements, have %d", shape, n, len(data))
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: data, Loc: loc}, nil
}

// Zeros builds a zero-filled tensor of the given shape.
func Zeros(loc Location, shape ...int) Tensor {
	return Tensor{Shape: append([]int(nil), shape...), Data: make([]float64, numel(shape)), Loc: loc}
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Rank returns the number of axes.
func (t Tensor) Rank() int { return len(t.Shape) }

// Numel returns the total element count.
func (t Tensor) Numel() int { return numel(t.Shape) }

// At reads the element at the given row-major indices.
func (t Tensor) At(idx ...int) float64 {
	return t.Data[t.offset(idx)]
}

// Set writes the element at the given row-major indices.
func (t *Tensor) Set(v float64, idx ...int) {
	t.Data[t.offset(idx)] = v
}

func (t Tensor) offset(idx []int) int {
	off := 0
	for i, d := range idx {
		off = off*t.Shape[i] + d
	}
	return off
}

// ToHost returns a host-resident copy when the tensor is device-resident,
// or the tensor unchanged otherwise.
func (t Tensor) ToHost() Tensor {
	if t.Loc != LocDevice {
		return t
	}
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return Tensor{Shape: t.Shape, Data: data, Loc: LocHost}
}

// Select returns the sub-tensor at index i along the leading axis.
func (t Tensor) Select(i int) (Tensor, error) {
	if t.Rank() == 0 {
		return Tensor{}, errors.New("tensor: select on rank-0 tensor")
	}
	if i < 0 || i >= t.Shape[0] {
		return Tensor{}, fmt.Errorf("tensor: index %d out of range for axis of length %d", i, t.Shape[0])
	}
	stride := numel(t.Shape[1:])
	return Tensor{
		Shape: append([]int(nil), t.Shape[1:]...),
		Data:  t.Data[i*stride : (i+1)*stride],
		Loc:   t.Loc,
	}, nil
}

// ToNested converts the tensor to a plain nested sequence of float64.
// A rank-0 tensor converts to a bare number.
func (t Tensor) ToNested() any {
	if t.Rank() == 0 {
		return t.Data[0]
	}
	return nested(t.Shape, t.Data)
}

func nested(shape []int, data []float64) any {
	if len(shape) == 1 {
		out := make([]any, shape[0])
		for i, v := range data {
			out[i] = v
		}
		return out
	}
	stride := numel(shape[1:])
	out := make([]any, shape[0])
	for i := 0; i < shape[0]; i++ {
		out[i] = nested(shape[1:], data[i*stride:(i+1)*stride])
	}
	return out
}
