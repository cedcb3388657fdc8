package tensor

import "errors"

// ToSequence converts a batched array into the plain nested sequence for
// batch element 0. The conversion order is fixed: device buffers are
// transferred to host first, then converted to plain numbers, and the batch
// index is selected explicitly rather than assuming the batch axis is absent.
//
// Accepted inputs are the closed set of shapes the runtime can hand us:
// a Tensor (device- or host-resident) or an already-plain nested []any.
func ToSequence(v any) (any, error) {
	switch x := v.(type) {
	case Tensor:
		h := x.ToHost()
		sel, err := h.Select(0)
		if err != nil {
			return nil, err
		}
		return sel.ToNested(), nil
	case *Tensor:
		if x == nil {
			return nil, errors.New("tensor: nil input")
		}
		return ToSequence(*x)
	case []any:
		// Already plain; the outer slice is still the batch axis.
		if len(x) == 0 {
			return nil, errors.New("tensor: empty batch")
		}
		return x[0], nil
	case nil:
		return nil, errors.New("tensor: nil input")
	default:
		return nil, errors.New("tensor: unsupported input type")
	}
}
