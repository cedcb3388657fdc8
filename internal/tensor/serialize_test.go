package tensor

import "testing"

func TestToSequenceSelectsBatchZero(t *testing.T) {
	ts := Zeros(LocHost, 2, 3)
	ts.Set(1, 0, 0)
	ts.Set(9, 1, 0) // batch element 1 must not appear
	out, err := ToSequence(ts)
	if err != nil {
		t.Fatalf("ToSequence: %v", err)
	}
	seq, ok := out.([]any)
	if !ok || len(seq) != 3 {
		t.Fatalf("out=%v", out)
	}
	if seq[0].(float64) != 1 {
		t.Fatalf("expected batch 0 element, got %v", seq[0])
	}
}

func TestToSequenceDeviceTensor(t *testing.T) {
	dev := Zeros(LocDevice, 1, 2, 2)
	dev.Set(4, 0, 1, 1)
	out, err := ToSequence(dev)
	if err != nil {
		t.Fatalf("ToSequence: %v", err)
	}
	rows := out.([]any)
	if rows[1].([]any)[1].(float64) != 4 {
		t.Fatalf("out=%v", out)
	}
	// The original tensor must stay device-resident and untouched.
	if dev.Loc != LocDevice || dev.At(0, 1, 1) != 4 {
		t.Fatalf("source tensor mutated")
	}
}

func TestToSequencePlainPassthrough(t *testing.T) {
	batch := []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}
	out, err := ToSequence(batch)
	if err != nil {
		t.Fatalf("ToSequence: %v", err)
	}
	first, ok := out.([]any)
	if !ok || first[0].(float64) != 1.0 {
		t.Fatalf("out=%v", out)
	}
}

func TestToSequenceErrors(t *testing.T) {
	if _, err := ToSequence(nil); err == nil {
		t.Fatalf("expected error for nil")
	}
	if _, err := ToSequence([]any{}); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := ToSequence(Zeros(LocHost)); err == nil {
		t.Fatalf("expected error for rank-0 tensor")
	}
	if _, err := ToSequence("nope"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := ToSequence((*Tensor)(nil)); err == nil {
		t.Fatalf("expected error for nil pointer")
	}
}

func TestToSequencePointerTensor(t *testing.T) {
	ts := Zeros(LocHost, 1, 2)
	ts.Set(3, 0, 1)
	out, err := ToSequence(&ts)
	if err != nil {
		t.Fatalf("ToSequence: %v", err)
	}
	if out.([]any)[1].(float64) != 3 {
		t.Fatalf("out=%v", out)
	}
}
