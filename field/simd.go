// Package field
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package field

import "fmt"

// Packed is a generic SIMD-lane vector of CircuitField values: F_cN. It
// works for any CircuitField implementation and any lane count N
// (including the trivial N=1 case), so every configuration in configs.go
// reuses it instead of hand-rolling a packed type per field.
type Packed struct {
	lanes []CircuitField
}

// NewPacked packs exactly len(lanes) CircuitField values into one SIMD
// vector.
func NewPacked(lanes []CircuitField) Packed {
	cp := make([]CircuitField, len(lanes))
	copy(cp, lanes)
	return Packed{lanes: cp}
}

func (a Packed) other(o SimdCircuitField) Packed {
	b, ok := o.(Packed)
	if !ok {
		panic(fmt.Sprintf("field: mismatched SimdCircuitField implementation %T", o))
	}
	if len(a.lanes) != len(b.lanes) {
		panic("field: mismatched pack size between SimdCircuitField operands")
	}
	return b
}

func (a Packed) elementwise(o SimdCircuitField, op func(x, y CircuitField) CircuitField) Packed {
	b := a.other(o)
	r := make([]CircuitField, len(a.lanes))
	for i := range r {
		r[i] = op(a.lanes[i], b.lanes[i])
	}
	return Packed{lanes: r}
}

func (a Packed) Add(o SimdCircuitField) SimdCircuitField {
	return a.elementwise(o, func(x, y CircuitField) CircuitField { return x.Add(y) })
}

func (a Packed) Sub(o SimdCircuitField) SimdCircuitField {
	return a.elementwise(o, func(x, y CircuitField) CircuitField { return x.Sub(y) })
}

func (a Packed) Mul(o SimdCircuitField) SimdCircuitField {
	return a.elementwise(o, func(x, y CircuitField) CircuitField { return x.Mul(y) })
}

func (a Packed) Neg() SimdCircuitField {
	r := make([]CircuitField, len(a.lanes))
	for i, v := range a.lanes {
		r[i] = v.Neg()
	}
	return Packed{lanes: r}
}

func (a Packed) IsZero() bool {
	for _, v := range a.lanes {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func (a Packed) Equal(o SimdCircuitField) bool {
	b := a.other(o)
	for i := range a.lanes {
		if !a.lanes[i].Equal(b.lanes[i]) {
			return false
		}
	}
	return true
}

func (a Packed) Unpack() []CircuitField {
	cp := make([]CircuitField, len(a.lanes))
	copy(cp, a.lanes)
	return cp
}

func (a Packed) Serialize() []byte {
	var buf []byte
	for _, v := range a.lanes {
		buf = append(buf, v.Serialize()...)
	}
	return buf
}

// PackedExt is the generic SIMD-packed extension field: F = F_e^N. Like
// Packed, it is reused across every configuration regardless of N or the
// concrete ChallengeField implementation.
type PackedExt struct {
	lanes []ChallengeField
}

// NewPackedExt packs exactly len(lanes) ChallengeField values into one F
// element.
func NewPackedExt(lanes []ChallengeField) PackedExt {
	cp := make([]ChallengeField, len(lanes))
	copy(cp, lanes)
	return PackedExt{lanes: cp}
}

// Lanes returns a defensive copy of the N challenge-field lanes.
func (a PackedExt) Lanes() []ChallengeField {
	cp := make([]ChallengeField, len(a.lanes))
	copy(cp, a.lanes)
	return cp
}

// Unpack is an alias of Lanes satisfying the Field interface.
func (a PackedExt) Unpack() []ChallengeField { return a.Lanes() }

func (a PackedExt) other(o Field) PackedExt {
	b, ok := o.(PackedExt)
	if !ok {
		panic(fmt.Sprintf("field: mismatched Field implementation %T", o))
	}
	if len(a.lanes) != len(b.lanes) {
		panic("field: mismatched pack size between Field operands")
	}
	return b
}

func (a PackedExt) Add(o Field) Field {
	b := a.other(o)
	r := make([]ChallengeField, len(a.lanes))
	for i := range r {
		r[i] = a.lanes[i].Add(b.lanes[i])
	}
	return PackedExt{lanes: r}
}

func (a PackedExt) Sub(o Field) Field {
	b := a.other(o)
	r := make([]ChallengeField, len(a.lanes))
	for i := range r {
		r[i] = a.lanes[i].Sub(b.lanes[i])
	}
	return PackedExt{lanes: r}
}

func (a PackedExt) Mul(o Field) Field {
	b := a.other(o)
	r := make([]ChallengeField, len(a.lanes))
	for i := range r {
		r[i] = a.lanes[i].Mul(b.lanes[i])
	}
	return PackedExt{lanes: r}
}

func (a PackedExt) Neg() Field {
	r := make([]ChallengeField, len(a.lanes))
	for i, v := range a.lanes {
		r[i] = v.Neg()
	}
	return PackedExt{lanes: r}
}

func (a PackedExt) IsZero() bool {
	for _, v := range a.lanes {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func (a PackedExt) Equal(o Field) bool {
	b := a.other(o)
	for i := range a.lanes {
		if !a.lanes[i].Equal(b.lanes[i]) {
			return false
		}
	}
	return true
}

func (a PackedExt) Serialize() []byte {
	var buf []byte
	for _, v := range a.lanes {
		buf = append(buf, v.Serialize()...)
	}
	return buf
}
