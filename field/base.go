// Package field
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package field

import (
	"fmt"
	"io"
	"math/big"
)

// Base is a prime field element reduced modulo a fixed modulus. It backs
// every CircuitField used in this module (M31, GF(2), and the BN254 scalar
// field all reduce to the same mod-big.Int kernel; see SPEC_FULL.md §5 for
// why no pack dependency supplies a more specific primitive).
type Base struct {
	mod *big.Int
	v   *big.Int
}

func newBase(mod *big.Int, v *big.Int) Base {
	return Base{mod: mod, v: new(big.Int).Mod(v, mod)}
}

// BaseFromUint64 builds a Base element mod m from a uint64 value.
func BaseFromUint64(mod *big.Int, v uint64) Base {
	return newBase(mod, new(big.Int).SetUint64(v))
}

// BaseFromBigInt builds a Base element mod m, reducing v into range.
func BaseFromBigInt(mod *big.Int, v *big.Int) Base {
	return newBase(mod, v)
}

func (a Base) other(o CircuitField) Base {
	b, ok := o.(Base)
	if !ok {
		panic(fmt.Sprintf("field: mismatched CircuitField implementation %T", o))
	}
	if a.mod.Cmp(b.mod) != 0 {
		panic("field: mismatched modulus between CircuitField operands")
	}
	return b
}

func (a Base) Add(o CircuitField) CircuitField {
	b := a.other(o)
	return newBase(a.mod, new(big.Int).Add(a.v, b.v))
}

func (a Base) Sub(o CircuitField) CircuitField {
	b := a.other(o)
	return newBase(a.mod, new(big.Int).Sub(a.v, b.v))
}

func (a Base) Mul(o CircuitField) CircuitField {
	b := a.other(o)
	return newBase(a.mod, new(big.Int).Mul(a.v, b.v))
}

func (a Base) Neg() CircuitField {
	return newBase(a.mod, new(big.Int).Neg(a.v))
}

func (a Base) Inv() CircuitField {
	if a.v.Sign() == 0 {
		panic("field: inverse of zero")
	}
	return Base{mod: a.mod, v: new(big.Int).ModInverse(a.v, a.mod)}
}

func (a Base) IsZero() bool {
	return a.v.Sign() == 0
}

func (a Base) Equal(o CircuitField) bool {
	b := a.other(o)
	return a.v.Cmp(b.v) == 0
}

func (a Base) String() string {
	return a.v.String()
}

// serializedSize returns the fixed byte width used to serialize elements
// mod m: floor(bitlen(m)/8)+1, which is ceil(bitlen(m)/8) except when
// bitlen(m) is a multiple of 8, where it is one byte more. Every residue
// (including m-1) fits.
func serializedSize(mod *big.Int) int {
	return (mod.BitLen() + 8) / 8
}

func (a Base) Serialize() []byte {
	size := serializedSize(a.mod)
	buf := make([]byte, size)
	a.v.FillBytes(buf)
	// FillBytes is big-endian; the wire format is little-endian per
	// spec.md §6 ("little-endian binary layout").
	reverse(buf)
	return buf
}

// DeserializeBase reads exactly serializedSize(mod) bytes and reduces them
// mod m.
func DeserializeBase(mod *big.Int, r io.Reader) (Base, error) {
	buf := make([]byte, serializedSize(mod))
	if _, err := io.ReadFull(r, buf); err != nil {
		return Base{}, err
	}
	reverse(buf)
	return newBase(mod, new(big.Int).SetBytes(buf)), nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
