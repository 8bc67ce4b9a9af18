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

// extTower bundles the shape of a degree-d extension of a prime field: the
// base modulus and the non-residue vector defining the reduction
// x^d = sum_i nonResidue[i]*x^i. Every Ext element carries a pointer to
// the tower it belongs to so arithmetic can assert two operands come from
// the same extension.
type extTower struct {
	mod        *big.Int
	degree     int
	nonResidue []*big.Int // length == degree
}

// Ext is a degree-d extension field element, represented as its
// coefficients in the basis {1, x, ..., x^{d-1}}. It implements
// ChallengeField. For d==1 it behaves like Base and is used as the
// trivial (degree-1) extension some configurations need (e.g. BN254,
// where F_e coincides with F_c).
type Ext struct {
	tower *extTower
	c     []*big.Int // length == tower.degree
}

func newExtTower(mod *big.Int, nonResidue []*big.Int) *extTower {
	reduced := make([]*big.Int, len(nonResidue))
	for i, v := range nonResidue {
		reduced[i] = new(big.Int).Mod(v, mod)
	}
	return &extTower{mod: mod, degree: len(nonResidue), nonResidue: reduced}
}

func (t *extTower) zero() Ext {
	c := make([]*big.Int, t.degree)
	for i := range c {
		c[i] = new(big.Int)
	}
	return Ext{tower: t, c: c}
}

func (t *extTower) fromCircuitField(v *big.Int) Ext {
	e := t.zero()
	e.c[0] = new(big.Int).Mod(v, t.mod)
	return e
}

func (a Ext) other(o ChallengeField) Ext {
	b, ok := o.(Ext)
	if !ok {
		panic(fmt.Sprintf("field: mismatched ChallengeField implementation %T", o))
	}
	if a.tower != b.tower {
		panic("field: mismatched extension tower between ChallengeField operands")
	}
	return b
}

func (a Ext) Add(o ChallengeField) ChallengeField {
	b := a.other(o)
	r := a.tower.zero()
	for i := range r.c {
		r.c[i].Add(a.c[i], b.c[i])
		r.c[i].Mod(r.c[i], a.tower.mod)
	}
	return r
}

func (a Ext) Sub(o ChallengeField) ChallengeField {
	b := a.other(o)
	r := a.tower.zero()
	for i := range r.c {
		r.c[i].Sub(a.c[i], b.c[i])
		r.c[i].Mod(r.c[i], a.tower.mod)
	}
	return r
}

func (a Ext) Neg() ChallengeField {
	r := a.tower.zero()
	for i := range r.c {
		r.c[i].Neg(a.c[i])
		r.c[i].Mod(r.c[i], a.tower.mod)
	}
	return r
}

// Mul multiplies two degree-(d-1) polynomials schoolbook-style and reduces
// the degree-(2d-2) product using the tower's non-residue relation
// x^d = sum_j nonResidue[j]*x^j, processed from the highest surplus degree
// down so each reduction step only ever reintroduces lower degrees.
func (a Ext) Mul(o ChallengeField) ChallengeField {
	b := a.other(o)
	t := a.tower
	d := t.degree
	mod := t.mod

	prod := make([]*big.Int, 2*d-1)
	for i := range prod {
		prod[i] = new(big.Int)
	}
	tmp := new(big.Int)
	for i := 0; i < d; i++ {
		if a.c[i].Sign() == 0 {
			continue
		}
		for j := 0; j < d; j++ {
			tmp.Mul(a.c[i], b.c[j])
			prod[i+j].Add(prod[i+j], tmp)
		}
	}

	if d > 1 {
		for k := 2*d - 2; k >= d; k-- {
			coeff := prod[k]
			if coeff.Sign() != 0 {
				for j := 0; j < d; j++ {
					tmp.Mul(coeff, t.nonResidue[j])
					prod[k-d+j].Add(prod[k-d+j], tmp)
				}
			}
			prod[k] = new(big.Int)
		}
	}

	r := t.zero()
	for i := 0; i < d; i++ {
		r.c[i].Mod(prod[i], mod)
	}
	return r
}

func (a Ext) IsZero() bool {
	for _, c := range a.c {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

func (a Ext) Equal(o ChallengeField) bool {
	b := a.other(o)
	for i := range a.c {
		if a.c[i].Cmp(b.c[i]) != 0 {
			return false
		}
	}
	return true
}

// Exp computes a^e via repeated squaring using Mul.
func (a Ext) Exp(e uint64) ChallengeField {
	t := a.tower
	result := ChallengeField(t.fromCircuitField(big.NewInt(1)))
	base := ChallengeField(a)
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

func (a Ext) Inv() ChallengeField {
	if a.IsZero() {
		panic("field: inverse of zero")
	}
	t := a.tower
	q := new(big.Int).Exp(t.mod, big.NewInt(int64(t.degree)), nil)
	q.Sub(q, big.NewInt(2))
	if q.Sign() == 0 {
		return a // q==2 means a itself is its own inverse (GF(2) case a==1)
	}
	// Fermat: a^(p^d-2). The exponent does not fit a uint64 for the
	// configurations this module ships (M31^3: 93 bits, GF(2)^127: 127
	// bits, BN254: 254 bits), so a big.Int-driven square-and-multiply is
	// used instead of Exp.
	return expBig(ChallengeField(a), q)
}

// expBig computes a^e by square-and-multiply from the most significant bit,
// for exponents too large to fit the uint64-based Exp.
func expBig(a ChallengeField, e *big.Int) ChallengeField {
	bits := e.BitLen()
	if bits == 0 {
		panic("field: zero exponent in expBig")
	}
	acc := a
	for i := bits - 2; i >= 0; i-- {
		acc = acc.Mul(acc)
		if e.Bit(i) == 1 {
			acc = acc.Mul(a)
		}
	}
	return acc
}

func (a Ext) String() string {
	s := "("
	for i, c := range a.c {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return s + ")"
}

func (a Ext) Serialize() []byte {
	size := serializedSize(a.tower.mod)
	buf := make([]byte, size*a.tower.degree)
	for i, c := range a.c {
		lane := make([]byte, size)
		c.FillBytes(lane)
		reverse(lane)
		copy(buf[i*size:(i+1)*size], lane)
	}
	return buf
}

// DeserializeExt reads exactly ChallengeFieldSerializedSize() bytes off r.
func DeserializeExt(t *extTower, r io.Reader) (Ext, error) {
	size := serializedSize(t.mod)
	e := t.zero()
	for i := 0; i < t.degree; i++ {
		lane := make([]byte, size)
		if _, err := io.ReadFull(r, lane); err != nil {
			return Ext{}, err
		}
		reverse(lane)
		e.c[i] = new(big.Int).Mod(new(big.Int).SetBytes(lane), t.mod)
	}
	return e, nil
}
