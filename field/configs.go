// Package field
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package field

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cloudflare/bn256"
)

// config is the shared GKRConfig implementation backing every named
// configuration below. It is unexported: callers only ever see the five
// closed constructors, which is what rules out ad-hoc configurations that
// mix field towers that were never meant to interoperate.
type config struct {
	name     string
	baseMod  *big.Int
	ext      *extTower // degree d over baseMod
	packSize int
}

func (c *config) Name() string    { return c.name }
func (c *config) PackSize() int   { return c.packSize }

func (c *config) CircuitFieldSerializedSize() int { return serializedSize(c.baseMod) }
func (c *config) ChallengeFieldSerializedSize() int {
	return serializedSize(c.baseMod) * c.ext.degree
}
func (c *config) FieldSerializedSize() int {
	return c.ChallengeFieldSerializedSize() * c.packSize
}

func (c *config) ZeroCircuitField() CircuitField { return BaseFromUint64(c.baseMod, 0) }
func (c *config) OneCircuitField() CircuitField  { return BaseFromUint64(c.baseMod, 1) }
func (c *config) CircuitFieldFromUint64(v uint64) CircuitField {
	return BaseFromUint64(c.baseMod, v)
}

func (c *config) ZeroChallengeField() ChallengeField { return c.ext.zero() }
func (c *config) OneChallengeField() ChallengeField  { return c.ext.fromCircuitField(big.NewInt(1)) }

func (c *config) Inv2ChallengeField() ChallengeField {
	if c.baseMod.Bit(0) == 0 {
		panic("field: INV_2 undefined for characteristic-2 fields")
	}
	two := c.ext.fromCircuitField(big.NewInt(2))
	return two.Inv()
}

func (c *config) RandomChallengeField(rng io.Reader) ChallengeField {
	e := c.ext.zero()
	size := serializedSize(c.baseMod)
	buf := make([]byte, size)
	for i := 0; i < c.ext.degree; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			panic(err)
		}
		e.c[i] = new(big.Int).Mod(new(big.Int).SetBytes(buf), c.baseMod)
	}
	return e
}

func (c *config) ChallengeFieldFromBytes(b []byte) ChallengeField {
	e := c.ext.zero()
	size := serializedSize(c.baseMod)
	for i := 0; i < c.ext.degree; i++ {
		lo, hi := i*size, (i+1)*size
		if hi > len(b) {
			// Not enough bytes for a full tower element: this coordinate
			// takes whatever bytes remain, and every coordinate past the
			// end of b is zero, rather than reading out of range.
			hi = len(b)
		}
		if lo >= len(b) {
			e.c[i] = big.NewInt(0)
			continue
		}
		e.c[i] = new(big.Int).Mod(new(big.Int).SetBytes(b[lo:hi]), c.baseMod)
	}
	return e
}

func (c *config) ZeroField() Field {
	lanes := make([]ChallengeField, c.packSize)
	for i := range lanes {
		lanes[i] = c.ext.zero()
	}
	return PackedExt{lanes: lanes}
}

func (c *config) OneField() Field {
	lanes := make([]ChallengeField, c.packSize)
	for i := range lanes {
		lanes[i] = c.ext.fromCircuitField(big.NewInt(1))
	}
	return PackedExt{lanes: lanes}
}

func (c *config) ZeroSimdCircuitField() SimdCircuitField {
	lanes := make([]CircuitField, c.packSize)
	for i := range lanes {
		lanes[i] = c.ZeroCircuitField()
	}
	return Packed{lanes: lanes}
}

func (c *config) PackCircuitField(lanes []CircuitField) SimdCircuitField {
	if len(lanes) != c.packSize {
		panic("field: PackCircuitField lane count mismatch")
	}
	return NewPacked(lanes)
}

func (c *config) ChallengeMulCircuitField(a ChallengeField, b CircuitField) ChallengeField {
	return a.Mul(c.CircuitFieldToChallengeField(b))
}

func (c *config) CircuitFieldToChallengeField(a CircuitField) ChallengeField {
	base, ok := a.(Base)
	if !ok {
		panic("field: CircuitFieldToChallengeField: unexpected CircuitField implementation")
	}
	return c.ext.fromCircuitField(base.v)
}

func (c *config) ChallengeFieldToCircuitField(a ChallengeField) (CircuitField, bool) {
	if c.ext.degree != 1 {
		return nil, false
	}
	e := a.(Ext)
	return Base{mod: c.baseMod, v: new(big.Int).Mod(e.c[0], c.baseMod)}, true
}

func (c *config) FieldMulCircuitField(a Field, b CircuitField) Field {
	pf := a.(PackedExt)
	cf := c.CircuitFieldToChallengeField(b)
	lanes := make([]ChallengeField, len(pf.lanes))
	for i, v := range pf.lanes {
		lanes[i] = v.Mul(cf)
	}
	return PackedExt{lanes: lanes}
}

func (c *config) FieldAddSimdCircuitField(a Field, b SimdCircuitField) Field {
	pf := a.(PackedExt)
	pb := b.(Packed)
	lanes := make([]ChallengeField, len(pf.lanes))
	for i := range lanes {
		lanes[i] = pf.lanes[i].Add(c.CircuitFieldToChallengeField(pb.lanes[i]))
	}
	return PackedExt{lanes: lanes}
}

func (c *config) FieldMulSimdCircuitField(a Field, b SimdCircuitField) Field {
	pf := a.(PackedExt)
	pb := b.(Packed)
	lanes := make([]ChallengeField, len(pf.lanes))
	for i := range lanes {
		lanes[i] = pf.lanes[i].Mul(c.CircuitFieldToChallengeField(pb.lanes[i]))
	}
	return PackedExt{lanes: lanes}
}

func (c *config) ChallengeMulField(a ChallengeField, b Field) Field {
	pb := b.(PackedExt)
	lanes := make([]ChallengeField, len(pb.lanes))
	for i, v := range pb.lanes {
		lanes[i] = a.Mul(v)
	}
	return PackedExt{lanes: lanes}
}

func (c *config) CircuitFieldToSimdCircuitField(a CircuitField) SimdCircuitField {
	lanes := make([]CircuitField, c.packSize)
	for i := range lanes {
		lanes[i] = a
	}
	return Packed{lanes: lanes}
}

func (c *config) SimdCircuitFieldToField(a SimdCircuitField) Field {
	pa := a.(Packed)
	lanes := make([]ChallengeField, len(pa.lanes))
	for i, v := range pa.lanes {
		lanes[i] = c.CircuitFieldToChallengeField(v)
	}
	return PackedExt{lanes: lanes}
}

func (c *config) CircuitFieldMulSimdCircuitField(a CircuitField, b SimdCircuitField) SimdCircuitField {
	pb := b.(Packed)
	lanes := make([]CircuitField, len(pb.lanes))
	for i, v := range pb.lanes {
		lanes[i] = a.Mul(v)
	}
	return Packed{lanes: lanes}
}

func (c *config) SimdCircuitFieldMulChallengeField(a SimdCircuitField, b ChallengeField) Field {
	return c.ChallengeMulField(b, c.SimdCircuitFieldToField(a))
}

func (c *config) DeserializeCircuitField(r io.Reader) (CircuitField, error) {
	return DeserializeBase(c.baseMod, r)
}

func (c *config) DeserializeChallengeField(r io.Reader) (ChallengeField, error) {
	return DeserializeExt(c.ext, r)
}

func (c *config) DeserializeField(r io.Reader) (Field, error) {
	lanes := make([]ChallengeField, c.packSize)
	for i := range lanes {
		e, err := DeserializeExt(c.ext, r)
		if err != nil {
			return nil, err
		}
		lanes[i] = e
	}
	return PackedExt{lanes: lanes}, nil
}

// --- concrete configurations -------------------------------------------

var m31Mod = big.NewInt(2147483647) // 2^31 - 1

func newM31Config(name string, packSize int) *config {
	// x^3 = 5, matching the common Expander M31Ext3 non-residue.
	return &config{
		name:     name,
		baseMod:  m31Mod,
		ext:      newExtTower(m31Mod, []*big.Int{big.NewInt(5), big.NewInt(0), big.NewInt(0)}),
		packSize: packSize,
	}
}

// NewM31TrivialSimdSha256Config builds F_c=M31, F_e=M31Ext3, N=1,
// transcript=SHA-256. Grounded on
// config/src/gkr_config/m31_trivial_simd_sha2.rs.
func NewM31TrivialSimdSha256Config() GKRConfig {
	return newM31Config("M31TrivialSimdSha256", 1)
}

// NewM31Simd16Sha256Config is the same tower with N=16, used for the
// GKR-square scenario (spec.md §8 S1).
func NewM31Simd16Sha256Config() GKRConfig {
	return newM31Config("M31Simd16Sha256", 16)
}

func newBN254Config(name string) *config {
	return &config{
		name:     name,
		baseMod:  bn256.Order,
		ext:      newExtTower(bn256.Order, []*big.Int{big.NewInt(0)}), // degree 1: trivial extension
		packSize: 1,
	}
}

// NewBN254KeccakConfig: F_c=F_e=BN254 scalar field, N=1. Used for the
// vanilla scenario (spec.md §8 S2).
func NewBN254KeccakConfig() GKRConfig { return newBN254Config("BN254Keccak") }

// NewBN254MIMC5Config: same tower, distinguished only by which transcript
// backend callers pair it with (see transcript.NewMIMC5Transcript).
// Grounded on BN254ConfigMIMC5 in gkr_correctness.rs.
func NewBN254MIMC5Config() GKRConfig { return newBN254Config("BN254MIMC5") }

var gf2Mod = big.NewInt(2)

// NewGF2Ext127KeccakConfig: F_c=GF(2), F_e=degree-127 extension with
// non-residue x^127 = x+1 (resolving spec.md §9 Open Question 1), N=1.
// Used for scenario S3.
func NewGF2Ext127KeccakConfig() GKRConfig {
	nonResidue := make([]*big.Int, 127)
	for i := range nonResidue {
		nonResidue[i] = big.NewInt(0)
	}
	nonResidue[0] = big.NewInt(1) // x^127 = 1 + x
	nonResidue[1] = big.NewInt(1)
	return &config{
		name:     "GF2Ext127Keccak",
		baseMod:  gf2Mod,
		ext:      newExtTower(gf2Mod, nonResidue),
		packSize: 1,
	}
}

// RandReader is a crypto/rand entropy source callers can pass to
// RandomChallengeField when they don't need reproducibility; nothing in
// this module passes it by default. Tests that need determinism pass their
// own io.Reader (e.g. a seeded *math/rand.Rand), per spec.md §6's
// random_unsafe contract.
var RandReader io.Reader = rand.Reader
