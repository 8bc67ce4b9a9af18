// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package field

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"
)

func TestBaseArithmetic(t *testing.T) {
	mod := big.NewInt(2147483647)
	a := BaseFromUint64(mod, 10)
	b := BaseFromUint64(mod, 3)

	if !a.Add(b).Equal(BaseFromUint64(mod, 13)) {
		panic("test failed: Add")
	}
	if !a.Sub(b).Equal(BaseFromUint64(mod, 7)) {
		panic("test failed: Sub")
	}
	if !a.Mul(b).Equal(BaseFromUint64(mod, 30)) {
		panic("test failed: Mul")
	}
	if !a.Mul(a.Inv()).Equal(BaseFromUint64(mod, 1)) {
		panic("test failed: Inv")
	}
	if BaseFromUint64(mod, 0).IsZero() != true {
		panic("test failed: IsZero")
	}
}

// TestGF2EdgeCases is spec.md §8 scenario S4: a+a=0 and mul_by_base_field
// identities over GF(2).
func TestGF2EdgeCases(t *testing.T) {
	cfg := NewGF2Ext127KeccakConfig()
	a := cfg.RandomChallengeField(rand.New(rand.NewSource(1)))

	if !a.Add(a).IsZero() {
		panic("test failed: a+a != 0 over GF(2)")
	}

	one := cfg.OneField()
	zero := cfg.ZeroField()
	simdZero := cfg.CircuitFieldToSimdCircuitField(cfg.ZeroCircuitField())
	simdOne := cfg.CircuitFieldToSimdCircuitField(cfg.OneCircuitField())

	if !cfg.FieldMulSimdCircuitField(one, simdZero).Equal(zero) {
		panic("test failed: mul_by_base_field(F, 0) != ZERO")
	}
	if !cfg.FieldMulSimdCircuitField(one, simdOne).Equal(one) {
		panic("test failed: mul_by_base_field(F, 1) != F")
	}
}

// TestSerializationRoundTrip is a scaled-down version of spec.md §8
// scenario S5: random field elements round-trip through Serialize/
// Deserialize at the challenge-field and circuit-field levels, and
// SERIALIZED_SIZE matches the written byte count exactly.
func TestSerializationRoundTrip(t *testing.T) {
	configs := []GKRConfig{
		NewM31TrivialSimdSha256Config(),
		NewBN254KeccakConfig(),
		NewGF2Ext127KeccakConfig(),
	}

	rng := rand.New(rand.NewSource(42))
	for _, cfg := range configs {
		for i := 0; i < 200; i++ {
			e := cfg.RandomChallengeField(rng)
			buf := e.Serialize()
			if len(buf) != cfg.ChallengeFieldSerializedSize() {
				panic("test failed: challenge field serialized size mismatch")
			}
			e2, err := cfg.DeserializeChallengeField(bytes.NewReader(buf))
			if err != nil {
				panic(err)
			}
			if !e.Equal(e2) {
				panic("test failed: challenge field round trip mismatch")
			}
		}

		for i := 0; i < 200; i++ {
			c := cfg.CircuitFieldFromUint64(uint64(rng.Uint32()))
			buf := c.Serialize()
			if len(buf) != cfg.CircuitFieldSerializedSize() {
				panic("test failed: circuit field serialized size mismatch")
			}
			c2, err := cfg.DeserializeCircuitField(bytes.NewReader(buf))
			if err != nil {
				panic(err)
			}
			if !c.Equal(c2) {
				panic("test failed: circuit field round trip mismatch")
			}
		}
	}
}

func TestExtArithmetic(t *testing.T) {
	cfg := NewM31TrivialSimdSha256Config()
	a := cfg.RandomChallengeField(rand.New(rand.NewSource(7)))
	b := cfg.RandomChallengeField(rand.New(rand.NewSource(8)))

	if !a.Add(b).Sub(b).Equal(a) {
		panic("test failed: (a+b)-b != a")
	}
	if !a.IsZero() {
		if !a.Mul(a.Inv()).Equal(cfg.OneChallengeField()) {
			panic("test failed: a*a^-1 != 1")
		}
	}
}
