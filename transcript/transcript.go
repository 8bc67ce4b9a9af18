// Package transcript
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transcript implements the append-only Fiat-Shamir oracle: it
// binds prover/verifier messages into a single rolling hash state and
// derives challenge field elements from the absorbed prefix. It is
// generalized from the teacher's KeccakFS (fs.go): a counter-mixed rolling
// hash state, but parameterized over any stdlib hash.Hash so SHA-256,
// Keccak and MIMC5 are interchangeable backends (component B).
package transcript

import (
	"hash"

	"github.com/distributed-lab/gkr/field"
)

// Transcript is the Fiat-Shamir contract consumed by the sumcheck and GKR
// layers: append field elements or raw bytes, then draw a challenge field
// element that is a deterministic function of everything absorbed so far.
type Transcript interface {
	AppendFieldElement(field.ChallengeField)
	AppendBytes(b []byte)
	GenerateChallengeFieldElement() field.ChallengeField
}

// base is the shared implementation behind every backend: it mirrors the
// teacher's KeccakFS exactly, generalized from bn256 points/scalars to
// arbitrary serialized field elements, including the same "mix in a
// monotonic counter before squeezing" trick so two challenges drawn from
// identical state never collide.
type base struct {
	cfg     field.GKRConfig
	hasher  func() hash.Hash
	state   hash.Hash
	counter uint64
}

func newBase(cfg field.GKRConfig, hasher func() hash.Hash) *base {
	return &base{cfg: cfg, hasher: hasher, state: hasher()}
}

func (t *base) AppendFieldElement(e field.ChallengeField) {
	t.AppendBytes(e.Serialize())
}

func (t *base) AppendBytes(b []byte) {
	if _, err := t.state.Write(b); err != nil {
		panic(err)
	}
}

func (t *base) GenerateChallengeFieldElement() field.ChallengeField {
	t.counter++
	t.AppendBytes(counterBytes(t.counter))
	digest := t.state.Sum(nil)
	// Reset the rolling state to the digest so each challenge depends on
	// everything absorbed before it, and so the next append starts from a
	// fresh, still-deterministic state (keeps memory bounded, unlike
	// accumulating every absorbed byte forever).
	t.state = t.hasher()
	t.state.Write(digest)
	return t.cfg.ChallengeFieldFromBytes(digest)
}

func counterBytes(c uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(c >> (8 * i))
	}
	return b
}
