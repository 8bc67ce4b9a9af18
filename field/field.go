// Package field
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field defines the field-hierarchy contract the rest of the GKR
// engine is built against: a circuit (base) field, a SIMD-packed circuit
// field, a challenge (extension) field, and a SIMD-packed extension field,
// plus the cross-level arithmetic the sumcheck protocol needs.
//
// The four types never travel separately: every entry point in this
// module takes a single GKRConfig value and every field value produced by
// that config is guaranteed to interoperate only with values from the same
// config. Mixing field values from two different GKRConfig instances is a
// programmer error: extension-field values from different configs panic on
// a tower mismatch, but base-field values are only checked for equal
// moduli, so those of two configs sharing a modulus mix without a panic.
package field

import "io"

// CircuitField is F_c: the base field circuit wires are valued in.
type CircuitField interface {
	Add(CircuitField) CircuitField
	Sub(CircuitField) CircuitField
	Mul(CircuitField) CircuitField
	Neg() CircuitField
	Inv() CircuitField
	IsZero() bool
	Equal(CircuitField) bool
	Serialize() []byte
	String() string
}

// SimdCircuitField is F_cN = F_c^N: a fixed-width SIMD vector of N base
// field lanes, combined componentwise.
type SimdCircuitField interface {
	Add(SimdCircuitField) SimdCircuitField
	Sub(SimdCircuitField) SimdCircuitField
	Mul(SimdCircuitField) SimdCircuitField
	Neg() SimdCircuitField
	IsZero() bool
	Equal(SimdCircuitField) bool
	Unpack() []CircuitField
	Serialize() []byte
}

// ChallengeField is F_e: an extension of F_c of degree d, used for every
// sumcheck random point and for the running claim.
type ChallengeField interface {
	Add(ChallengeField) ChallengeField
	Sub(ChallengeField) ChallengeField
	Mul(ChallengeField) ChallengeField
	Neg() ChallengeField
	Inv() ChallengeField
	Exp(e uint64) ChallengeField
	IsZero() bool
	Equal(ChallengeField) bool
	Serialize() []byte
	String() string
}

// Field is F: the SIMD-packed extension, F = F_e^N when N>1 and F = F_e
// when N==1. It is the type of every sumcheck round-polynomial evaluation.
type Field interface {
	Add(Field) Field
	Sub(Field) Field
	Mul(Field) Field
	Neg() Field
	IsZero() bool
	Equal(Field) bool
	// Unpack returns the N challenge-field lanes backing this value (N=1
	// for non-SIMD configurations), used by the sumcheck SIMD phase to
	// turn a folded-down Field claim into per-lane ChallengeField values.
	Unpack() []ChallengeField
	Serialize() []byte
}

// GKRConfig is the capability record binding one (CircuitField,
// SimdCircuitField, ChallengeField, Field) tower together along with the
// cross-level operations the sumcheck algebra needs. It replaces the
// generic-associated-type trait hierarchy of the original implementation
// with a closed, runtime-checked configuration object: concrete
// configurations are constructed once (see configs.go) and every GKR
// entry point is parameterized by a single GKRConfig value, which rules
// out mixing field values across configurations at the API boundary.
type GKRConfig interface {
	Name() string

	// PackSize returns N, the SIMD lane count. Always a power of two.
	PackSize() int

	CircuitFieldSerializedSize() int
	ChallengeFieldSerializedSize() int
	FieldSerializedSize() int

	ZeroCircuitField() CircuitField
	OneCircuitField() CircuitField
	CircuitFieldFromUint64(uint64) CircuitField

	ZeroChallengeField() ChallengeField
	OneChallengeField() ChallengeField
	// Inv2ChallengeField returns the canonical INV_2 constant (the
	// multiplicative inverse of 2) for fields of odd characteristic. It
	// panics for characteristic-2 fields, where 2 == 0.
	Inv2ChallengeField() ChallengeField
	RandomChallengeField(rng io.Reader) ChallengeField
	// ChallengeFieldFromBytes reduces an arbitrary byte string into a
	// canonical challenge field element; used by transcripts to turn
	// absorbed hash output into a field element.
	ChallengeFieldFromBytes(b []byte) ChallengeField

	ZeroField() Field
	OneField() Field

	ZeroSimdCircuitField() SimdCircuitField
	// PackCircuitField packs exactly PackSize() circuit-field values into
	// one SIMD lane vector.
	PackCircuitField(lanes []CircuitField) SimdCircuitField

	// Cross-level ops, named after the original GKRConfig trait.
	ChallengeMulCircuitField(a ChallengeField, b CircuitField) ChallengeField
	FieldMulCircuitField(a Field, b CircuitField) Field
	FieldAddSimdCircuitField(a Field, b SimdCircuitField) Field
	FieldMulSimdCircuitField(a Field, b SimdCircuitField) Field
	ChallengeMulField(a ChallengeField, b Field) Field
	CircuitFieldToSimdCircuitField(a CircuitField) SimdCircuitField
	SimdCircuitFieldToField(a SimdCircuitField) Field
	CircuitFieldMulSimdCircuitField(a CircuitField, b SimdCircuitField) SimdCircuitField
	SimdCircuitFieldMulChallengeField(a SimdCircuitField, b ChallengeField) Field
	CircuitFieldToChallengeField(a CircuitField) ChallengeField
	// ChallengeFieldToCircuitField attempts the reverse downcast, used only
	// to resolve CoefType Random coefficients (spec.md §3 invariant iv). It
	// only succeeds for configurations where F_e is a degree-1 extension
	// of F_c (ok==false otherwise): a proper extension field has no
	// canonical projection back down to the base field, so a circuit with
	// a Random-typed gate is only well-formed against such a config.
	ChallengeFieldToCircuitField(a ChallengeField) (CircuitField, bool)

	DeserializeCircuitField(r io.Reader) (CircuitField, error)
	DeserializeChallengeField(r io.Reader) (ChallengeField, error)
	DeserializeField(r io.Reader) (Field, error)
}
