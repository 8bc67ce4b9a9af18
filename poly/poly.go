// Package poly
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poly implements the multilinear-extension primitives shared by
// every sumcheck phase: the eq-polynomial evaluation table and the
// SIMD-lane combination that turns a packed Field value back into a
// single ChallengeField claim. Grounded directly on spec.md §4.D; no
// original_source file implements these (they sit below the sumcheck
// files actually retrieved), so the doubling-pass construction below is
// the textbook one the retrieved sumcheck code calls by name
// (EqPolynomial::eq_eval_at, unpack_and_combine).
package poly

import "github.com/distributed-lab/gkr/field"

// EqEvalAt fills out[0..2^m] with scalar * eq(r, b) for every m-bit vector
// b, where eq(r,b) = prod_j ((1-r_j) if b_j=0 else r_j). It proceeds by
// doubling passes from m=0 up so the whole table is produced in O(2^m)
// field operations: out starts as [scalar] and each bit of r doubles its
// length, writing the "b_j=0" half in place and the "b_j=1" half into the
// newly appended slots, so r_j weights bit j of the table index.
// scratchFirst and scratchSecond are neither read nor written; every call
// site passes nil. out is reused when its capacity is at least 2^m.
func EqEvalAt(r []field.ChallengeField, scalar field.ChallengeField, out []field.ChallengeField, scratchFirst, scratchSecond []field.ChallengeField) []field.ChallengeField {
	m := len(r)
	if cap(out) < 1<<m {
		out = make([]field.ChallengeField, 1<<m)
	}
	out = out[:1<<m]

	out[0] = scalar
	cur := 1
	for _, rj := range r {
		for i := 0; i < cur; i++ {
			hi := out[i].Mul(rj)
			out[i+cur] = hi
			out[i] = out[i].Sub(hi)
		}
		cur *= 2
	}
	return out
}

// UnpackAndCombine computes the inner product of v's N SIMD lanes (each
// already a ChallengeField value, obtained by lifting the underlying
// SimdCircuitField lane or by evaluating a Field at a point) against the
// lane weights w, i.e. sum_i v_i * w_i. w is typically
// eq_eval_at(r_simd, 1, ...): the per-lane weight assigned by the SIMD
// sumcheck phase.
func UnpackAndCombine(v []field.ChallengeField, w []field.ChallengeField) field.ChallengeField {
	if len(v) != len(w) {
		panic("poly: UnpackAndCombine: lane count mismatch")
	}
	if len(v) == 0 {
		panic("poly: UnpackAndCombine: empty input")
	}
	acc := v[0].Mul(w[0])
	for i := 1; i < len(v); i++ {
		acc = acc.Add(v[i].Mul(w[i]))
	}
	return acc
}

// FoldInPlace halves a challenge-field array via a[i] = a[2i]*(1-r) +
// a[2i+1]*r and returns the new (halved) slice, reusing a's backing
// array. This is the per-round folding step shared by every sumcheck
// phase (spec.md §4.E); the "halve in place" note there is this function.
func FoldInPlace(a []field.ChallengeField, r field.ChallengeField, one field.ChallengeField) []field.ChallengeField {
	half := len(a) / 2
	oneMinusR := one.Sub(r)
	for i := 0; i < half; i++ {
		a[i] = a[2*i].Mul(oneMinusR).Add(a[2*i+1].Mul(r))
	}
	return a[:half]
}
