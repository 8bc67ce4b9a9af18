// Package gkr
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gkr implements components G and H: the prover and verifier that
// drive the sumcheck helpers (package sumcheck) over every layer of a
// circuit (package circuit), from the output layer down to the witness,
// under the Fiat-Shamir discipline of package transcript. Grounded on
// original_source/gkr/src/verifier/gkr_square.rs (round structure,
// eval_cst/eval_add/eval_mul/eval_pow_1/eval_pow_5 reconstruction) and
// original_source/gkr/src/tests/gkr_correctness.rs (the end-to-end
// prove/verify/tamper-byte/recover-panic pattern).
package gkr

// Scheme selects which sumcheck helper (vanilla or GKR-square) every
// layer of a circuit is proven with. A circuit is proven entirely under
// one scheme; the two never mix within a single proof.
type Scheme int

const (
	// Vanilla runs every layer through sumcheck.ProveVanillaLayer /
	// VerifyVanillaLayer (mul+add gates, spec.md §4.E).
	Vanilla Scheme = iota
	// GkrSquare runs every layer through sumcheck.ProveSquareLayer /
	// VerifySquareLayer (pow5+linear unary gates, spec.md §4.F). Only
	// world_size=1 is supported (spec.md §9 Open Question 3).
	GkrSquare
)

func (s Scheme) String() string {
	switch s {
	case Vanilla:
		return "Vanilla"
	case GkrSquare:
		return "GkrSquare"
	default:
		return "Unknown"
	}
}
