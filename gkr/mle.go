// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package gkr

import (
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/poly"
)

// liftLanes unpacks a SIMD-packed circuit-field value into its N
// challenge-field lanes, the same lift sumcheck's unexported simdLift
// performs, needed here for the top-level output claim and for the
// witness-commitment sanity check a caller performs against the final
// base-layer point (spec.md §4.G step 5: "the outer witness-commitment
// scheme, a collaborator, is responsible for proving that claim" - this
// module has no PCS, so tests evaluate the witness MLE directly via this
// helper instead).
func liftLanes(cfg field.GKRConfig, v field.SimdCircuitField) []field.ChallengeField {
	lanes := v.Unpack()
	out := make([]field.ChallengeField, len(lanes))
	for i, l := range lanes {
		out[i] = cfg.CircuitFieldToChallengeField(l)
	}
	return out
}

// liftPublicInput lifts a public-input vector of CircuitField values into
// ChallengeField, the representation every const-gate and top-claim
// computation in this package works in.
func liftPublicInput(cfg field.GKRConfig, publicInput []field.CircuitField) []field.ChallengeField {
	out := make([]field.ChallengeField, len(publicInput))
	for i, v := range publicInput {
		out[i] = cfg.CircuitFieldToChallengeField(v)
	}
	return out
}

// EvaluateMLE evaluates the multilinear extension of a SIMD-packed vector
// (an output layer or the layer-0 witness) at the point (rPoint, rSimd):
// Σ_i eq(rPoint,i) * Σ_s eq(rSimd,s) * vals[i].lane(s). It is used both to
// build the top-level output claim (component G step 1) and, by callers
// that stand in for the out-of-scope witness-commitment scheme, to check
// the sumcheck's final base-layer point against the actual witness
// (spec.md §4.G step 5).
func EvaluateMLE(cfg field.GKRConfig, vals []field.SimdCircuitField, rPoint, rSimd []field.ChallengeField) field.ChallengeField {
	one := cfg.OneChallengeField()
	eqPoint := poly.EqEvalAt(rPoint, one, nil, nil, nil)
	eqSimd := poly.EqEvalAt(rSimd, one, nil, nil, nil)

	acc := cfg.ZeroChallengeField()
	for i, v := range vals {
		lanes := liftLanes(cfg, v)
		contrib := poly.UnpackAndCombine(lanes, eqSimd)
		acc = acc.Add(eqPoint[i].Mul(contrib))
	}
	return acc
}
