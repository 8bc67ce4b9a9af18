// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package sumcheck

import (
	"testing"

	"github.com/distributed-lab/gkr/field"
)

func TestInterpolateRecoversKnownPolynomial(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	// f(x) = 2x^2 + 3x + 1
	f := func(x uint64) field.ChallengeField {
		xf := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(x))
		two := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(2))
		three := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(3))
		one := cfg.OneChallengeField()
		return two.Mul(xf).Mul(xf).Add(three.Mul(xf)).Add(one)
	}

	points := evalPoints(cfg, 3)
	evals := []field.ChallengeField{f(0), f(1), f(2)}

	for x := uint64(3); x < 8; x++ {
		xf := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(x))
		got := interpolate(points, evals, xf)
		if !got.Equal(f(x)) {
			panic("test failed: interpolate mismatch")
		}
	}
}

func TestFoldFieldArrayAndChallengeArrayAgree(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	vals := []uint64{1, 2, 3, 4}

	challengeArr := make([]field.ChallengeField, len(vals))
	for i, v := range vals {
		challengeArr[i] = cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(v))
	}
	fieldArr := make([]field.Field, len(vals))
	for i, v := range challengeArr {
		lanes := make([]field.ChallengeField, cfg.PackSize())
		for j := range lanes {
			lanes[j] = v
		}
		fieldArr[i] = field.NewPackedExt(lanes)
	}

	r := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(5))
	foldedChallenge := foldChallengeArray(cfg, challengeArr, r)
	foldedField := foldFieldArray(cfg, fieldArr, r)

	for i := range foldedChallenge {
		if !foldedField[i].Unpack()[0].Equal(foldedChallenge[i]) {
			panic("test failed: fold mismatch between Field and ChallengeField paths")
		}
	}
}
