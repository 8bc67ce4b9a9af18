// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package gkr

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/distributed-lab/gkr/circuit"
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/mpi"
	"github.com/distributed-lab/gkr/sumcheck"
	"github.com/distributed-lab/gkr/transcript"
)

// VerifyResult mirrors ProveResult: on Accept, FinalRX/FinalRSimdVar/
// FinalVXClaim (and, if HasYPhase, FinalRY/FinalVYClaim) are the
// claim(s) the out-of-scope witness-commitment scheme is responsible for
// opening (spec.md §4.G step 5); this module's tests check them directly
// against the known witness via EvaluateMLE instead.
type VerifyResult struct {
	Accept bool

	FinalRX       []field.ChallengeField
	FinalRSimdVar []field.ChallengeField
	FinalVXClaim  field.ChallengeField

	HasYPhase    bool
	FinalRY      []field.ChallengeField
	FinalVYClaim field.ChallengeField
}

func reject() *VerifyResult { return &VerifyResult{Accept: false} }

// Verifier mirrors Prover (component H).
type Verifier struct {
	Config field.GKRConfig
	Scheme Scheme
}

// NewVerifier builds a Verifier bound to one field configuration and
// proving scheme.
func NewVerifier(cfg field.GKRConfig, scheme Scheme) *Verifier {
	return &Verifier{Config: cfg, Scheme: scheme}
}

// Verify mirrors Prover.Prove's transcript discipline exactly, replaying
// every absorb/sample in the same order but checking the proof's
// round-polynomial evaluations instead of producing them (component H).
// claimedOutput is the public statement (the output layer's claimed
// values) the proof is checked against; it must be bound into t in
// exactly the byte-for-byte form Prove used.
//
// Verify never panics on malformed or adversarial proof content: any
// internal panic (index out of range, type assertion failure on a
// corrupt proof, division by zero in interpolation) is recovered and
// converted to a rejection, per spec.md §7's "a panic observed while
// verifying is caught and treated as rejection".
func (v *Verifier) Verify(c *circuit.Circuit, publicInput []field.CircuitField, claimedOutput []field.SimdCircuitField, mpiConfig mpi.MPIConfig, proof *Proof, t transcript.Transcript) (result *VerifyResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Trace().Interface("panic", r).Msg("gkr: verifier recovered a panic, rejecting")
			result, err = reject(), nil
		}
	}()

	if mpiConfig.WorldSize() != 1 {
		return nil, fmt.Errorf("gkr: Verifier.Verify only supports world_size=1, got %d", mpiConfig.WorldSize())
	}
	if proof == nil || proof.Scheme != v.Scheme {
		return reject(), nil
	}
	if len(c.Layers) < 1 {
		return nil, fmt.Errorf("gkr: malformed input: circuit must have at least one layer")
	}
	outputLayer := &c.Layers[len(c.Layers)-1]
	if len(claimedOutput) != 1<<outputLayer.OutputVarNum {
		return reject(), nil
	}
	for i := 0; i < c.ExpectedNumOutputZeros && i < len(claimedOutput); i++ {
		if !claimedOutput[i].IsZero() {
			return reject(), nil
		}
	}
	if len(proof.Layers) != len(c.Layers) {
		return reject(), nil
	}

	for _, val := range publicInput {
		t.AppendBytes(val.Serialize())
	}
	for _, val := range claimedOutput {
		t.AppendBytes(val.Serialize())
	}

	if err := c.ResolveRandomCoefficients(v.Config, t); err != nil {
		return nil, err
	}

	rz0 := sampleChallengeVector(t, outputLayer.OutputVarNum)
	rSimd := sampleChallengeVector(t, log2PowerOfTwo(v.Config.PackSize()))
	publicInputCh := liftPublicInput(v.Config, publicInput)

	var rz1 []field.ChallengeField
	var alpha field.ChallengeField
	claim := EvaluateMLE(v.Config, claimedOutput, rz0, rSimd)

	var finalRX, finalRY, finalRSimdVar []field.ChallengeField
	var finalVXClaim, finalVYClaim field.ChallengeField
	hasYPhase := false

	for li := len(c.Layers) - 1; li >= 0; li-- {
		layer := &c.Layers[li]
		lp := proof.Layers[len(c.Layers)-1-li]

		switch v.Scheme {
		case Vanilla:
			if lp.Vanilla == nil {
				return reject(), nil
			}
			ok, rx, ry, rSimdVar, verr := sumcheck.VerifyVanillaLayer(v.Config, layer, rz0, rz1, alpha, rSimd, claim, mpiConfig, *lp.Vanilla, t, publicInputCh)
			if verr != nil {
				return nil, verr
			}
			if !ok {
				return reject(), nil
			}
			if li == 0 {
				finalRX, finalRSimdVar, finalVXClaim = rx, rSimdVar, lp.Vanilla.VXClaim
				if !layer.MaxDegreeOne {
					hasYPhase = true
					finalRY, finalVYClaim = ry, lp.Vanilla.VYClaim
				}
			} else if layer.MaxDegreeOne {
				rz0, rz1, alpha = rx, nil, nil
				rSimd = rSimdVar
				claim = lp.Vanilla.VXClaim
			} else {
				rz0, rz1 = rx, ry
				alpha = t.GenerateChallengeFieldElement()
				rSimd = rSimdVar
				claim = lp.Vanilla.VXClaim.Add(alpha.Mul(lp.Vanilla.VYClaim))
			}
		case GkrSquare:
			if lp.Square == nil {
				return reject(), nil
			}
			ok, rx, rSimdVar, verr := sumcheck.VerifySquareLayer(v.Config, layer, rz0, rSimd, claim, mpiConfig, *lp.Square, t, publicInputCh)
			if verr != nil {
				return nil, verr
			}
			if !ok {
				return reject(), nil
			}
			if li == 0 {
				finalRX, finalRSimdVar, finalVXClaim = rx, rSimdVar, lp.Square.VXClaim
			} else {
				rz0, rSimd = rx, rSimdVar
				claim = lp.Square.VXClaim
			}
		default:
			return nil, fmt.Errorf("gkr: unknown scheme %v", v.Scheme)
		}
	}

	return &VerifyResult{
		Accept:        true,
		FinalRX:       finalRX,
		FinalRSimdVar: finalRSimdVar,
		FinalVXClaim:  finalVXClaim,
		HasYPhase:     hasYPhase,
		FinalRY:       finalRY,
		FinalVYClaim:  finalVYClaim,
	}, nil
}
