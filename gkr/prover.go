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

// ProveResult bundles the emitted Proof together with the bookkeeping a
// caller needs to finish the protocol: the claimed output (bound into the
// transcript and re-derivable by the verifier) and the final point/claim
// pair(s) reaching layer 0, which the out-of-scope witness-commitment
// scheme (spec.md §4.G step 5) would open against the witness. Tests in
// this module play that collaborator's role directly via EvaluateMLE.
type ProveResult struct {
	Proof         *Proof
	ClaimedOutput []field.SimdCircuitField

	FinalRX       []field.ChallengeField
	FinalRSimdVar []field.ChallengeField
	FinalVXClaim  field.ChallengeField

	HasYPhase    bool
	FinalRY      []field.ChallengeField
	FinalVYClaim field.ChallengeField
}

// Prover drives the sumcheck helpers over every layer of a circuit, top
// to bottom (component G).
type Prover struct {
	Config field.GKRConfig
	Scheme Scheme
}

// NewProver builds a Prover bound to one field configuration and proving
// scheme.
func NewProver(cfg field.GKRConfig, scheme Scheme) *Prover {
	return &Prover{Config: cfg, Scheme: scheme}
}

// Prove runs the full protocol of component G: evaluates c against
// witness (already loaded into c.Layers[0].InputVals) and publicInput,
// binds the public input and output into t, resolves every
// CoefTypeRandom coefficient from the transcript (spec.md §3 invariant
// iv, §9's Random/transcript design note), samples the top-level
// (rz0, rSimd) pair, then runs one sumcheck helper invocation per layer
// from the output layer down to layer 0 (the witness-consuming layer).
// mpiConfig must report
// world_size=1: this entry point only drives the single-process
// protocol (see DESIGN.md for the MPI scope decision).
func (p *Prover) Prove(c *circuit.Circuit, publicInput []field.CircuitField, mpiConfig mpi.MPIConfig, t transcript.Transcript) (*ProveResult, error) {
	if mpiConfig.WorldSize() != 1 {
		return nil, fmt.Errorf("gkr: Prover.Prove only supports world_size=1, got %d", mpiConfig.WorldSize())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Layers) < 1 {
		return nil, fmt.Errorf("gkr: malformed input: circuit must have at least one layer")
	}

	if _, err := c.Evaluate(p.Config, publicInput); err != nil {
		return nil, err
	}

	for _, v := range publicInput {
		t.AppendBytes(v.Serialize())
	}
	outputLayer := &c.Layers[len(c.Layers)-1]
	for _, v := range outputLayer.OutputVals {
		t.AppendBytes(v.Serialize())
	}

	if err := c.ResolveRandomCoefficients(p.Config, t); err != nil {
		return nil, err
	}

	rz0 := sampleChallengeVector(t, outputLayer.OutputVarNum)
	rSimd := sampleChallengeVector(t, log2PowerOfTwo(p.Config.PackSize()))

	var rz1 []field.ChallengeField
	var alpha field.ChallengeField

	var layerProofs []LayerProof
	var finalRX, finalRY, finalRSimdVar []field.ChallengeField
	var finalVXClaim, finalVYClaim field.ChallengeField
	hasYPhase := false

	for li := len(c.Layers) - 1; li >= 0; li-- {
		layer := &c.Layers[li]
		log.Trace().Int("layer", li).Str("scheme", p.Scheme.String()).Msg("gkr: proving layer")

		switch p.Scheme {
		case Vanilla:
			rx, ry, rSimdVar, proof := sumcheck.ProveVanillaLayer(p.Config, layer, rz0, rz1, alpha, rSimd, mpiConfig, t)
			layerProofs = append(layerProofs, LayerProof{Vanilla: &proof})
			if li == 0 {
				finalRX, finalRSimdVar, finalVXClaim = rx, rSimdVar, proof.VXClaim
				if !layer.MaxDegreeOne {
					hasYPhase = true
					finalRY, finalVYClaim = ry, proof.VYClaim
				}
			} else if layer.MaxDegreeOne {
				rz0, rz1, alpha = rx, nil, nil
				rSimd = rSimdVar
			} else {
				rz0, rz1 = rx, ry
				alpha = t.GenerateChallengeFieldElement()
				rSimd = rSimdVar
			}
		case GkrSquare:
			rx, rSimdVar, proof := sumcheck.ProveSquareLayer(p.Config, layer, rz0, rSimd, mpiConfig, t)
			layerProofs = append(layerProofs, LayerProof{Square: &proof})
			if li == 0 {
				finalRX, finalRSimdVar, finalVXClaim = rx, rSimdVar, proof.VXClaim
			} else {
				rz0, rSimd = rx, rSimdVar
			}
		default:
			return nil, fmt.Errorf("gkr: unknown scheme %v", p.Scheme)
		}
	}

	return &ProveResult{
		Proof:         &Proof{Scheme: p.Scheme, Layers: layerProofs},
		ClaimedOutput: outputLayer.OutputVals,
		FinalRX:       finalRX,
		FinalRSimdVar: finalRSimdVar,
		FinalVXClaim:  finalVXClaim,
		HasYPhase:     hasYPhase,
		FinalRY:       finalRY,
		FinalVYClaim:  finalVYClaim,
	}, nil
}

// sampleChallengeVector draws n challenge field elements off t, one per
// call to GenerateChallengeFieldElement. Safe against collisions because
// transcript.base mixes a monotonic counter into the state before every
// squeeze (see transcript/transcript.go), so consecutive draws with no
// intervening append still differ.
func sampleChallengeVector(t transcript.Transcript, n int) []field.ChallengeField {
	out := make([]field.ChallengeField, n)
	for i := range out {
		out[i] = t.GenerateChallengeFieldElement()
	}
	return out
}
