// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package sumcheck

import (
	"sync"
	"testing"

	"github.com/distributed-lab/gkr/circuit"
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/mpi"
	"github.com/distributed-lab/gkr/transcript"
)

// buildVanillaLayerFixture evaluates linear_gkr_test_circuit's witness
// layer and returns its output layer (add-gates only) together with an
// (rz0, rSimd, claim) triple the layer's sumcheck can be run against
// directly, bypassing gkr.Prover/Verifier (which restrict world_size=1 -
// see DESIGN.md) so the mpi phase can be driven at world_size>1.
func buildVanillaLayerFixture(cfg field.GKRConfig) (layer *circuit.Layer, rz0 []field.ChallengeField, rSimd []field.ChallengeField, claim field.ChallengeField) {
	c := circuit.LinearGKRTestCircuit(cfg)
	witness := make([]field.SimdCircuitField, 4)
	for i, v := range []uint64{1, 2, 3, 4} {
		witness[i] = cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(v))
	}
	c.Layers[0].InputVals = witness
	if _, err := c.Evaluate(cfg, nil); err != nil {
		panic(err)
	}

	output := &c.Layers[1]
	rz0 = []field.ChallengeField{cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(7))}
	claim = EvaluateMLEForTest(cfg, output.OutputVals, rz0, nil)
	return output, rz0, nil, claim
}

// EvaluateMLEForTest is gkr.EvaluateMLE's logic inlined for this package's
// tests: the multilinear extension of vals (lifted to Field via the SIMD
// embedding) at point (r, rSimd). Duplicated rather than imported because
// package gkr imports package sumcheck.
func EvaluateMLEForTest(cfg field.GKRConfig, vals []field.SimdCircuitField, r []field.ChallengeField, rSimd []field.ChallengeField) field.ChallengeField {
	one := cfg.OneChallengeField()
	table := liftInputVals(cfg, vals)
	for _, ri := range r {
		table = foldFieldArray(cfg, table, ri)
	}
	lanes := table[0].Unpack()
	for _, v := range rSimd {
		half := len(lanes) / 2
		oneMinusV := one.Sub(v)
		for i := 0; i < half; i++ {
			lanes[i] = combineChallenge(lanes[2*i], lanes[2*i+1], oneMinusV, v)
		}
		lanes = lanes[:half]
	}
	return lanes[0]
}

// TestVanillaMpiPhaseReplicatedWitness is spec.md §8 property 4 (MPI
// consistency): worldSize ranks, each holding the identical witness,
// prove and verify the same layer concurrently through a real,
// world_size>1 mpi phase (folding a constant array preserves the scalar,
// so every rank's x/simd-phase-end (VXClaim, HGClaim) survive the rank
// fold unchanged - the verifier's r_mpi challenges genuinely fork the
// transcript, they just resolve to the same claim every round).
func TestVanillaMpiPhaseReplicatedWitness(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	layer, rz0, rSimd, claim := buildVanillaLayerFixture(cfg)

	const worldSize = 4
	group := mpi.NewSimulatedGroup(worldSize)

	var wg sync.WaitGroup
	proofs := make([]VanillaLayerProof, worldSize)
	for rank := 0; rank < worldSize; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			_, _, _, proof := ProveVanillaLayer(cfg, layer, rz0, nil, nil, rSimd, group[rank], transcript.NewKeccakTranscript(cfg))
			proofs[rank] = proof
		}(rank)
	}
	wg.Wait()

	for rank, proof := range proofs {
		if len(proof.MpiRounds) != 2 {
			panic("test failed: expected 2 mpi rounds for world_size=4")
		}
		// VerifyVanillaLayer only reads mpiConfig.WorldSize() (it has no
		// collectives of its own to drive), so any group member works here.
		ok, _, _, _, err := VerifyVanillaLayer(cfg, layer, rz0, nil, nil, rSimd, claim, group[rank], proof, transcript.NewKeccakTranscript(cfg), nil)
		if err != nil {
			panic(err)
		}
		if !ok {
			panic("test failed: verifier rejected a valid proof with a real world_size>1 mpi phase")
		}
	}

	// Tampering with one mpi-round eval must flip the proof to rejected.
	tampered := proofs[0]
	tampered.MpiRounds = append([]RoundProof(nil), tampered.MpiRounds...)
	badRound := tampered.MpiRounds[0]
	badEvals := append([]field.ChallengeField(nil), badRound.Evals...)
	badEvals[0] = badEvals[0].Add(cfg.OneChallengeField())
	tampered.MpiRounds[0] = RoundProof{Evals: badEvals}

	ok, _, _, _, err := VerifyVanillaLayer(cfg, layer, rz0, nil, nil, rSimd, claim, group[0], tampered, transcript.NewKeccakTranscript(cfg), nil)
	if err != nil {
		panic(err)
	}
	if ok {
		panic("test failed: verifier accepted a proof with a tampered mpi-round eval")
	}
}
