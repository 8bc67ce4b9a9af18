// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package sumcheck

import (
	"fmt"

	"github.com/distributed-lab/gkr/circuit"
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/mpi"
	"github.com/distributed-lab/gkr/poly"
	"github.com/distributed-lab/gkr/transcript"
)

// VanillaDegreePlusOne is the number of evaluation points sent per round
// in the vanilla mode's x and y phases (degree-2 polynomial).
const VanillaDegreePlusOne = 3

// VanillaSimdDegreePlusOne is the number of evaluation points sent per
// round in the vanilla mode's SIMD phase (degree-3 polynomial).
const VanillaSimdDegreePlusOne = 4

// VanillaLayerProof is the transcript-visible content the vanilla helper
// produces for one layer.
type VanillaLayerProof struct {
	XRounds    []RoundProof
	SimdRounds []RoundProof
	MpiRounds  []RoundProof // empty when mpiConfig.WorldSize()==1
	VXClaim    field.ChallengeField
	// HGClaim is the mul-gate contribution mulHG(rx, rSimdVar), disclosed
	// separately from VXClaim because it is the entering claim of the
	// y-phase and cannot be recomputed by the verifier (unlike the
	// add-gate contribution, which is pure circuit structure and is
	// recomputed directly instead of being carried in the proof).
	HGClaim field.ChallengeField
	YRounds []RoundProof // nil when the layer is max-degree-one
	VYClaim field.ChallengeField
}

// ProveVanillaLayer runs the four-phase vanilla sumcheck helper (4.E) for
// one layer, writing every round's evaluations and phase-end claims into
// t and returning the challenge vectors the caller folds into the next
// layer's claim point, along with the structured proof record. rz1/alpha
// are nil for the output layer.
func ProveVanillaLayer(cfg field.GKRConfig, layer *circuit.Layer, rz0 []field.ChallengeField, rz1 []field.ChallengeField, alpha field.ChallengeField, rSimd []field.ChallengeField, mpiConfig mpi.MPIConfig, t transcript.Transcript) (rx, ry, rSimdVar []field.ChallengeField, proof VanillaLayerProof) {
	one := cfg.OneChallengeField()
	nIn := layer.InputVarNum
	nSimd := len(rSimd)

	eqZ := poly.EqEvalAt(rz0, one, nil, nil, nil)
	if rz1 != nil {
		eqZ1 := poly.EqEvalAt(rz1, alpha, nil, nil, nil)
		for i := range eqZ {
			eqZ[i] = eqZ[i].Add(eqZ1[i])
		}
	}

	mulHG := make([]field.Field, 1<<nIn)
	for i := range mulHG {
		mulHG[i] = cfg.ZeroField()
	}
	add := make([]field.ChallengeField, 1<<nIn)
	for i := range add {
		add[i] = cfg.ZeroChallengeField()
	}
	for _, g := range layer.Mul {
		w := cfg.ChallengeMulCircuitField(eqZ[g.OId], g.Coef)
		contrib := cfg.ChallengeMulField(w, cfg.SimdCircuitFieldToField(layer.InputVals[g.IIds[1]]))
		mulHG[g.IIds[0]] = mulHG[g.IIds[0]].Add(contrib)
	}
	for _, g := range layer.Add {
		w := cfg.ChallengeMulCircuitField(eqZ[g.OId], g.Coef)
		add[g.IIds[0]] = add[g.IIds[0]].Add(w)
	}

	v := liftInputVals(cfg, layer.InputVals)

	points := evalPoints(cfg, VanillaDegreePlusOne)
	xRounds := make([]RoundProof, nIn)
	eqRSimd := poly.EqEvalAt(rSimd, one, nil, nil, nil)

	for k := 0; k < nIn; k++ {
		half := len(v) / 2
		evals := make([]field.ChallengeField, VanillaDegreePlusOne)
		for pi, tp := range points {
			oneMinusT := one.Sub(tp)
			var acc field.Field = cfg.ZeroField()
			for i := 0; i < half; i++ {
				vi := combineField(cfg, v[2*i], v[2*i+1], oneMinusT, tp)
				hgi := combineField(cfg, mulHG[2*i], mulHG[2*i+1], oneMinusT, tp)
				addi := combineChallenge(add[2*i], add[2*i+1], oneMinusT, tp)
				term := vi.Mul(hgi).Add(cfg.ChallengeMulField(addi, vi))
				acc = acc.Add(term)
			}
			evals[pi] = poly.UnpackAndCombine(acc.Unpack(), eqRSimd)
		}
		for _, e := range evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		xRounds[k] = RoundProof{Evals: evals}
		v = foldFieldArray(cfg, v, r)
		mulHG = foldFieldArray(cfg, mulHG, r)
		add = foldChallengeArray(cfg, add, r)
		rx = append(rx, r)
	}

	vRx := v[0]     // Field, N lanes
	mulHGRx := mulHG[0]
	addRx := add[0]

	simdRounds := make([]RoundProof, nSimd)
	simdPoints := evalPoints(cfg, VanillaSimdDegreePlusOne)
	vs := vRx.Unpack()
	// gs carries only the mul-gate contribution; the add-gate scalar addRx
	// is lane-invariant (every lane carries the same value) so it survives
	// folding unchanged and is added back in algebraically every round
	// instead of being mixed into gs, which would make it unrecoverable
	// for the y-phase's entering claim (HGClaim below).
	gs := mulHGRx.Unpack()
	eqSimd := append([]field.ChallengeField(nil), eqRSimd...)

	for k := 0; k < nSimd; k++ {
		half := len(vs) / 2
		evals := make([]field.ChallengeField, VanillaSimdDegreePlusOne)
		for pi, tp := range simdPoints {
			oneMinusT := one.Sub(tp)
			acc := cfg.ZeroChallengeField()
			for i := 0; i < half; i++ {
				vi := combineChallenge(vs[2*i], vs[2*i+1], oneMinusT, tp)
				gi := combineChallenge(gs[2*i], gs[2*i+1], oneMinusT, tp)
				eqi := combineChallenge(eqSimd[2*i], eqSimd[2*i+1], oneMinusT, tp)
				acc = acc.Add(eqi.Mul(vi.Mul(gi).Add(addRx.Mul(vi))))
			}
			evals[pi] = acc
		}
		for _, e := range evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		simdRounds[k] = RoundProof{Evals: evals}
		vs = foldChallengeArray(cfg, vs, r)
		gs = foldChallengeArray(cfg, gs, r)
		eqSimd = foldChallengeArray(cfg, eqSimd, r)
		rSimdVar = append(rSimdVar, r)
	}

	// mpi phase (4.E phase 3): addRx is pure circuit structure and carries
	// over unchanged for every rank; v and hg are both witness-derived, so
	// both are gathered into world_size-length arrays and folded together,
	// unlike GKR-square where only v needs gathering. Every SIMD round above
	// weighted its evals by eqi, so the running claim leaving that phase
	// carries a factor of eq(rSimd, rSimdVar) that every mpi round must keep
	// reapplying to stay consistent with it.
	eqRSimdFinal := eqVec(cfg, rSimd, rSimdVar)
	nMpi := log2PowerOfTwo(mpiConfig.WorldSize())
	var mpiRounds []RoundProof
	if nMpi > 0 {
		vRanks := mpiConfig.GatherChallengeFields([]field.ChallengeField{vs[0]})
		gRanks := mpiConfig.GatherChallengeFields([]field.ChallengeField{gs[0]})
		mpiRounds = make([]RoundProof, nMpi)
		for k := 0; k < nMpi; k++ {
			half := len(vRanks) / 2
			evals := make([]field.ChallengeField, VanillaDegreePlusOne)
			for pi, tp := range points {
				oneMinusT := one.Sub(tp)
				acc := cfg.ZeroChallengeField()
				for i := 0; i < half; i++ {
					vi := combineChallenge(vRanks[2*i], vRanks[2*i+1], oneMinusT, tp)
					gi := combineChallenge(gRanks[2*i], gRanks[2*i+1], oneMinusT, tp)
					acc = acc.Add(vi.Mul(gi).Add(addRx.Mul(vi)))
				}
				evals[pi] = eqRSimdFinal.Mul(acc)
			}
			for _, e := range evals {
				t.AppendFieldElement(e)
			}
			r := t.GenerateChallengeFieldElement()
			mpiRounds[k] = RoundProof{Evals: evals}
			vRanks = foldChallengeArray(cfg, vRanks, r)
			gRanks = foldChallengeArray(cfg, gRanks, r)
		}
		vs = vRanks
		gs = gRanks
	}

	vxClaim := vs[0]
	hgClaim := gs[0]
	t.AppendFieldElement(vxClaim)
	t.AppendFieldElement(hgClaim)

	proof = VanillaLayerProof{XRounds: xRounds, SimdRounds: simdRounds, MpiRounds: mpiRounds, VXClaim: vxClaim, HGClaim: hgClaim}

	if !layer.MaxDegreeOne {
		eqRx := poly.EqEvalAt(rx, one, nil, nil, nil)
		eqSimdVar := poly.EqEvalAt(rSimdVar, one, nil, nil, nil)

		hy := make([]field.ChallengeField, 1<<nIn)
		for i := range hy {
			hy[i] = cfg.ZeroChallengeField()
		}
		for _, g := range layer.Mul {
			w := cfg.ChallengeMulCircuitField(eqZ[g.OId], g.Coef).Mul(eqRx[g.IIds[0]])
			hy[g.IIds[1]] = hy[g.IIds[1]].Add(w)
		}

		vy := make([]field.ChallengeField, 1<<nIn)
		for i, iv := range layer.InputVals {
			lanes := simdLift(cfg, iv)
			vy[i] = poly.UnpackAndCombine(lanes, eqSimdVar)
		}

		yRounds := make([]RoundProof, nIn)
		for k := 0; k < nIn; k++ {
			half := len(vy) / 2
			evals := make([]field.ChallengeField, VanillaDegreePlusOne)
			for pi, tp := range points {
				oneMinusT := one.Sub(tp)
				acc := cfg.ZeroChallengeField()
				for i := 0; i < half; i++ {
					vi := combineChallenge(vy[2*i], vy[2*i+1], oneMinusT, tp)
					hi := combineChallenge(hy[2*i], hy[2*i+1], oneMinusT, tp)
					acc = acc.Add(vi.Mul(hi))
				}
				evals[pi] = acc
			}
			for _, e := range evals {
				t.AppendFieldElement(e)
			}
			r := t.GenerateChallengeFieldElement()
			yRounds[k] = RoundProof{Evals: evals}
			vy = foldChallengeArray(cfg, vy, r)
			hy = foldChallengeArray(cfg, hy, r)
			ry = append(ry, r)
		}

		vyClaim := vy[0]
		t.AppendFieldElement(vyClaim)
		proof.YRounds = yRounds
		proof.VYClaim = vyClaim
	}

	return rx, ry, rSimdVar, proof
}

// VerifyVanillaLayer mirrors ProveVanillaLayer (component H): it replays
// the same round structure reading evaluations out of proof instead of
// computing them, checks poly(0)+poly(1) against the running claim every
// round, advances the claim via Lagrange interpolation at the
// transcript-sampled challenge, and, at the two phase boundaries, checks
// the disclosed claims against the purely-public add/mul gate-table
// reconstruction (spec.md §4.H's eval_add/eval_mul). ok is false (with a
// nil error) on any arithmetic mismatch - a soundness failure, not a
// malformed-input one - and rx/ry/rSimdVar are only meaningful when ok.
func VerifyVanillaLayer(cfg field.GKRConfig, layer *circuit.Layer, rz0, rz1 []field.ChallengeField, alpha field.ChallengeField, rSimd []field.ChallengeField, claim field.ChallengeField, mpiConfig mpi.MPIConfig, proof VanillaLayerProof, t transcript.Transcript, publicInput []field.ChallengeField) (ok bool, rx, ry, rSimdVar []field.ChallengeField, err error) {
	one := cfg.OneChallengeField()
	nIn := layer.InputVarNum
	nSimd := len(rSimd)

	if len(proof.XRounds) != nIn {
		return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d x-rounds, got %d", nIn, len(proof.XRounds))
	}
	if len(proof.SimdRounds) != nSimd {
		return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d simd-rounds, got %d", nSimd, len(proof.SimdRounds))
	}

	eqZ := ComputeEqZ(cfg, rz0, rz1, alpha)
	current := claim.Sub(constContribution(cfg, layer.Const, eqZ, publicInput))

	points := evalPoints(cfg, VanillaDegreePlusOne)
	for k := 0; k < nIn; k++ {
		rp := proof.XRounds[k]
		if len(rp.Evals) != VanillaDegreePlusOne {
			return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: x-round %d has %d evals, want %d", k, len(rp.Evals), VanillaDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
		rx = append(rx, r)
	}

	simdPoints := evalPoints(cfg, VanillaSimdDegreePlusOne)
	for k := 0; k < nSimd; k++ {
		rp := proof.SimdRounds[k]
		if len(rp.Evals) != VanillaSimdDegreePlusOne {
			return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: simd-round %d has %d evals, want %d", k, len(rp.Evals), VanillaSimdDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(simdPoints, rp.Evals, r)
		rSimdVar = append(rSimdVar, r)
	}

	eqRx := poly.EqEvalAt(rx, one, nil, nil, nil)
	addRx := addEval(cfg, layer.Add, eqZ, eqRx)

	// mpi phase (4.E phase 3), mirroring ProveVanillaLayer: reads
	// proof.MpiRounds round by round. At world_size=1, nMpi==0 and this loop
	// never runs.
	nMpi := log2PowerOfTwo(mpiConfig.WorldSize())
	if len(proof.MpiRounds) != nMpi {
		return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d mpi-rounds, got %d", nMpi, len(proof.MpiRounds))
	}
	for k := 0; k < nMpi; k++ {
		rp := proof.MpiRounds[k]
		if len(rp.Evals) != VanillaDegreePlusOne {
			return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: mpi-round %d has %d evals, want %d", k, len(rp.Evals), VanillaDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
	}

	t.AppendFieldElement(proof.VXClaim)
	t.AppendFieldElement(proof.HGClaim)

	// current carries a factor of eq(rSimd, rSimdVar) baked in by every
	// SIMD-phase round (and, when nMpi>0, reapplied by every mpi round
	// above), so the reconstructed add-gate combination must be weighted by
	// the same factor to match it - see eqVec's doc comment.
	eqRSimdFinal := eqVec(cfg, rSimd, rSimdVar)
	if !current.Equal(eqRSimdFinal.Mul(proof.VXClaim.Mul(proof.HGClaim).Add(addRx.Mul(proof.VXClaim)))) {
		return false, nil, nil, nil, nil
	}

	if layer.MaxDegreeOne {
		return true, rx, nil, rSimdVar, nil
	}

	current = proof.HGClaim
	if len(proof.YRounds) != nIn {
		return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d y-rounds, got %d", nIn, len(proof.YRounds))
	}
	for k := 0; k < nIn; k++ {
		rp := proof.YRounds[k]
		if len(rp.Evals) != VanillaDegreePlusOne {
			return false, nil, nil, nil, fmt.Errorf("sumcheck: malformed proof: y-round %d has %d evals, want %d", k, len(rp.Evals), VanillaDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
		ry = append(ry, r)
	}
	t.AppendFieldElement(proof.VYClaim)

	eqRy := poly.EqEvalAt(ry, one, nil, nil, nil)
	mulAtRxRy := mulEval(cfg, layer.Mul, eqZ, eqRx, eqRy)
	if !current.Equal(proof.VYClaim.Mul(mulAtRxRy)) {
		return false, nil, nil, nil, nil
	}

	return true, rx, ry, rSimdVar, nil
}
