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

// SquareDegreePlusOne is the number of evaluation points sent per round
// in every GKR-square phase. The x-phase polynomial has degree 6 (the
// pow5 gate dominates), the SIMD phase's is degree 6 too (eq weight times
// v^5) and the mpi phase's is degree 5; all send the same fixed-width D=7
// sample set so the verifier doesn't need a phase-dependent wire format,
// matching the teacher's fixed-size round-message convention in fs.go.
const SquareDegreePlusOne = 7

// SquareLayerProof is the transcript-visible content the GKR-square
// helper produces for one layer. There is no y-phase (4.F).
type SquareLayerProof struct {
	XRounds    []RoundProof
	SimdRounds []RoundProof
	MpiRounds  []RoundProof // empty when mpiConfig.WorldSize()==1
	VXClaim    field.ChallengeField
}

// ProveSquareLayer runs the GKR-square sumcheck helper (4.F) for one
// layer: x-phase, SIMD phase, then the mpi phase (4.E phase 3, shared by
// both modes) over the world_size dimension. mpiConfig.WorldSize()==1
// (every spec.md §8 scenario) makes the mpi phase a 0-round no-op.
func ProveSquareLayer(cfg field.GKRConfig, layer *circuit.Layer, rz0 []field.ChallengeField, rSimd []field.ChallengeField, mpiConfig mpi.MPIConfig, t transcript.Transcript) (rx, rSimdVar []field.ChallengeField, proof SquareLayerProof) {
	one := cfg.OneChallengeField()
	nIn := layer.InputVarNum
	nSimd := len(rSimd)

	eqZ := poly.EqEvalAt(rz0, one, nil, nil, nil)

	pow := make([]field.ChallengeField, 1<<nIn)
	lin := make([]field.ChallengeField, 1<<nIn)
	for i := range pow {
		pow[i] = cfg.ZeroChallengeField()
		lin[i] = cfg.ZeroChallengeField()
	}
	for _, g := range layer.Uni {
		w := cfg.ChallengeMulCircuitField(eqZ[g.OId], g.Coef)
		switch g.GateType {
		case circuit.GateTypePow5:
			pow[g.IIds[0]] = pow[g.IIds[0]].Add(w)
		case circuit.GateTypeLinear:
			lin[g.IIds[0]] = lin[g.IIds[0]].Add(w)
		default:
			panic("sumcheck: unsupported uni gate_type")
		}
	}

	v := liftInputVals(cfg, layer.InputVals)
	eqRSimd := poly.EqEvalAt(rSimd, one, nil, nil, nil)
	points := evalPoints(cfg, SquareDegreePlusOne)

	xRounds := make([]RoundProof, nIn)
	for k := 0; k < nIn; k++ {
		half := len(v) / 2
		evals := make([]field.ChallengeField, SquareDegreePlusOne)
		for pi, tp := range points {
			oneMinusT := one.Sub(tp)
			acc := cfg.ZeroField()
			for i := 0; i < half; i++ {
				vi := combineField(cfg, v[2*i], v[2*i+1], oneMinusT, tp)
				powi := combineChallenge(pow[2*i], pow[2*i+1], oneMinusT, tp)
				lini := combineChallenge(lin[2*i], lin[2*i+1], oneMinusT, tp)
				term := cfg.ChallengeMulField(powi, pow5Field(vi)).Add(cfg.ChallengeMulField(lini, vi))
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
		pow = foldChallengeArray(cfg, pow, r)
		lin = foldChallengeArray(cfg, lin, r)
		rx = append(rx, r)
	}

	vRx := v[0]
	powRx := pow[0]
	linRx := lin[0]

	vs := vRx.Unpack()
	eqSimd := append([]field.ChallengeField(nil), eqRSimd...)
	simdRounds := make([]RoundProof, nSimd)
	for k := 0; k < nSimd; k++ {
		half := len(vs) / 2
		evals := make([]field.ChallengeField, SquareDegreePlusOne)
		for pi, tp := range points {
			oneMinusT := one.Sub(tp)
			acc := cfg.ZeroChallengeField()
			for i := 0; i < half; i++ {
				vi := combineChallenge(vs[2*i], vs[2*i+1], oneMinusT, tp)
				eqi := combineChallenge(eqSimd[2*i], eqSimd[2*i+1], oneMinusT, tp)
				v5 := vi.Mul(vi).Mul(vi).Mul(vi).Mul(vi)
				acc = acc.Add(eqi.Mul(powRx.Mul(v5).Add(linRx.Mul(vi))))
			}
			evals[pi] = acc
		}
		for _, e := range evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		simdRounds[k] = RoundProof{Evals: evals}
		vs = foldChallengeArray(cfg, vs, r)
		eqSimd = foldChallengeArray(cfg, eqSimd, r)
		rSimdVar = append(rSimdVar, r)
	}

	// mpi phase (4.E phase 3): powRx/linRx are pure circuit structure (never
	// touch witness data), so they carry over unchanged as the same scalar
	// for every rank; only the witness-derived v varies per rank, gathered
	// into a world_size-length array every process folds identically. Every
	// SIMD round above weighted its evals by eqi, so by the end of that phase
	// the running claim carries a factor of eq(rSimd, rSimdVar) that neither
	// the gathered v values nor powRx/linRx reintroduce on their own; each
	// mpi round must keep multiplying that same fixed factor back in so its
	// poly(0)+poly(1) continues to match the claim it is extending.
	eqRSimdFinal := eqVec(cfg, rSimd, rSimdVar)
	nMpi := log2PowerOfTwo(mpiConfig.WorldSize())
	var mpiRounds []RoundProof
	if nMpi > 0 {
		vRanks := mpiConfig.GatherChallengeFields([]field.ChallengeField{vs[0]})
		mpiRounds = make([]RoundProof, nMpi)
		for k := 0; k < nMpi; k++ {
			half := len(vRanks) / 2
			evals := make([]field.ChallengeField, SquareDegreePlusOne)
			for pi, tp := range points {
				oneMinusT := one.Sub(tp)
				acc := cfg.ZeroChallengeField()
				for i := 0; i < half; i++ {
					vi := combineChallenge(vRanks[2*i], vRanks[2*i+1], oneMinusT, tp)
					v5 := vi.Mul(vi).Mul(vi).Mul(vi).Mul(vi)
					acc = acc.Add(powRx.Mul(v5).Add(linRx.Mul(vi)))
				}
				evals[pi] = eqRSimdFinal.Mul(acc)
			}
			for _, e := range evals {
				t.AppendFieldElement(e)
			}
			r := t.GenerateChallengeFieldElement()
			mpiRounds[k] = RoundProof{Evals: evals}
			vRanks = foldChallengeArray(cfg, vRanks, r)
		}
		vs = vRanks
	}

	vxClaim := vs[0]
	t.AppendFieldElement(vxClaim)

	proof = SquareLayerProof{XRounds: xRounds, SimdRounds: simdRounds, MpiRounds: mpiRounds, VXClaim: vxClaim}
	return rx, rSimdVar, proof
}

// VerifySquareLayer mirrors ProveSquareLayer (component H, GKR-square
// branch): same round-by-round poly(0)+poly(1) discipline as the vanilla
// verifier, but with powRx/linRx reconstructed purely from public circuit
// structure (spec.md §4.H's eval_pow_5/eval_pow_1) since the uni-gate
// tables never touch witness data, unlike vanilla's HGClaim which must be
// disclosed.
func VerifySquareLayer(cfg field.GKRConfig, layer *circuit.Layer, rz0 []field.ChallengeField, rSimd []field.ChallengeField, claim field.ChallengeField, mpiConfig mpi.MPIConfig, proof SquareLayerProof, t transcript.Transcript, publicInput []field.ChallengeField) (ok bool, rx, rSimdVar []field.ChallengeField, err error) {
	one := cfg.OneChallengeField()
	nIn := layer.InputVarNum
	nSimd := len(rSimd)

	if len(proof.XRounds) != nIn {
		return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d x-rounds, got %d", nIn, len(proof.XRounds))
	}
	if len(proof.SimdRounds) != nSimd {
		return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d simd-rounds, got %d", nSimd, len(proof.SimdRounds))
	}

	eqZ := ComputeEqZ(cfg, rz0, nil, nil)
	current := claim.Sub(constContribution(cfg, layer.Const, eqZ, publicInput))

	points := evalPoints(cfg, SquareDegreePlusOne)
	for k := 0; k < nIn; k++ {
		rp := proof.XRounds[k]
		if len(rp.Evals) != SquareDegreePlusOne {
			return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: x-round %d has %d evals, want %d", k, len(rp.Evals), SquareDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
		rx = append(rx, r)
	}

	eqRx := poly.EqEvalAt(rx, one, nil, nil, nil)
	powRx := uniEval(cfg, layer.Uni, circuit.GateTypePow5, eqZ, eqRx)
	linRx := uniEval(cfg, layer.Uni, circuit.GateTypeLinear, eqZ, eqRx)

	for k := 0; k < nSimd; k++ {
		rp := proof.SimdRounds[k]
		if len(rp.Evals) != SquareDegreePlusOne {
			return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: simd-round %d has %d evals, want %d", k, len(rp.Evals), SquareDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
		rSimdVar = append(rSimdVar, r)
	}

	// mpi phase (4.E phase 3), mirroring ProveSquareLayer: reads proof.MpiRounds
	// round by round, the same poly(0)+poly(1) discipline as every other
	// phase. At world_size=1, nMpi==0 and this loop never runs.
	nMpi := log2PowerOfTwo(mpiConfig.WorldSize())
	if len(proof.MpiRounds) != nMpi {
		return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: expected %d mpi-rounds, got %d", nMpi, len(proof.MpiRounds))
	}
	for k := 0; k < nMpi; k++ {
		rp := proof.MpiRounds[k]
		if len(rp.Evals) != SquareDegreePlusOne {
			return false, nil, nil, fmt.Errorf("sumcheck: malformed proof: mpi-round %d has %d evals, want %d", k, len(rp.Evals), SquareDegreePlusOne)
		}
		if !rp.Evals[0].Add(rp.Evals[1]).Equal(current) {
			return false, nil, nil, nil
		}
		for _, e := range rp.Evals {
			t.AppendFieldElement(e)
		}
		r := t.GenerateChallengeFieldElement()
		current = interpolate(points, rp.Evals, r)
	}

	t.AppendFieldElement(proof.VXClaim)

	// current carries a factor of eq(rSimd, rSimdVar) baked in by every SIMD-
	// phase round (and, when nMpi>0, reapplied by every mpi round above), so
	// the reconstructed pow/lin combination must be weighted by the same
	// factor to match it - see eqVec's doc comment.
	eqRSimdFinal := eqVec(cfg, rSimd, rSimdVar)
	v5 := proof.VXClaim.Mul(proof.VXClaim).Mul(proof.VXClaim).Mul(proof.VXClaim).Mul(proof.VXClaim)
	if !current.Equal(eqRSimdFinal.Mul(powRx.Mul(v5).Add(linRx.Mul(proof.VXClaim)))) {
		return false, nil, nil, nil
	}

	return true, rx, rSimdVar, nil
}
