// Package circuit
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package circuit implements the layered arithmetic circuit model of
// component C: a finite, ordered sequence of layers, layer 0 being the
// input (witness) and the last layer being the output, where each layer's
// output is an additive combination of gate contributions over the
// previous layer's inputs. Grounded on the teacher's circuit.go (additive
// gate-list processing, commitment-shaped public structs) generalized
// from a fixed R1CS shape to the open GateMul/GateAdd/GateConst/GateUni
// gate lists of circuit/src/examples.rs.
package circuit

import (
	"fmt"

	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/transcript"
)

// CoefType selects how a gate's effective coefficient is produced.
type CoefType int

const (
	// CoefTypeConstant uses Coef verbatim.
	CoefTypeConstant CoefType = iota
	// CoefTypePublicInput reads public_input[PublicInputIndex].
	CoefTypePublicInput
	// CoefTypeRandom is resolved once per proof from the transcript
	// (spec.md §3 invariant iv); see Circuit.ResolveRandomCoefficients.
	CoefTypeRandom
)

// GateType discriminators recognized by the GKR-square unary gate (4.F);
// vanilla mul/add/const gates carry an open gate_type tag too but the core
// only interprets it for uni gates.
const (
	GateTypePow5   uint32 = 12345
	GateTypeLinear uint32 = 12346
)

// GateMul computes out[o_id] += coef * in[i0] * in[i1].
type GateMul struct {
	IIds           [2]uint32
	OId            uint32
	Coef           field.CircuitField
	CoefType       CoefType
	PublicInputIdx int
	GateType       uint32
}

// GateAdd computes out[o_id] += coef * in[i0].
type GateAdd struct {
	IIds           [1]uint32
	OId            uint32
	Coef           field.CircuitField
	CoefType       CoefType
	PublicInputIdx int
	GateType       uint32
}

// GateConst computes out[o_id] += coef_effective (no inputs).
type GateConst struct {
	OId            uint32
	Coef           field.CircuitField
	CoefType       CoefType
	PublicInputIdx int
	GateType       uint32
}

// GateUni computes out[o_id] += coef * phi(in[i0]), phi selected by
// GateType (GateTypePow5 or GateTypeLinear).
type GateUni struct {
	IIds           [1]uint32
	OId            uint32
	Coef           field.CircuitField
	CoefType       CoefType
	PublicInputIdx int
	GateType       uint32
}

// Layer is one level of the circuit.
type Layer struct {
	InputVarNum  int
	OutputVarNum int

	Mul   []GateMul
	Add   []GateAdd
	Const []GateConst
	Uni   []GateUni

	InputVals  []field.SimdCircuitField
	OutputVals []field.SimdCircuitField

	// MaxDegreeOne is true when Mul is empty: the layer's sumcheck phase y
	// is then skipped (spec.md §4.E).
	MaxDegreeOne bool
}

// Circuit is the full layered DAG, layer 0 = input (witness), last layer =
// output.
type Circuit struct {
	Layers                 []Layer
	PublicInput            []field.SimdCircuitField
	ExpectedNumOutputZeros int
}

// Finalize precomputes per-layer derived state (MaxDegreeOne) after the
// gate lists have been populated. Call once after construction/loading.
func (c *Circuit) Finalize() {
	for i := range c.Layers {
		c.Layers[i].MaxDegreeOne = len(c.Layers[i].Mul) == 0
	}
}

func checkIndex(idx uint32, bound int, what string) error {
	if int(idx) >= bound {
		return fmt.Errorf("circuit: malformed input: %s index %d out of range [0,%d)", what, idx, bound)
	}
	return nil
}

// Validate checks invariant (i) of spec.md §3: every gate's indices are in
// range for the layer's declared variable counts.
func (c *Circuit) Validate() error {
	for li, l := range c.Layers {
		inBound := 1 << l.InputVarNum
		outBound := 1 << l.OutputVarNum
		for _, g := range l.Mul {
			for _, id := range g.IIds {
				if err := checkIndex(id, inBound, fmt.Sprintf("layer %d mul i_id", li)); err != nil {
					return err
				}
			}
			if err := checkIndex(g.OId, outBound, fmt.Sprintf("layer %d mul o_id", li)); err != nil {
				return err
			}
		}
		for _, g := range l.Add {
			if err := checkIndex(g.IIds[0], inBound, fmt.Sprintf("layer %d add i_id", li)); err != nil {
				return err
			}
			if err := checkIndex(g.OId, outBound, fmt.Sprintf("layer %d add o_id", li)); err != nil {
				return err
			}
		}
		for _, g := range l.Const {
			if err := checkIndex(g.OId, outBound, fmt.Sprintf("layer %d const o_id", li)); err != nil {
				return err
			}
		}
		for _, g := range l.Uni {
			if err := checkIndex(g.IIds[0], inBound, fmt.Sprintf("layer %d uni i_id", li)); err != nil {
				return err
			}
			if err := checkIndex(g.OId, outBound, fmt.Sprintf("layer %d uni o_id", li)); err != nil {
				return err
			}
			if g.GateType != GateTypePow5 && g.GateType != GateTypeLinear {
				return fmt.Errorf("circuit: malformed input: layer %d unsupported uni gate_type %d", li, g.GateType)
			}
		}
	}
	return nil
}

// ResolveRandomCoefficients walks every gate list, in layer/list/index
// order, and for every CoefTypeRandom gate draws one challenge field
// element from t and folds it down into the gate's Coef via the config's
// ChallengeFieldToCircuitField downcast. It must run at exactly the same
// protocol point (before any witness-dependent data is absorbed) on both
// the prover and the verifier, per spec.md §9's Random/transcript design
// note, and before Circuit.Evaluate is called.
func (c *Circuit) ResolveRandomCoefficients(cfg field.GKRConfig, t transcript.Transcript) error {
	resolve := func(coefType CoefType) (field.CircuitField, error) {
		ch := t.GenerateChallengeFieldElement()
		t.AppendFieldElement(ch)
		cf, ok := cfg.ChallengeFieldToCircuitField(ch)
		if !ok {
			return nil, fmt.Errorf("circuit: CoefTypeRandom requires a degree-1 challenge field extension for config %q", cfg.Name())
		}
		return cf, nil
	}

	for li := range c.Layers {
		l := &c.Layers[li]
		for i := range l.Const {
			if l.Const[i].CoefType == CoefTypeRandom {
				cf, err := resolve(CoefTypeRandom)
				if err != nil {
					return err
				}
				l.Const[i].Coef = cf
			}
		}
		for i := range l.Add {
			if l.Add[i].CoefType == CoefTypeRandom {
				cf, err := resolve(CoefTypeRandom)
				if err != nil {
					return err
				}
				l.Add[i].Coef = cf
			}
		}
		for i := range l.Mul {
			if l.Mul[i].CoefType == CoefTypeRandom {
				cf, err := resolve(CoefTypeRandom)
				if err != nil {
					return err
				}
				l.Mul[i].Coef = cf
			}
		}
		for i := range l.Uni {
			if l.Uni[i].CoefType == CoefTypeRandom {
				cf, err := resolve(CoefTypeRandom)
				if err != nil {
					return err
				}
				l.Uni[i].Coef = cf
			}
		}
	}
	return nil
}

// CoefEffective resolves a gate's coefficient given its CoefType: Constant
// uses Coef verbatim, PublicInput reads publicInput[idx], and Random
// assumes Coef already holds the value ResolveRandomCoefficients wrote
// into it.
func coefEffective(coefType CoefType, coef field.CircuitField, publicInputIdx int, publicInput []field.CircuitField) field.CircuitField {
	switch coefType {
	case CoefTypePublicInput:
		return publicInput[publicInputIdx]
	default:
		return coef
	}
}
