// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package circuit

import "github.com/distributed-lab/gkr/field"

// LinearGKRTestCircuit builds the two-layer vanilla test circuit from
// spec.md §8 scenario S2: layer 1 computes [n0*n1, n1, n1+n2, n2+n3] and
// out[0] = 11*(n0*n1) + n1 + (n1+n2) + (n2+n3), which evaluates to 36 on
// witness [1,2,3,4]; out[1] = n1. Ported from
// circuit/src/examples.rs's linear_gkr_test_circuit.
func LinearGKRTestCircuit(cfg field.GKRConfig) *Circuit {
	one := cfg.OneCircuitField()
	eleven := cfg.CircuitFieldFromUint64(11)

	l1 := Layer{
		InputVarNum:  2,
		OutputVarNum: 2,
		Mul: []GateMul{
			{IIds: [2]uint32{0, 1}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
		},
		Add: []GateAdd{
			{IIds: [1]uint32{1}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{1}, OId: 2, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{2}, OId: 2, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{2}, OId: 3, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{3}, OId: 3, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
		},
	}

	output := Layer{
		InputVarNum:  2,
		OutputVarNum: 1,
		Add: []GateAdd{
			{IIds: [1]uint32{0}, OId: 0, Coef: eleven, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{1}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{1}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{2}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
			{IIds: [1]uint32{3}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: 1},
		},
	}

	c := &Circuit{Layers: []Layer{l1, output}, ExpectedNumOutputZeros: 0}
	c.Finalize()
	return c
}

// GKRSquareTestCircuit builds the two-layer GKR-square test circuit from
// spec.md §8 scenario S1, mixing a GateTypePow5 unary gate, a
// CoefTypePublicInput const gate, and GateTypeLinear passthrough gates.
// Ported from circuit/src/examples.rs's gkr_square_test_circuit.
func GKRSquareTestCircuit(cfg field.GKRConfig) *Circuit {
	one := cfg.OneCircuitField()
	eleven := cfg.CircuitFieldFromUint64(11)

	l1 := Layer{
		InputVarNum:  2,
		OutputVarNum: 2,
		Const: []GateConst{
			{OId: 3, Coef: one, CoefType: CoefTypePublicInput, PublicInputIdx: 0, GateType: 0},
		},
		Uni: []GateUni{
			{IIds: [1]uint32{0}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypePow5},
			{IIds: [1]uint32{1}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{1}, OId: 2, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{2}, OId: 2, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{3}, OId: 3, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
		},
	}

	output := Layer{
		InputVarNum:  2,
		OutputVarNum: 1,
		Uni: []GateUni{
			{IIds: [1]uint32{0}, OId: 0, Coef: eleven, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{1}, OId: 0, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{1}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{2}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
			{IIds: [1]uint32{3}, OId: 1, Coef: one, CoefType: CoefTypeConstant, GateType: GateTypeLinear},
		},
	}

	c := &Circuit{Layers: []Layer{l1, output}, ExpectedNumOutputZeros: 0}
	c.Finalize()
	return c
}
