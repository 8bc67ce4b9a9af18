// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package circuit

import (
	"fmt"

	"github.com/distributed-lab/gkr/field"
)

// Evaluate runs the circuit forward: layer 0's InputVals must already be
// populated (the witness), publicInput supplies CoefTypePublicInput
// lookups, and every layer's OutputVals is computed from its own
// InputVals, which for every layer after the first alias the previous
// layer's OutputVals (spec.md §4.C's "layer i's input is layer i-1's
// output" wiring). Returns the final layer's OutputVals.
func (c *Circuit) Evaluate(cfg field.GKRConfig, publicInput []field.CircuitField) ([]field.SimdCircuitField, error) {
	if len(c.Layers) == 0 {
		return nil, fmt.Errorf("circuit: malformed input: circuit has no layers")
	}
	if c.Layers[0].InputVals == nil {
		return nil, fmt.Errorf("circuit: layer 0 InputVals (witness) not populated")
	}

	for li := range c.Layers {
		l := &c.Layers[li]
		if li > 0 {
			l.InputVals = c.Layers[li-1].OutputVals
		}
		if len(l.InputVals) != 1<<l.InputVarNum {
			return nil, fmt.Errorf("circuit: layer %d input length %d does not match InputVarNum %d", li, len(l.InputVals), l.InputVarNum)
		}

		out := make([]field.SimdCircuitField, 1<<l.OutputVarNum)
		for i := range out {
			out[i] = cfg.ZeroSimdCircuitField()
		}

		for _, g := range l.Mul {
			coef := coefEffective(g.CoefType, g.Coef, g.PublicInputIdx, publicInput)
			v := l.InputVals[g.IIds[0]].Mul(l.InputVals[g.IIds[1]])
			out[g.OId] = out[g.OId].Add(cfg.CircuitFieldMulSimdCircuitField(coef, v))
		}
		for _, g := range l.Add {
			coef := coefEffective(g.CoefType, g.Coef, g.PublicInputIdx, publicInput)
			v := l.InputVals[g.IIds[0]]
			out[g.OId] = out[g.OId].Add(cfg.CircuitFieldMulSimdCircuitField(coef, v))
		}
		for _, g := range l.Const {
			coef := coefEffective(g.CoefType, g.Coef, g.PublicInputIdx, publicInput)
			out[g.OId] = out[g.OId].Add(cfg.CircuitFieldToSimdCircuitField(coef))
		}
		for _, g := range l.Uni {
			coef := coefEffective(g.CoefType, g.Coef, g.PublicInputIdx, publicInput)
			v := l.InputVals[g.IIds[0]]
			phi, err := applyUnary(g.GateType, v)
			if err != nil {
				return nil, err
			}
			out[g.OId] = out[g.OId].Add(cfg.CircuitFieldMulSimdCircuitField(coef, phi))
		}

		l.OutputVals = out
	}

	return c.Layers[len(c.Layers)-1].OutputVals, nil
}

// applyUnary computes phi(v) for the unary gate types the GKR-square mode
// supports: GateTypePow5 is v^5 (the degree-5 S-box the square protocol is
// named for), GateTypeLinear is the identity. Grounded on
// gkr/src/verifier/gkr_square.rs's eval_pow_5/eval_pow_1 split.
func applyUnary(gateType uint32, v field.SimdCircuitField) (field.SimdCircuitField, error) {
	switch gateType {
	case GateTypeLinear:
		return v, nil
	case GateTypePow5:
		sq := v.Mul(v)
		qd := sq.Mul(sq)
		return qd.Mul(v), nil
	default:
		return nil, fmt.Errorf("circuit: malformed input: unsupported uni gate_type %d", gateType)
	}
}
