// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package circuit

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/distributed-lab/gkr/field"
)

// TestLinearGKRTestCircuitEvaluation is spec.md §8 scenario S2's circuit
// algebra check: witness [1,2,3,4] evaluates to 36.
func TestLinearGKRTestCircuitEvaluation(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	c := LinearGKRTestCircuit(cfg)

	if err := c.Validate(); err != nil {
		panic(err)
	}

	witness := make([]field.SimdCircuitField, 4)
	for i, v := range []uint64{1, 2, 3, 4} {
		witness[i] = cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(v))
	}
	c.Layers[0].InputVals = witness

	out, err := c.Evaluate(cfg, nil)
	if err != nil {
		panic(err)
	}
	spew.Dump(out)

	want := cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(36))
	if !out[0].Equal(want) {
		panic("test failed: expected output 36")
	}
}

func TestGKRSquareTestCircuitEvaluation(t *testing.T) {
	cfg := field.NewM31Simd16Sha256Config()
	c := GKRSquareTestCircuit(cfg)

	if err := c.Validate(); err != nil {
		panic(err)
	}

	lanes := make([]field.CircuitField, cfg.PackSize())
	for i := range lanes {
		lanes[i] = cfg.CircuitFieldFromUint64(uint64(i))
	}
	pack := cfg.PackCircuitField(lanes)

	witness := []field.SimdCircuitField{
		cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(2)),
		cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(3)),
		cfg.CircuitFieldToSimdCircuitField(cfg.CircuitFieldFromUint64(5)),
		pack,
	}
	c.Layers[0].InputVals = witness

	publicInput := []field.CircuitField{cfg.CircuitFieldFromUint64(7)}
	out, err := c.Evaluate(cfg, publicInput)
	if err != nil {
		panic(err)
	}
	spew.Dump(out)

	if len(out) != 2 {
		panic("test failed: unexpected output width")
	}
}

func TestValidateRejectsOutOfRangeIndex(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	c := &Circuit{
		Layers: []Layer{
			{
				InputVarNum:  1,
				OutputVarNum: 1,
				Add: []GateAdd{
					{IIds: [1]uint32{5}, OId: 0, Coef: cfg.OneCircuitField(), CoefType: CoefTypeConstant},
				},
			},
		},
	}
	c.Finalize()
	if err := c.Validate(); err == nil {
		panic("test failed: expected out-of-range error")
	}
}
