// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package mpi

import (
	"sync"
	"testing"

	"github.com/distributed-lab/gkr/field"
)

func TestSingle(t *testing.T) {
	s := NewSingle()
	if s.WorldSize() != 1 || s.WorldRank() != 0 || !s.IsRoot() {
		panic("test failed: Single identity mismatch")
	}

	cfg := field.NewBN254KeccakConfig()
	vals := []field.ChallengeField{cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(9))}
	s.AllReduceSum(vals)
	if !vals[0].Equal(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(9))) {
		panic("test failed: Single.AllReduceSum mutated its input")
	}
}

// TestSimulatedAllReduceSum exercises spec.md §8 property 4's collective
// building block directly: worldSize ranks each contribute a local vector,
// and every rank observes the elementwise sum.
func TestSimulatedAllReduceSum(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	const worldSize = 4
	group := NewSimulatedGroup(worldSize)

	var wg sync.WaitGroup
	results := make([][]field.ChallengeField, worldSize)
	for rank := 0; rank < worldSize; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			vals := []field.ChallengeField{
				cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(uint64(rank + 1))),
			}
			group[rank].AllReduceSum(vals)
			results[rank] = vals
		}(rank)
	}
	wg.Wait()

	want := cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(1 + 2 + 3 + 4))
	for rank, r := range results {
		if !r[0].Equal(want) {
			panic("test failed: rank result mismatch")
		}
		_ = rank
	}
}

func TestSimulatedGatherCircuitFields(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	const worldSize = 3
	group := NewSimulatedGroup(worldSize)

	var wg sync.WaitGroup
	results := make([][]field.CircuitField, worldSize)
	for rank := 0; rank < worldSize; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			local := []field.CircuitField{cfg.CircuitFieldFromUint64(uint64(rank))}
			results[rank] = group[rank].GatherCircuitFields(local)
		}(rank)
	}
	wg.Wait()

	for rank, r := range results {
		if len(r) != worldSize {
			panic("test failed: gathered length mismatch")
		}
		for i, v := range r {
			if !v.Equal(cfg.CircuitFieldFromUint64(uint64(i))) {
				panic("test failed: gathered order mismatch")
			}
		}
		_ = rank
	}
}

// TestSimulatedGatherChallengeFields is GatherCircuitFields's
// ChallengeField-valued analogue, the collective the sumcheck mpi phase
// (spec.md §4.E phase 3) gathers each rank's x/simd-phase-end claim through.
func TestSimulatedGatherChallengeFields(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	const worldSize = 4
	group := NewSimulatedGroup(worldSize)

	var wg sync.WaitGroup
	results := make([][]field.ChallengeField, worldSize)
	for rank := 0; rank < worldSize; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			local := []field.ChallengeField{cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(uint64(rank)))}
			results[rank] = group[rank].GatherChallengeFields(local)
		}(rank)
	}
	wg.Wait()

	for _, r := range results {
		if len(r) != worldSize {
			panic("test failed: gathered length mismatch")
		}
		for i, v := range r {
			if !v.Equal(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(uint64(i)))) {
				panic("test failed: gathered order mismatch")
			}
		}
	}
}
