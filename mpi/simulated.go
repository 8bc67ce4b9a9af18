// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package mpi

import (
	"sync"

	"github.com/distributed-lab/gkr/field"
)

// hub is the shared barrier every rank in a Simulated group blocks on.
// Each collective call is a round: every rank submits its local
// contribution, the last arrival computes the reduced/gathered result and
// wakes everyone else up. Rounds are implicitly ordered because every
// rank drives the identical deterministic protocol in lockstep, so the
// same collective call is always the next one every rank makes.
type hub struct {
	worldSize int

	mu      sync.Mutex
	cond    *sync.Cond
	round   int
	arrived int

	challengeIn  [][]field.ChallengeField
	challengeOut []field.ChallengeField

	challengeGatherIn  [][]field.ChallengeField
	challengeGatherOut []field.ChallengeField

	fieldIn  [][]field.CircuitField
	fieldOut []field.CircuitField
}

func newHub(worldSize int) *hub {
	h := &hub{worldSize: worldSize}
	h.cond = sync.NewCond(&h.mu)
	h.challengeIn = make([][]field.ChallengeField, worldSize)
	h.challengeGatherIn = make([][]field.ChallengeField, worldSize)
	h.fieldIn = make([][]field.CircuitField, worldSize)
	return h
}

// barrier blocks the calling rank until every rank has called barrier for
// the current round, running compute exactly once (by whichever rank
// happens to arrive last) to produce the shared result before release.
func (h *hub) barrier(compute func()) {
	h.mu.Lock()
	myRound := h.round
	h.arrived++
	if h.arrived == h.worldSize {
		compute()
		h.arrived = 0
		h.round++
		h.cond.Broadcast()
	} else {
		for h.round == myRound {
			h.cond.Wait()
		}
	}
	h.mu.Unlock()
}

// Simulated is one rank's view of an in-process, goroutine-based MPI
// group: WorldSize() ranks cooperate via a shared hub instead of a real
// network transport, letting spec.md §8 property 4 (MPI consistency) run
// as an ordinary package test.
type Simulated struct {
	hub  *hub
	rank int
}

// NewSimulatedGroup builds worldSize Simulated configs sharing one hub,
// one per rank, for driving worldSize concurrent prover goroutines
// against the same sumcheck protocol.
func NewSimulatedGroup(worldSize int) []MPIConfig {
	h := newHub(worldSize)
	out := make([]MPIConfig, worldSize)
	for i := range out {
		out[i] = &Simulated{hub: h, rank: i}
	}
	return out
}

func (s *Simulated) WorldSize() int { return s.hub.worldSize }
func (s *Simulated) WorldRank() int { return s.rank }
func (s *Simulated) IsRoot() bool   { return s.rank == 0 }

func (s *Simulated) AllReduceSum(vals []field.ChallengeField) {
	h := s.hub
	cp := make([]field.ChallengeField, len(vals))
	copy(cp, vals)
	h.challengeIn[s.rank] = cp

	h.barrier(func() {
		n := len(h.challengeIn[0])
		sum := make([]field.ChallengeField, n)
		for i := 0; i < n; i++ {
			acc := h.challengeIn[0][i]
			for r := 1; r < h.worldSize; r++ {
				acc = acc.Add(h.challengeIn[r][i])
			}
			sum[i] = acc
		}
		h.challengeOut = sum
	})

	copy(vals, h.challengeOut)
}

func (s *Simulated) GatherCircuitFields(local []field.CircuitField) []field.CircuitField {
	h := s.hub
	cp := make([]field.CircuitField, len(local))
	copy(cp, local)
	h.fieldIn[s.rank] = cp

	h.barrier(func() {
		var out []field.CircuitField
		for r := 0; r < h.worldSize; r++ {
			out = append(out, h.fieldIn[r]...)
		}
		h.fieldOut = out
	})

	out := make([]field.CircuitField, len(h.fieldOut))
	copy(out, h.fieldOut)
	return out
}

func (s *Simulated) GatherChallengeFields(local []field.ChallengeField) []field.ChallengeField {
	h := s.hub
	cp := make([]field.ChallengeField, len(local))
	copy(cp, local)
	h.challengeGatherIn[s.rank] = cp

	h.barrier(func() {
		var out []field.ChallengeField
		for r := 0; r < h.worldSize; r++ {
			out = append(out, h.challengeGatherIn[r]...)
		}
		h.challengeGatherOut = out
	})

	out := make([]field.ChallengeField, len(h.challengeGatherOut))
	copy(out, h.challengeGatherOut)
	return out
}

func (s *Simulated) Finalize() {}
