// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package mpi

import "github.com/distributed-lab/gkr/field"

// Single is the world_size=1 default MPIConfig: every collective is the
// identity, so running the GKR prover/verifier against it is exactly the
// single-process behaviour of spec.md §4.E's mpi-phase tie-break ("when a
// variable group has zero variables... the phase is skipped, no bytes are
// written"). Every scenario in spec.md §8 except property 4 runs under
// Single.
type Single struct{}

// NewSingle constructs the trivial, single-process MPIConfig.
func NewSingle() *Single { return &Single{} }

func (s *Single) WorldSize() int { return 1 }
func (s *Single) WorldRank() int { return 0 }
func (s *Single) IsRoot() bool   { return true }

func (s *Single) AllReduceSum(vals []field.ChallengeField) {}

func (s *Single) GatherCircuitFields(local []field.CircuitField) []field.CircuitField {
	cp := make([]field.CircuitField, len(local))
	copy(cp, local)
	return cp
}

func (s *Single) GatherChallengeFields(local []field.ChallengeField) []field.ChallengeField {
	cp := make([]field.ChallengeField, len(local))
	copy(cp, local)
	return cp
}

func (s *Single) Finalize() {}
