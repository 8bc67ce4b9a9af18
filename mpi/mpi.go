// Package mpi
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpi implements component I, the MPI coordination contract: the
// collective-communication operations the sumcheck mpi phase and the
// GKR prover/verifier use to reduce per-process data into the single
// transcript both sides observe. Grounded on spec.md §6's MPI contract
// description; no MPI transport exists anywhere in the retrieval pack
// (spec.md §1 excludes "the MPI transport itself" from the core), so the
// two implementations here are original scaffolding: Single is the
// trivial world_size=1 default every scenario in spec.md §8 runs under,
// and Simulated is an in-process, goroutine-based multi-rank stand-in
// used only to exercise the collectives themselves and the MPI
// consistency property (spec.md §8 property 4) without a real transport.
package mpi

import (
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/transcript"
)

// MPIConfig is the collective-communication contract consumed by the GKR
// prover/verifier (component I) and, when world_size > 1, by the
// sumcheck mpi phase (spec.md §4.E phase 3).
type MPIConfig interface {
	// WorldSize returns the number of cooperating processes. Always a
	// power of two.
	WorldSize() int
	WorldRank() int
	IsRoot() bool

	// AllReduceSum sums vals elementwise across every process and leaves
	// the result in vals on every process (in place, matching the Rust
	// `all_reduce_sum<F_e>(&mut [F_e])` signature from spec.md §6).
	AllReduceSum(vals []field.ChallengeField)

	// GatherCircuitFields concatenates local's chunk into a single
	// world_size*len(local)-length vector, ordered by rank, visible on
	// every process. The GKR prover and verifier do not call it; public
	// input is not gathered across ranks anywhere in this module.
	GatherCircuitFields(local []field.CircuitField) []field.CircuitField

	// GatherChallengeFields is GatherCircuitFields's ChallengeField-valued
	// analogue, used by the sumcheck mpi phase (spec.md §4.E phase 3) to
	// assemble every rank's x/simd-phase-end claim(s) into a single
	// world_size*len(local)-length vector before folding the rank dimension
	// locally, the same way the SIMD phase folds the lane dimension.
	GatherChallengeFields(local []field.ChallengeField) []field.ChallengeField

	Finalize()
}

// TranscriptIO is the convenience spec.md §6 names: all-reduce-sum evals,
// then append each of the reduced values to t, in order. The sumcheck mpi
// phase does not call it: its rounds gather each rank's claims with
// GatherChallengeFields and append their own evaluations directly.
func TranscriptIO(m MPIConfig, evals []field.ChallengeField, t transcript.Transcript) {
	m.AllReduceSum(evals)
	for _, e := range evals {
		t.AppendFieldElement(e)
	}
}
