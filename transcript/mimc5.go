// Package transcript
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package transcript

import (
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/distributed-lab/gkr/field"
)

// NewMIMC5Transcript builds a Transcript backed by gnark-crypto's BN254 Fr
// MIMC permutation (the degree-5 S-box "MIMC5" construction), pulled from
// the gnark-based examples (giuliop-AlgoPlonk, yswami-tfh-ProveKit) since
// the teacher repo doesn't use a circuit-friendly hash itself. Pair this
// only with field.NewBN254MIMC5Config: MIMC's native modulus is the BN254
// scalar field, so using it with any other CircuitFieldSerializedSize
// would silently truncate or misalign absorbed bytes.
func NewMIMC5Transcript(cfg field.GKRConfig) Transcript {
	return newBase(cfg, func() hash.Hash { return mimc.NewMiMC() })
}
