// Package transcript
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package transcript

import (
	"hash"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/distributed-lab/gkr/field"
)

// NewKeccakTranscript builds a Transcript backed by go-ethereum's Keccak
// state, the same hash.Hash the teacher's KeccakFS uses in fs.go.
func NewKeccakTranscript(cfg field.GKRConfig) Transcript {
	return newBase(cfg, func() hash.Hash { return gethcrypto.NewKeccakState() })
}
