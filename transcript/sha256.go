// Package transcript
// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package transcript

import (
	"crypto/sha256"
	"hash"

	"github.com/distributed-lab/gkr/field"
)

// NewSHA256Transcript builds a Transcript backed by stdlib SHA-256. No
// third-party SHA-256 implementation in the retrieval pack improves on the
// standard library one, so this backend is the one ambient-stack
// exception that stays on crypto/sha256 by design (see SPEC_FULL.md §2).
func NewSHA256Transcript(cfg field.GKRConfig) Transcript {
	return newBase(cfg, func() hash.Hash { return sha256.New() })
}
