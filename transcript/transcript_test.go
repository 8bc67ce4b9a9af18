// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package transcript

import (
	"testing"

	"github.com/distributed-lab/gkr/field"
)

func TestSHA256TranscriptDeterministic(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()

	build := func() field.ChallengeField {
		tr := NewSHA256Transcript(cfg)
		tr.AppendFieldElement(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(1)))
		tr.AppendFieldElement(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(2)))
		return tr.GenerateChallengeFieldElement()
	}

	c1 := build()
	c2 := build()
	if !c1.Equal(c2) {
		panic("test failed: transcript not deterministic")
	}
}

// TestKeccakTranscriptConsecutiveChallengesDiffer exercises the
// counter-mixing trick: two challenges drawn back to back with no
// intervening append must differ.
func TestKeccakTranscriptConsecutiveChallengesDiffer(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()
	tr := NewKeccakTranscript(cfg)
	tr.AppendFieldElement(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(9)))

	c1 := tr.GenerateChallengeFieldElement()
	c2 := tr.GenerateChallengeFieldElement()
	if c1.Equal(c2) {
		panic("test failed: consecutive challenges collided")
	}
}

func TestTranscriptDivergesOnDifferentInput(t *testing.T) {
	cfg := field.NewBN254KeccakConfig()

	tr1 := NewKeccakTranscript(cfg)
	tr1.AppendFieldElement(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(1)))
	c1 := tr1.GenerateChallengeFieldElement()

	tr2 := NewKeccakTranscript(cfg)
	tr2.AppendFieldElement(cfg.CircuitFieldToChallengeField(cfg.CircuitFieldFromUint64(2)))
	c2 := tr2.GenerateChallengeFieldElement()

	if c1.Equal(c2) {
		panic("test failed: distinct transcripts produced the same challenge")
	}
}

func TestMIMC5Transcript(t *testing.T) {
	cfg := field.NewBN254MIMC5Config()
	tr := NewMIMC5Transcript(cfg)
	tr.AppendBytes([]byte("hello"))
	c := tr.GenerateChallengeFieldElement()
	if c.IsZero() {
		panic("test failed: unexpected zero challenge")
	}
}
