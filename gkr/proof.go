// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package gkr

import (
	"io"

	"github.com/distributed-lab/gkr/circuit"
	"github.com/distributed-lab/gkr/field"
	"github.com/distributed-lab/gkr/mpi"
	"github.com/distributed-lab/gkr/sumcheck"
)

// LayerProof is the transcript-visible content for one circuit layer.
// Exactly one of Vanilla/Square is populated, matching the Proof's
// Scheme.
type LayerProof struct {
	Vanilla *sumcheck.VanillaLayerProof
	Square  *sumcheck.SquareLayerProof
}

// Proof is the GKR proof blob of spec.md §3: per layer (top to bottom),
// per round, the round-polynomial evaluations, plus the phase-end
// v_claim scalars. There is no framing (spec.md §6): Serialize/Deserialize
// read and write a fixed number of field elements per layer, derived
// entirely from the circuit's own structure, exactly as both prover and
// verifier advance in lockstep over the same circuit.
type Proof struct {
	Scheme Scheme
	Layers []LayerProof // ordered top (output layer) to bottom (witness layer 0)
}

// Serialize writes the proof as the byte stream spec.md §6 describes:
// every field element via its config's fixed-size serialization, no
// framing.
func (p *Proof) Serialize(cfg field.GKRConfig) []byte {
	var buf []byte
	writeRounds := func(rounds []sumcheck.RoundProof) {
		for _, rp := range rounds {
			for _, e := range rp.Evals {
				buf = append(buf, e.Serialize()...)
			}
		}
	}
	for _, lp := range p.Layers {
		switch p.Scheme {
		case Vanilla:
			v := lp.Vanilla
			writeRounds(v.XRounds)
			writeRounds(v.SimdRounds)
			writeRounds(v.MpiRounds)
			buf = append(buf, v.VXClaim.Serialize()...)
			buf = append(buf, v.HGClaim.Serialize()...)
			if v.YRounds != nil {
				writeRounds(v.YRounds)
				buf = append(buf, v.VYClaim.Serialize()...)
			}
		case GkrSquare:
			s := lp.Square
			writeRounds(s.XRounds)
			writeRounds(s.SimdRounds)
			writeRounds(s.MpiRounds)
			buf = append(buf, s.VXClaim.Serialize()...)
		}
	}
	return buf
}

// DeserializeProof reads a Proof back from r. c is the circuit the proof
// was produced against (its layer InputVarNum/MaxDegreeOne values, plus
// nSimdVars = log2(cfg.PackSize()) and nMpiVars = log2(mpiConfig.WorldSize()),
// determine exactly how many field elements each layer's round groups
// occupy - the same way the circuit file format itself is "a pure parse"
// against a known layer shape (spec.md §6)). Any short read or
// out-of-range deserialized element propagates as an error; malformed
// proof content this shallow parse can't catch (wrong arithmetic) is
// caught instead by the verifier's per-round claim checks.
func DeserializeProof(cfg field.GKRConfig, c *circuit.Circuit, scheme Scheme, mpiConfig mpi.MPIConfig, r io.Reader) (*Proof, error) {
	nSimdVars := log2PowerOfTwo(cfg.PackSize())
	nMpiVars := log2PowerOfTwo(mpiConfig.WorldSize())

	readRounds := func(n, width int) ([]sumcheck.RoundProof, error) {
		out := make([]sumcheck.RoundProof, n)
		for i := 0; i < n; i++ {
			evals := make([]field.ChallengeField, width)
			for j := 0; j < width; j++ {
				e, err := cfg.DeserializeChallengeField(r)
				if err != nil {
					return nil, err
				}
				evals[j] = e
			}
			out[i] = sumcheck.RoundProof{Evals: evals}
		}
		return out, nil
	}

	proof := &Proof{Scheme: scheme}
	for li := len(c.Layers) - 1; li >= 0; li-- {
		layer := &c.Layers[li]
		nIn := layer.InputVarNum

		switch scheme {
		case Vanilla:
			xRounds, err := readRounds(nIn, sumcheck.VanillaDegreePlusOne)
			if err != nil {
				return nil, err
			}
			simdRounds, err := readRounds(nSimdVars, sumcheck.VanillaSimdDegreePlusOne)
			if err != nil {
				return nil, err
			}
			mpiRounds, err := readRounds(nMpiVars, sumcheck.VanillaDegreePlusOne)
			if err != nil {
				return nil, err
			}
			vxClaim, err := cfg.DeserializeChallengeField(r)
			if err != nil {
				return nil, err
			}
			hgClaim, err := cfg.DeserializeChallengeField(r)
			if err != nil {
				return nil, err
			}
			v := sumcheck.VanillaLayerProof{XRounds: xRounds, SimdRounds: simdRounds, MpiRounds: mpiRounds, VXClaim: vxClaim, HGClaim: hgClaim}
			if !layer.MaxDegreeOne {
				yRounds, err := readRounds(nIn, sumcheck.VanillaDegreePlusOne)
				if err != nil {
					return nil, err
				}
				vyClaim, err := cfg.DeserializeChallengeField(r)
				if err != nil {
					return nil, err
				}
				v.YRounds = yRounds
				v.VYClaim = vyClaim
			}
			proof.Layers = append(proof.Layers, LayerProof{Vanilla: &v})
		case GkrSquare:
			xRounds, err := readRounds(nIn, sumcheck.SquareDegreePlusOne)
			if err != nil {
				return nil, err
			}
			simdRounds, err := readRounds(nSimdVars, sumcheck.SquareDegreePlusOne)
			if err != nil {
				return nil, err
			}
			mpiRounds, err := readRounds(nMpiVars, sumcheck.SquareDegreePlusOne)
			if err != nil {
				return nil, err
			}
			vxClaim, err := cfg.DeserializeChallengeField(r)
			if err != nil {
				return nil, err
			}
			s := sumcheck.SquareLayerProof{XRounds: xRounds, SimdRounds: simdRounds, MpiRounds: mpiRounds, VXClaim: vxClaim}
			proof.Layers = append(proof.Layers, LayerProof{Square: &s})
		}
	}
	return proof, nil
}
