// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package engine defines the boundary between a machine and the proving
// system which consumes its chips and tables.
package engine

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Chip is everything a proving engine needs to know about a chip, namely its
// constraints and its bus interactions.
type Chip interface {
	air.Chip
	bus.Interactive
}

// Proof is an opaque proof object, as produced by an engine.
type Proof struct {
	// Main table of each chip, in chip order.
	Traces []*trace.Table
	// Commitment to all main tables, from which any verifier challenges are
	// derived.
	Commitment Digest
}

// Engine proves that a list of tables is a witness for a list of chips, and
// verifies such proofs.
type Engine interface {
	// Prove a list of main tables against the corresponding chips.
	Prove(chips []Chip, traces []*trace.Table) (*Proof, error)
	// Verify a proof against the given chips.
	Verify(chips []Chip, proof *Proof) error
}

// Preprocessed returns the preprocessed table of a chip, or nil if it has
// none.
func Preprocessed(chip Chip) *trace.Table {
	if p, ok := chip.(air.PreprocessedChip); ok {
		return p.PreprocessedTrace()
	}
	//
	return nil
}

// Participants pairs each chip with its tables, for the purposes of checking
// bus traffic.
func Participants(chips []Chip, traces []*trace.Table) []bus.Participant {
	parts := make([]bus.Participant, len(chips))
	//
	for i, chip := range chips {
		parts[i] = bus.Participant{
			Name:         chip.Name(),
			Chip:         chip,
			Main:         traces[i],
			Preprocessed: Preprocessed(chip),
		}
	}
	//
	return parts
}
