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

// Package machine wires the chips together into a machine proving Merkle root
// computations, where every compression is a Keccak-256 hash.
package machine

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccakpermute"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccaksponge"
	"github.com/consensys/go-keccak-machine/pkg/chip/memory"
	"github.com/consensys/go-keccak-machine/pkg/chip/merkleroot"
	"github.com/consensys/go-keccak-machine/pkg/chip/rangecheck"
	"github.com/consensys/go-keccak-machine/pkg/chip/xor"
	"github.com/consensys/go-keccak-machine/pkg/engine"
)

// Bus identifiers of the machine.
const (
	KeccakPermuteInput bus.ID = iota
	KeccakPermuteOutput
	KeccakSpongeInput
	KeccakSpongeOutput
	XorInput
	XorOutput
	Range8
	Memory
)

var busNames = []string{
	"keccak_permute_input",
	"keccak_permute_output",
	"keccak_sponge_input",
	"keccak_sponge_output",
	"xor_input",
	"xor_output",
	"range8",
	"memory",
}

// MAX_DEPTH is the largest supported tree depth.  Leaf indices are accumulated
// in a single field element, so must stay below the field modulus.
const MAX_DEPTH = 30

// RANGE_MAX is the exclusive upper bound of the range checker.  Every value put
// on the range bus must be a byte.
const RANGE_MAX = 256

// Config determines the shape of a machine.
type Config struct {
	// Depth of the Merkle trees whose roots are computed.
	Depth int
	// Exclusive upper bound of the range checker, which must be RANGE_MAX.
	RangeMax uint
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{Depth: 8, RangeMax: RANGE_MAX}
}

// Machine is a fixed set of chips whose buses are wired together.
type Machine struct {
	config   Config
	registry *bus.Registry
	// Chips
	Merkle  *merkleroot.Chip
	Sponge  *keccaksponge.Chip
	Xor     *xor.Chip
	Permute *keccakpermute.Chip
	Range   *rangecheck.Chip
	Memory  *memory.Chip
}

// New constructs a machine for a given configuration.
func New(config Config) *Machine {
	if config.Depth <= 0 || config.Depth > MAX_DEPTH {
		panic(fmt.Sprintf("invalid tree depth %d", config.Depth))
	} else if config.RangeMax != RANGE_MAX {
		panic(fmt.Sprintf("invalid range %d", config.RangeMax))
	}
	//
	registry := bus.NewRegistry()
	//
	for i, name := range busNames {
		registry.Register(bus.ID(i), name)
	}
	//
	return &Machine{
		config:   config,
		registry: registry,
		Merkle:   &merkleroot.Chip{Depth: config.Depth, BusHasherInput: KeccakSpongeInput, BusHasherOutput: KeccakSpongeOutput},
		Sponge: &keccaksponge.Chip{
			BusInput:         KeccakSpongeInput,
			BusOutput:        KeccakSpongeOutput,
			BusPermuteInput:  KeccakPermuteInput,
			BusPermuteOutput: KeccakPermuteOutput,
			BusXorInput:      XorInput,
			BusXorOutput:     XorOutput,
			BusMemory:        Memory,
			BusRange:         Range8,
		},
		Xor:     &xor.Chip{BusInput: XorInput, BusOutput: XorOutput},
		Permute: &keccakpermute.Chip{BusInput: KeccakPermuteInput, BusOutput: KeccakPermuteOutput},
		Range:   &rangecheck.Chip{Max: config.RangeMax, Bus: Range8},
		Memory:  &memory.Chip{BusMemory: Memory, BusRange: Range8},
	}
}

// Config returns the configuration of this machine.
func (m *Machine) Config() Config {
	return m.config
}

// Registry returns the buses of this machine.
func (m *Machine) Registry() *bus.Registry {
	return m.registry
}

// Chips returns the chips of this machine, in the order of their tables.
func (m *Machine) Chips() []engine.Chip {
	return []engine.Chip{m.Merkle, m.Sponge, m.Xor, m.Permute, m.Range, m.Memory}
}

// Columns returns the names of the main columns of each chip, in chip order.
func (m *Machine) Columns() [][]string {
	return [][]string{
		m.Merkle.Names(),
		keccaksponge.Names(),
		xor.Names(),
		keccakpermute.Names(),
		rangecheck.Names(),
		memory.Names(),
	}
}

// Prove generates the tables for a given set of operations, and proves them
// with a given engine.
func (m *Machine) Prove(e engine.Engine, ops Operations) (*engine.Proof, error) {
	traces := m.GenerateTraces(ops)
	//
	proof, err := e.Prove(m.Chips(), traces)
	if err != nil {
		return nil, fmt.Errorf("proving %s: %w", m, err)
	}
	//
	return proof, nil
}

// Verify a proof against this machine.
func (m *Machine) Verify(e engine.Engine, proof *engine.Proof) error {
	if err := e.Verify(m.Chips(), proof); err != nil {
		return fmt.Errorf("verifying %s: %w", m, err)
	}
	//
	return nil
}

func (m *Machine) String() string {
	return fmt.Sprintf("machine(depth=%d, range=%d)", m.config.Depth, m.config.RangeMax)
}
