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
package machine

import (
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccakpermute"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccaksponge"
	"github.com/consensys/go-keccak-machine/pkg/chip/memory"
	"github.com/consensys/go-keccak-machine/pkg/chip/merkleroot"
	"github.com/consensys/go-keccak-machine/pkg/chip/xor"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Hash is a request to hash a byte string held in memory at consecutive
// addresses, as read at a given timestamp.  Since no chip writes memory, the
// first read of each address determines its contents.
type Hash struct {
	Timestamp uint32
	Addr      uint32
	Data      []byte
}

// Operations are the top-level operations of a machine.  All other operations
// are derived from these.
type Operations struct {
	// Merkle root computations.
	Paths []merkleroot.Op
	// Memory-backed Keccak-256 hashes.
	Hashes []Hash
}

// NewMerkleOp constructs the root computation for the leaf at a given index
// of a leaf level, using Keccak-256 compression.
func NewMerkleOp(leaves []merkleroot.Digest, index uint64) merkleroot.Op {
	return merkleroot.NewOp(leaves, index, merkleroot.Keccak256{})
}

// GenerateTraces constructs the table of every chip, in chip order.  Chips are
// generated from the top down, such that the operations of each chip are
// derived from the tuples sent to it by those before it.
func (m *Machine) GenerateTraces(ops Operations) []*trace.Table {
	var (
		stats  = util.NewPerfStats()
		merkle = generate(m.Merkle.Name(), func() *trace.Table {
			return m.Merkle.GenerateTrace(ops.Paths, merkleroot.Keccak256{})
		})
		sponge = generate(m.Sponge.Name(), func() *trace.Table {
			return m.Sponge.GenerateTrace(m.spongeOps(merkle, ops.Hashes))
		})
		xors = generate(m.Xor.Name(), func() *trace.Table {
			return m.Xor.GenerateTrace(m.xorOps(sponge))
		})
		permutes = generate(m.Permute.Name(), func() *trace.Table {
			return m.Permute.GenerateTrace(m.permuteOps(sponge))
		})
		mem = generate(m.Memory.Name(), func() *trace.Table {
			return m.Memory.GenerateTrace(m.memoryOps(sponge))
		})
		ranges = generate(m.Range.Name(), func() *trace.Table {
			counter := m.Range.NewCounter()
			counter.AddTuples(bus.Collect(m.Sponge.Sends(), Range8, sponge, nil))
			counter.AddTuples(bus.Collect(m.Memory.Sends(), Range8, mem, nil))
			//
			if counter.Dropped() > 0 {
				log.Warnf("%d range checks cannot be satisfied", counter.Dropped())
			}
			//
			return m.Range.GenerateTrace(counter)
		})
	)
	//
	stats.Log("Generating %d paths and %d hashes", len(ops.Paths), len(ops.Hashes))
	//
	return []*trace.Table{merkle, sponge, xors, permutes, ranges, mem}
}

// spongeOps derives one absorption per compression requested by the Merkle
// table, followed by one per memory-backed hash.
func (m *Machine) spongeOps(merkle *trace.Table, hashes []Hash) []keccaksponge.Op {
	var ops []keccaksponge.Op
	//
	for _, block := range bus.Flatten(bus.Collect(m.Merkle.Sends(), KeccakSpongeInput, merkle, nil)) {
		// Skip the absorbed byte count, and take both children
		input := make([]byte, 2*merkleroot.DIGEST_WIDTH)
		//
		for i := range input {
			input[i] = byte(block[1+i].Uint64())
		}
		//
		ops = append(ops, keccaksponge.Op{Input: input})
	}
	//
	for _, h := range hashes {
		ops = append(ops, keccaksponge.Op{Timestamp: h.Timestamp, Addr: h.Addr, Input: h.Data, Memory: true})
	}
	//
	return ops
}

func (m *Machine) xorOps(sponge *trace.Table) []xor.Op {
	var ops []xor.Op
	//
	for _, operands := range bus.Flatten(bus.Collect(m.Sponge.Sends(), XorInput, sponge, nil)) {
		ops = append(ops, xor.Op{Input1: uint16(operands[0].Uint64()), Input2: uint16(operands[1].Uint64())})
	}
	//
	return ops
}

func (m *Machine) permuteOps(sponge *trace.Table) []keccakpermute.Op {
	var ops []keccakpermute.Op
	//
	for _, preimage := range bus.Flatten(bus.Collect(m.Sponge.Sends(), KeccakPermuteInput, sponge, nil)) {
		ops = append(ops, keccakpermute.OpFromLimbs(preimage))
	}
	//
	return ops
}

// memoryOps derives the (sorted) log of reads made by memory-backed
// absorptions.
func (m *Machine) memoryOps(sponge *trace.Table) []memory.Op {
	var ops []memory.Op
	//
	for _, access := range bus.Flatten(bus.Collect(m.Sponge.Sends(), Memory, sponge, nil)) {
		ops = append(ops, memory.Op{
			Timestamp: uint32(access[0].Uint64()),
			Addr:      uint32(access[1].Uint64()),
			Value:     uint8(access[2].Uint64()),
			Kind:      memory.READ,
		})
	}
	//
	memory.SortOps(ops)
	//
	return ops
}

func generate(name string, fn func() *trace.Table) *trace.Table {
	stats := util.NewPerfStats()
	table := fn()
	//
	stats.Log("Generating %s table (%d x %d)", name, table.Height(), table.Width())
	//
	return table
}
