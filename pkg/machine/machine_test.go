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
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccaksponge"
	"github.com/consensys/go-keccak-machine/pkg/chip/merkleroot"
	"github.com/consensys/go-keccak-machine/pkg/engine"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Machine_Config(t *testing.T) {
	assert.Panics(t, func() { New(Config{Depth: 0, RangeMax: 256}) })
	assert.Panics(t, func() { New(Config{Depth: 3, RangeMax: 100}) })
	assert.Panics(t, func() { New(Config{Depth: 3, RangeMax: 128}) })
	// Range checks are of bytes only
	assert.Panics(t, func() { New(Config{Depth: 3, RangeMax: 512}) })
	// Leaf indices must fit within a field element
	assert.Panics(t, func() { New(Config{Depth: MAX_DEPTH + 1, RangeMax: RANGE_MAX}) })
	assert.NotPanics(t, func() { New(Config{Depth: MAX_DEPTH, RangeMax: RANGE_MAX}) })
	//
	m := New(DefaultConfig())
	assert.Len(t, m.Chips(), 6)
	assert.Equal(t, "merkle_root8", m.Chips()[0].Name())
	assert.Equal(t, "memory", m.Registry().Name(Memory))
	// Every column is named
	for i, chip := range m.Chips() {
		assert.Len(t, m.Columns()[i], chip.Width(), chip.Name())
	}
}

func Test_Machine_Empty(t *testing.T) {
	check_Machine(t, New(Config{Depth: 3, RangeMax: 256}), Operations{})
}

func Test_Machine_Paths_01(t *testing.T) {
	check_Paths(t, 1, 1)
}

func Test_Machine_Paths_02(t *testing.T) {
	check_Paths(t, 3, 4)
}

func Test_Machine_Paths_03(t *testing.T) {
	check_Paths(t, 8, 1)
}

func Test_Machine_Hashes(t *testing.T) {
	var (
		m   = New(Config{Depth: 2, RangeMax: 256})
		ops = Operations{Hashes: []Hash{
			{Timestamp: 1, Addr: 0, Data: randomBytes(0)},
			{Timestamp: 2, Addr: 100, Data: randomBytes(135)},
			{Timestamp: 3, Addr: 1000, Data: randomBytes(136)},
			{Timestamp: 4, Addr: 5000, Data: randomBytes(300)},
		}}
	)
	//
	traces := check_Machine(t, m, ops)
	// Every input byte read once
	reads := bus.Collect(m.Memory.Receives(), Memory, traces[5], nil)
	assert.Len(t, reads, 135+136+300)
}

func Test_Machine_Hashes_Shared(t *testing.T) {
	var (
		m    = New(Config{Depth: 2, RangeMax: 256})
		data = randomBytes(200)
		ops  = Operations{Hashes: []Hash{
			{Timestamp: 7, Addr: 64, Data: data},
			{Timestamp: 7, Addr: 64, Data: data},
			// Overlapping suffix read later
			{Timestamp: 9, Addr: 164, Data: data[100:]},
		}}
	)
	//
	check_Machine(t, m, ops)
}

func Test_Machine_Mixed(t *testing.T) {
	var (
		m      = New(Config{Depth: 3, RangeMax: 256})
		leaves = randomLeaves(8)
		ops    = Operations{
			Paths:  []merkleroot.Op{NewMerkleOp(leaves, 2), NewMerkleOp(leaves, 7)},
			Hashes: []Hash{{Timestamp: 1, Addr: 0, Data: leaves[0][:]}},
		}
	)
	//
	check_Machine(t, m, ops)
}

func Test_Machine_WrongProof(t *testing.T) {
	var (
		m      = New(Config{Depth: 3, RangeMax: 256})
		leaves = randomLeaves(8)
		op     = NewMerkleOp(leaves, 5)
		root   = op.Root(merkleroot.Keccak256{})
	)
	// A wrong sibling is still provable, but leads to another root.
	op.Siblings[1][0] ^= 1
	traces := check_Machine(t, m, Operations{Paths: []merkleroot.Op{op}})
	//
	assert.NotEqual(t, root, rootOf(m, traces, 0))
	assert.Equal(t, op.Root(merkleroot.Keccak256{}), rootOf(m, traces, 0))
}

func Test_Machine_Invalid_01(t *testing.T) {
	var (
		m   = New(Config{Depth: 2, RangeMax: 256})
		ops = Operations{Hashes: []Hash{
			{Timestamp: 1, Addr: 10, Data: []byte{1, 2, 3}},
			{Timestamp: 2, Addr: 10, Data: []byte{1, 5, 3}},
		}}
	)
	// Memory changes between reads
	_, err := m.Prove(testEngine(m), ops)
	//
	var failure *air.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "memory", failure.Chip)
}

func Test_Machine_Invalid_02(t *testing.T) {
	var (
		m   = New(Config{Depth: 2, RangeMax: 256})
		ops = Operations{Hashes: []Hash{
			{Timestamp: 1, Addr: 0, Data: []byte{1}},
			// Addresses too far apart
			{Timestamp: 1, Addr: 1 << 25, Data: []byte{2}},
		}}
	)
	//
	_, err := m.Prove(testEngine(m), ops)
	//
	var imbalance *bus.ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.Equal(t, "range8", imbalance.Name)
}

func Test_Machine_Tampered(t *testing.T) {
	var (
		m   = New(Config{Depth: 2, RangeMax: 256})
		ops = Operations{Paths: []merkleroot.Op{NewMerkleOp(randomLeaves(4), 1)}}
	)
	//
	proof, err := m.Prove(testEngine(m), ops)
	require.NoError(t, err)
	// Drop one request from the xor table
	proof.Traces[2].Set(0, 0, field.Zero())
	//
	assert.Error(t, m.Verify(testEngine(m), proof))
}

func Test_Machine_Swapped_01(t *testing.T) {
	m, traces := swapTraces()
	// Exchange the digests of two compressions on both sides
	swapColumns(traces[1], 0, 1, keccaksponge.ColMap.PartialUpdatedStateU16s[:])
	swapColumns(traces[1], 0, 1, keccaksponge.ColMap.UpdatedDigestStateBytes[:])
	merkleCols := m.Merkle.ColMap()
	swapColumns(traces[0], 0, 1, merkleCols.Output[:])
	//
	_, err := testEngine(m).Prove(m.Chips(), traces)
	//
	var imbalance *bus.ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.Equal(t, "keccak_permute_output", imbalance.Name)
}

func Test_Machine_Swapped_02(t *testing.T) {
	m, traces := swapTraces()
	// Exchange the digests received by two compressions
	merkleCols := m.Merkle.ColMap()
	swapColumns(traces[0], 0, 1, merkleCols.Output[:])
	//
	_, err := testEngine(m).Prove(m.Chips(), traces)
	//
	var imbalance *bus.ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.Equal(t, "keccak_sponge_output", imbalance.Name)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Paths(t *testing.T, depth int, n int) {
	var (
		m     = New(Config{Depth: depth, RangeMax: 256})
		paths = make([]merkleroot.Op, n)
	)
	//
	for i := range paths {
		leaves := randomLeaves(1 << depth)
		paths[i] = NewMerkleOp(leaves, uint64(3*i)%uint64(len(leaves)))
	}
	//
	traces := check_Machine(t, m, Operations{Paths: paths})
	//
	for i, p := range paths {
		assert.Equal(t, p.Root(merkleroot.Keccak256{}), rootOf(m, traces, i))
	}
}

// check_Machine generates the tables for some operations, checks that every
// bus balances, and then proves and verifies them.
func check_Machine(t *testing.T, m *Machine, ops Operations) []*trace.Table {
	traces := m.GenerateTraces(ops)
	parts := engine.Participants(m.Chips(), traces)
	require.NoError(t, bus.Balance(m.Registry(), parts))
	// Bus conservation in aggregate
	for _, traffic := range bus.Summarise(m.Registry(), parts) {
		assert.Equal(t, traffic.Sends, traffic.Receives, m.Registry().Name(traffic.Bus))
	}
	//
	proof, err := m.Prove(testEngine(m), ops)
	require.NoError(t, err)
	require.NoError(t, m.Verify(testEngine(m), proof))
	//
	return traces
}

// swapTraces generates the tables of two depth one paths, whose compressions
// occupy the first two rows of both the Merkle and sponge tables.
func swapTraces() (*Machine, []*trace.Table) {
	var (
		m   = New(Config{Depth: 1, RangeMax: 256})
		ops = Operations{Paths: []merkleroot.Op{
			NewMerkleOp(randomLeaves(2), 0),
			NewMerkleOp(randomLeaves(4)[2:], 1),
		}}
	)
	//
	return m, m.GenerateTraces(ops)
}

func swapColumns(table *trace.Table, i, j int, cols []int) {
	for _, col := range cols {
		vi, vj := table.Get(i, col), table.Get(j, col)
		table.Set(i, col, vj)
		table.Set(j, col, vi)
	}
}

func testEngine(m *Machine) engine.Engine {
	return engine.NewDebug(m.Registry())
}

// rootOf returns the root computed for the ith path of a machine.
func rootOf(m *Machine, traces []*trace.Table, i int) merkleroot.Digest {
	var (
		root    merkleroot.Digest
		outputs = bus.Collect(m.Merkle.Receives(), KeccakSpongeOutput, traces[0], nil)
	)
	//
	vals := outputs[(i+1)*m.Config().Depth-1].Uint64s()
	// Digest follows the request
	for j, v := range vals[len(vals)-merkleroot.DIGEST_WIDTH:] {
		root[j] = byte(v)
	}
	//
	return root
}

func randomLeaves(n int) []merkleroot.Digest {
	var (
		rng    = rand.New(rand.NewPCG(uint64(n), 5))
		leaves = make([]merkleroot.Digest, n)
	)
	//
	for i := range leaves {
		for j := range leaves[i] {
			leaves[i][j] = byte(rng.Uint32())
		}
	}
	//
	return leaves
}

func randomBytes(n int) []byte {
	var (
		rng   = rand.New(rand.NewPCG(uint64(n), 9))
		bytes = make([]byte, n)
	)
	//
	for i := range bytes {
		bytes[i] = byte(rng.Uint32())
	}
	//
	return bytes
}
