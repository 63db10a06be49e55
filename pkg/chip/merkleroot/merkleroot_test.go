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
package merkleroot

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/test/util"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

const (
	HASHER_INPUT bus.ID = iota
	HASHER_OUTPUT
)

func Test_Merkle_Layout(t *testing.T) {
	chip := testChip(3)
	//
	assert.Equal(t, 1+3+32+32+1+1+1+32+32+32, chip.Width())
	assert.Len(t, chip.Names(), chip.Width())
	assert.Equal(t, "step_flags[2]", chip.Names()[3])
}

func Test_Merkle_Compress(t *testing.T) {
	var left, right Digest
	//
	left[0], right[31] = 1, 2
	//
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(left[:])
	hasher.Write(right[:])
	//
	digest := Keccak256{}.Compress(left, right)
	assert.Equal(t, hasher.Sum(nil), digest[:])
}

func Test_Merkle_NewOp(t *testing.T) {
	var (
		c      = Keccak256{}
		leaves = randomLeaves(8)
		l01    = c.Compress(leaves[0], leaves[1])
		l23    = c.Compress(leaves[2], leaves[3])
		l45    = c.Compress(leaves[4], leaves[5])
		l67    = c.Compress(leaves[6], leaves[7])
		root   = c.Compress(c.Compress(l01, l23), c.Compress(l45, l67))
	)
	//
	op := NewOp(leaves, 5, c)
	assert.Equal(t, []Digest{leaves[4], l67, c.Compress(l01, l23)}, op.Siblings)
	assert.Equal(t, root, op.Root(c))
	// Every leaf leads to the same root
	for i := range leaves {
		op := NewOp(leaves, uint64(i), c)
		assert.Equal(t, root, op.Root(c))
	}
	//
	assert.Panics(t, func() { NewOp(leaves[:3], 0, c) })
	assert.Panics(t, func() { NewOp(leaves, 8, c) })
}

func Test_Merkle_Depth1(t *testing.T) {
	check_Merkle(t, 1, 1)
}

func Test_Merkle_Depth3_01(t *testing.T) {
	check_Merkle(t, 3, 1)
}

func Test_Merkle_Depth3_02(t *testing.T) {
	check_Merkle(t, 3, 5)
}

func Test_Merkle_Depth8(t *testing.T) {
	check_Merkle(t, 8, 2)
}

func Test_Merkle_Depth5_Empty(t *testing.T) {
	check_Merkle(t, 5, 0)
}

func Test_Merkle_Invalid_01(t *testing.T) {
	chip, table := invalidTable()
	// Wrong leaf index
	table.Set(2, chip.ColMap().LeafIndex, field.Uint64(3))
	util.CheckInvalid(t, chip, table, nil)
}

func Test_Merkle_Invalid_02(t *testing.T) {
	chip, table := invalidTable()
	// Output not carried into the next node
	col := chip.ColMap().Node[7]
	table.Set(1, col, table.Get(1, col).Add(field.One()))
	util.CheckInvalid(t, chip, table, nil)
}

func Test_Merkle_Invalid_03(t *testing.T) {
	chip, table := invalidTable()
	// Flip a direction bit without swapping the children
	col := chip.ColMap().IsRightChild
	table.Set(0, col, field.One().Sub(table.Get(0, col)))
	util.CheckInvalid(t, chip, table, nil)
}

func Test_Merkle_Degrees(t *testing.T) {
	chip := testChip(8)
	util.CheckDegrees(t, chip, chip)
}

func Test_Merkle_Rebased(t *testing.T) {
	chip := testChip(4)
	util.CheckRebased(t, chip.Sends(), chip.SendsFromIndices, chip.Width(), 0, HASHER_INPUT)
	util.CheckRebased(t, chip.Receives(), chip.ReceivesFromIndices, chip.Width(), 0, HASHER_OUTPUT)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Merkle(t *testing.T, depth int, n int) {
	var (
		chip = testChip(depth)
		c    = Keccak256{}
		ops  = make([]Op, n)
	)
	//
	for i := range ops {
		leaves := randomLeaves(1 << depth)
		ops[i] = NewOp(leaves, uint64(i*7)%uint64(len(leaves)), c)
	}
	//
	table := chip.GenerateTrace(ops, c)
	util.CheckValid(t, chip, table, nil, n*depth)
	// One compression request per level
	requests := bus.Collect(chip.Sends(), HASHER_INPUT, table, nil)
	outputs := bus.Collect(chip.Receives(), HASHER_OUTPUT, table, nil)
	require.Len(t, requests, n*depth)
	require.Len(t, outputs, n*depth)
	//
	for i, req := range requests {
		var (
			vals        = req.Uint64s()
			left, right Digest
		)
		//
		require.Len(t, vals, 137)
		assert.Equal(t, uint64(0x01), vals[65])
		assert.Equal(t, uint64(0x80), vals[136])
		//
		for j := 0; j < DIGEST_WIDTH; j++ {
			left[j], right[j] = byte(vals[1+j]), byte(vals[1+DIGEST_WIDTH+j])
		}
		//
		assert.Equal(t, vals, outputs[i].Uint64s()[:len(vals)])
		assert.Equal(t, c.Compress(left, right), digestOf(outputs[i]))
	}
	// Final outputs are the roots, with accumulated index matching
	cols := chip.ColMap()
	//
	for i, op := range ops {
		last := (i+1)*depth - 1
		assert.Equal(t, op.Root(c), digestOf(outputs[last]))
		assert.Equal(t, op.LeafIndex, table.Get(last, cols.AccumulatedIndex).Uint64())
	}
}

func invalidTable() (*Chip, *trace.Table) {
	chip := testChip(3)
	op := NewOp(randomLeaves(8), 6, Keccak256{})
	//
	return chip, chip.GenerateTrace([]Op{op}, Keccak256{})
}

func testChip(depth int) *Chip {
	return &Chip{Depth: depth, BusHasherInput: HASHER_INPUT, BusHasherOutput: HASHER_OUTPUT}
}

func digestOf(t bus.Tuple) Digest {
	var d Digest
	//
	vals := t.Uint64s()
	// Digest follows the request
	for i, v := range vals[len(vals)-DIGEST_WIDTH:] {
		d[i] = byte(v)
	}
	//
	return d
}

func randomLeaves(n int) []Digest {
	var (
		rng    = rand.New(rand.NewPCG(uint64(n), 11))
		leaves = make([]Digest, n)
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
