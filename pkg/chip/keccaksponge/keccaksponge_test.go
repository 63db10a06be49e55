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
package keccaksponge

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/test/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

const (
	INPUT bus.ID = iota
	OUTPUT
	PERMUTE_INPUT
	PERMUTE_OUTPUT
	XOR_INPUT
	XOR_OUTPUT
	MEMORY
	RANGE
)

var allBuses = []bus.ID{INPUT, OUTPUT, PERMUTE_INPUT, PERMUTE_OUTPUT, XOR_INPUT, XOR_OUTPUT, MEMORY, RANGE}

var testChip = &Chip{INPUT, OUTPUT, PERMUTE_INPUT, PERMUTE_OUTPUT, XOR_INPUT, XOR_OUTPUT, MEMORY, RANGE}

func Test_Sponge_Layout(t *testing.T) {
	assert.Equal(t, 561, NumCols)
	assert.Equal(t, "is_padding_byte[3]", Names()[ColMap.IsPaddingByte[3]])
	assert.Equal(t, "updated_digest_state_bytes[31]", Names()[NumCols-1])
}

func Test_Sponge_Digest_01(t *testing.T) {
	check_Sponge(t, 0)
}

func Test_Sponge_Digest_02(t *testing.T) {
	check_Sponge(t, 1)
}

func Test_Sponge_Digest_03(t *testing.T) {
	check_Sponge(t, 64)
}

func Test_Sponge_Digest_04(t *testing.T) {
	check_Sponge(t, 135)
}

func Test_Sponge_Digest_05(t *testing.T) {
	check_Sponge(t, 136)
}

func Test_Sponge_Digest_06(t *testing.T) {
	check_Sponge(t, 137)
}

func Test_Sponge_Digest_07(t *testing.T) {
	check_Sponge(t, 400)
}

func Test_Sponge_ExactBlocks(t *testing.T) {
	var (
		op    = Op{Input: randomBytes(2 * RATE_BYTES)}
		table = testChip.GenerateTrace([]Op{op})
	)
	//
	util.CheckValid(t, testChip, table, nil, 3)
	// Two full input blocks without padding bytes
	for i := 0; i < 2; i++ {
		assert.True(t, table.Get(i, ColMap.IsFullInputBlock).IsOne())
		//
		for _, col := range ColMap.IsPaddingByte {
			assert.True(t, table.Get(i, col).IsZero())
		}
	}
	// Then a block made entirely of padding
	assert.True(t, table.Get(2, ColMap.IsPaddingByte[0]).IsOne())
	assert.Equal(t, uint64(0x01), table.Get(2, ColMap.BlockBytes[0]).Uint64())
	assert.Equal(t, uint64(0x80), table.Get(2, ColMap.BlockBytes[RATE_BYTES-1]).Uint64())
}

func Test_Sponge_MergedPadding(t *testing.T) {
	var (
		op    = Op{Input: randomBytes(RATE_BYTES - 1)}
		table = testChip.GenerateTrace([]Op{op})
	)
	//
	util.CheckValid(t, testChip, table, nil, 1)
	assert.Equal(t, uint64(0x81), table.Get(0, ColMap.BlockBytes[RATE_BYTES-1]).Uint64())
	assert.True(t, table.Get(0, ColMap.IsPaddingByte[RATE_BYTES-2]).IsZero())
}

func Test_Sponge_Many(t *testing.T) {
	var ops []Op
	//
	for _, n := range []int{0, 10, 136, 300, 64, 64, 1000} {
		ops = append(ops, Op{Timestamp: uint32(n), Input: randomBytes(n)})
	}
	//
	table := testChip.GenerateTrace(ops)
	util.CheckValid(t, testChip, table, nil, 1+1+2+3+1+1+8)
	// One digest per absorption
	digests := bus.Collect(testChip.Sends(), OUTPUT, table, nil)
	require.Len(t, digests, len(ops))
	//
	for i, op := range ops {
		assert.Equal(t, keccak256(op.Input), bytesOf(digests[i]))
	}
}

func Test_Sponge_Memory(t *testing.T) {
	var (
		op    = Op{Timestamp: 7, Addr: 1000, Input: randomBytes(200), Memory: true}
		table = testChip.GenerateTrace([]Op{op})
	)
	//
	util.CheckValid(t, testChip, table, nil, 2)
	// Every input byte is read from memory, but no padding byte
	reads := bus.Collect(testChip.Sends(), MEMORY, table, nil)
	require.Len(t, reads, len(op.Input))
	//
	for i, r := range reads {
		assert.Equal(t, []uint64{7, uint64(1000 + i), uint64(op.Input[i])}, r.Uint64s())
	}
	// Neither the input bus nor the output bus are used
	assert.Empty(t, bus.Collect(testChip.Receives(), INPUT, table, nil))
	assert.Empty(t, bus.Collect(testChip.Sends(), OUTPUT, table, nil))
}

func Test_Sponge_Blocks(t *testing.T) {
	var (
		op    = Op{Input: randomBytes(64)}
		table = testChip.GenerateTrace([]Op{op})
	)
	// The requested block includes its padding
	blocks := bus.Collect(testChip.Receives(), INPUT, table, nil)
	require.Len(t, blocks, 1)
	//
	values := blocks[0].Uint64s()
	require.Len(t, values, 1+RATE_BYTES)
	assert.Equal(t, uint64(0), values[0])
	assert.Equal(t, uint64(op.Input[63]), values[64])
	assert.Equal(t, uint64(0x01), values[65])
	assert.Equal(t, uint64(0x80), values[RATE_BYTES])
	// The digest follows the block it was computed from
	digests := bus.Collect(testChip.Sends(), OUTPUT, table, nil)
	require.Len(t, digests, 1)
	assert.Equal(t, values, digests[0].Uint64s()[:1+RATE_BYTES])
	assert.Equal(t, keccak256(op.Input), bytesOf(digests[0]))
	// The permuted state follows its preimage
	preimages := bus.Collect(testChip.Sends(), PERMUTE_INPUT, table, nil)
	states := bus.Collect(testChip.Receives(), PERMUTE_OUTPUT, table, nil)
	require.Len(t, states, 1)
	assert.Equal(t, preimages[0].Uint64s(), states[0].Uint64s()[:WIDTH_U16S])
}

func Test_Sponge_Invalid_01(t *testing.T) {
	table := testChip.GenerateTrace([]Op{{Input: randomBytes(10)}})
	// Wrong padding byte
	table.Set(0, ColMap.BlockBytes[10], field.Uint64(0x02))
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_Sponge_Invalid_02(t *testing.T) {
	table := testChip.GenerateTrace([]Op{{Input: randomBytes(10)}})
	// Non-monotone padding flags
	table.Set(0, ColMap.IsPaddingByte[20], field.Zero())
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_Sponge_Invalid_03(t *testing.T) {
	table := testChip.GenerateTrace([]Op{{Input: randomBytes(300)}})
	// Broken state chaining
	col := ColMap.OriginalCapacityU16s[5]
	table.Set(1, col, table.Get(1, col).Add(field.One()))
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_Sponge_Invalid_04(t *testing.T) {
	table := testChip.GenerateTrace([]Op{{Input: randomBytes(300)}})
	// Wrong number of absorbed bytes
	table.Set(2, ColMap.AlreadyAbsorbedBytes, field.Uint64(136))
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_Sponge_Invalid_05(t *testing.T) {
	table := testChip.GenerateTrace([]Op{{Input: randomBytes(10)}})
	// Memory input on a padding row
	table.Set(1, ColMap.IsMemoryInput, field.One())
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_Sponge_Degrees(t *testing.T) {
	util.CheckDegrees(t, testChip, testChip)
}

func Test_Sponge_Rebased(t *testing.T) {
	util.CheckRebased(t, testChip.Sends(), testChip.SendsFromIndices, NumCols, 0, allBuses...)
	util.CheckRebased(t, testChip.Receives(), testChip.ReceivesFromIndices, NumCols, 0, allBuses...)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Sponge(t *testing.T, n int) {
	var (
		op     = Op{Input: randomBytes(n)}
		digest = GenerateRows(make2D(op.Rows(), NumCols), &op)
		table  = testChip.GenerateTrace([]Op{op})
	)
	//
	assert.Equal(t, keccak256(op.Input), digest[:])
	util.CheckValid(t, testChip, table, nil, op.Rows())
	// Final digest exposed on the output bus
	digests := bus.Collect(testChip.Sends(), OUTPUT, table, nil)
	require.Len(t, digests, 1)
	assert.Equal(t, digest[:], bytesOf(digests[0]))
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	//
	return h.Sum(nil)
}

func bytesOf(t bus.Tuple) []byte {
	var bytes []byte
	//
	vals := t.Uint64s()
	// Digest follows the final block
	for _, v := range vals[len(vals)-DIGEST_BYTES:] {
		bytes = append(bytes, byte(v))
	}
	//
	return bytes
}

func make2D(height, width int) [][]field.Element {
	rows := make([][]field.Element, height)
	//
	for i := range rows {
		rows[i] = make([]field.Element, width)
	}
	//
	return rows
}

func randomBytes(n int) []byte {
	var (
		rng   = rand.New(rand.NewPCG(uint64(n), 3))
		bytes = make([]byte, n)
	)
	//
	for i := range bytes {
		bytes[i] = byte(rng.Uint32())
	}
	//
	return bytes
}
