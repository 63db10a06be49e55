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
package keccakpermute

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/keccakf"
	"github.com/consensys/go-keccak-machine/pkg/test/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	INPUT bus.ID = iota
	OUTPUT
)

var testChip = &Chip{BusInput: INPUT, BusOutput: OUTPUT}

func Test_KeccakPermute_Layout(t *testing.T) {
	assert.Equal(t, keccakf.NumCols+3, NumCols)
	assert.Equal(t, "keccak.step_flags[0]", Names()[0])
	assert.Equal(t, "is_real_output", Names()[NumCols-1])
}

func Test_KeccakPermute_01(t *testing.T) {
	check_KeccakPermute(t, 1)
}

func Test_KeccakPermute_02(t *testing.T) {
	check_KeccakPermute(t, 5)
}

func Test_KeccakPermute_Empty(t *testing.T) {
	check_KeccakPermute(t, 0)
}

func Test_KeccakPermute_Invalid_01(t *testing.T) {
	table := testChip.GenerateTrace(randomOps(1))
	// Turn off is_real half way through the block
	table.Set(10, ColMap.IsReal, field.Zero())
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_KeccakPermute_Invalid_02(t *testing.T) {
	table := testChip.GenerateTrace(randomOps(1))
	// Claim an input on a padding block
	table.Set(24, ColMap.IsRealInput, field.One())
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_KeccakPermute_Invalid_03(t *testing.T) {
	table := testChip.GenerateTrace(randomOps(2))
	// Corrupt an output limb
	col := ColMap.Keccak.OutputLimbs()[17]
	table.Set(23, col, table.Get(23, col).Add(field.One()))
	util.CheckInvalid(t, testChip, table, nil)
}

func Test_KeccakPermute_Degrees(t *testing.T) {
	util.CheckDegrees(t, testChip, testChip)
}

func Test_KeccakPermute_Rebased(t *testing.T) {
	util.CheckRebased(t, testChip.Sends(), testChip.SendsFromIndices, NumCols, 0, OUTPUT)
	util.CheckRebased(t, testChip.Receives(), testChip.ReceivesFromIndices, NumCols, 0, INPUT)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_KeccakPermute(t *testing.T, n int) {
	var (
		ops   = randomOps(n)
		table = testChip.GenerateTrace(ops)
	)
	//
	util.CheckValid(t, testChip, table, nil, n*keccakf.NUM_ROUNDS)
	// One input and one output per requested permutation
	inputs := bus.Collect(testChip.Receives(), INPUT, table, nil)
	outputs := bus.Collect(testChip.Sends(), OUTPUT, table, nil)
	require.Len(t, inputs, n)
	require.Len(t, outputs, n)
	//
	for i, op := range ops {
		expected := [keccakf.NUM_LANES]uint64(op)
		keccakf.Permute(&expected)
		//
		require.Len(t, outputs[i].Values, 2*keccakf.NUM_LIMBS)
		assert.Equal(t, op, OpFromLimbs(inputs[i].Values))
		assert.Equal(t, op, OpFromLimbs(outputs[i].Values[:keccakf.NUM_LIMBS]))
		assert.Equal(t, Op(expected), OpFromLimbs(outputs[i].Values[keccakf.NUM_LIMBS:]))
	}
}

func randomOps(n int) []Op {
	var (
		rng = rand.New(rand.NewPCG(uint64(n), 42))
		ops = make([]Op, n)
	)
	//
	for i := range ops {
		for j := range ops[i] {
			ops[i][j] = rng.Uint64()
		}
	}
	//
	return ops
}
