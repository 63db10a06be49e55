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
package keccakf

import (
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func Test_Keccakf_Layout(t *testing.T) {
	assert.Equal(t, 2633, NumCols)
	assert.Len(t, Names(), NumCols)
	assert.Equal(t, "step_flags[0]", Names()[0])
	assert.Equal(t, "a_prime_prime_prime_0_0_limbs[3]", Names()[NumCols-1])
	assert.Len(t, ColMap.PreimageLimbs(), NUM_LIMBS)
	assert.Len(t, ColMap.OutputLimbs(), NUM_LIMBS)
}

func Test_Keccakf_ZeroState(t *testing.T) {
	var state [NUM_LANES]uint64
	//
	Permute(&state)
	// Well-known first lane of Keccak-f[1600] applied to the zero state.
	assert.Equal(t, uint64(0xF1258F7940E1DDE7), state[0])
}

func Test_Keccakf_Keccak256(t *testing.T) {
	for _, msg := range []string{"", "abc", "The quick brown fox jumps over the lazy dog"} {
		expected := sha3.NewLegacyKeccak256()
		expected.Write([]byte(msg))
		assert.Equal(t, expected.Sum(nil), keccak256([]byte(msg)), "message \"%s\"", msg)
	}
}

func Test_Keccakf_Trace_01(t *testing.T) {
	check_Keccakf_Trace(t, 1)
}

func Test_Keccakf_Trace_02(t *testing.T) {
	check_Keccakf_Trace(t, 3)
}

func Test_Keccakf_Trace_Empty(t *testing.T) {
	check_Keccakf_Trace(t, 0)
}

func Test_Keccakf_Trace_Invalid(t *testing.T) {
	table := GenerateTrace([][NUM_LANES]uint64{randomState(1)})
	// Flip one bit of C' in round 5
	col := ColMap.CPrime[2][17]
	table.Set(5, col, field.One().Sub(table.Get(5, col)))
	//
	_, err := air.Check(Air{}, table, nil)
	assert.Error(t, err)
}

func Test_Keccakf_Degree(t *testing.T) {
	assert.LessOrEqual(t, air.MaxDegree(air.Constraints(Air{})), uint(air.MAX_CONSTRAINT_DEGREE))
}

func Test_Keccakf_Limbs(t *testing.T) {
	state := randomState(7)
	assert.Equal(t, state, LimbsToLanes(LanesToLimbs(state)))
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Keccakf_Trace(t *testing.T, n int) {
	inputs := make([][NUM_LANES]uint64, n)
	//
	for i := range inputs {
		inputs[i] = randomState(uint64(i))
	}
	//
	table := GenerateTrace(inputs)
	require.Equal(t, trace.PaddedHeight(n*NUM_ROUNDS), table.Height())
	//
	_, err := air.Check(Air{}, table, nil)
	require.NoError(t, err)
	// Outputs are exposed on the final round
	for i, input := range inputs {
		expected := input
		Permute(&expected)
		//
		row := table.Row(i*NUM_ROUNDS + NUM_ROUNDS - 1)
		limbs := make([]uint64, NUM_LIMBS)
		//
		for j, col := range ColMap.OutputLimbs() {
			limbs[j] = row[col].Uint64()
		}
		//
		assert.Equal(t, expected, LimbsToLanes(limbs))
	}
}

func randomState(seed uint64) [NUM_LANES]uint64 {
	var (
		state [NUM_LANES]uint64
		rng   = rand.New(rand.NewPCG(seed, 0xC0FFEE))
	)
	//
	for i := range state {
		state[i] = rng.Uint64()
	}
	//
	return state
}

// keccak256 is a direct sponge construction over Permute.
func keccak256(msg []byte) []byte {
	var (
		state [NUM_LANES]uint64
		rate  = 136
		// pad10*1
		padded = append([]byte{}, msg...)
	)
	//
	padded = append(padded, 0x01)
	for len(padded)%rate != 0 {
		padded = append(padded, 0)
	}
	//
	padded[len(padded)-1] |= 0x80
	//
	for off := 0; off < len(padded); off += rate {
		for i := 0; i < rate/8; i++ {
			state[i] ^= binary.LittleEndian.Uint64(padded[off+8*i:])
		}
		//
		Permute(&state)
	}
	//
	digest := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(digest[8*i:], state[i])
	}
	//
	return digest
}
