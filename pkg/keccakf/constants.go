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

// NUM_ROUNDS is the number of rounds of Keccak-f[1600], and hence the number of
// rows per permutation.
const NUM_ROUNDS = 24

// BITS_PER_LIMB is the width of each limb used to represent a lane.
const BITS_PER_LIMB = 16

// U64_LIMBS is the number of limbs per 64-bit lane.
const U64_LIMBS = 64 / BITS_PER_LIMB

// NUM_LANES is the number of 64-bit lanes in the state.
const NUM_LANES = 25

// NUM_LIMBS is the number of limbs in the state.
const NUM_LIMBS = NUM_LANES * U64_LIMBS

// R holds the rho rotation offsets, indexed by [x][y].
var R = [5][5]uint{
	{0, 36, 3, 41, 18},
	{1, 44, 10, 45, 2},
	{62, 6, 43, 15, 61},
	{28, 55, 25, 21, 56},
	{27, 20, 39, 8, 14},
}

// RC holds the iota round constants.
var RC = [NUM_ROUNDS]uint64{
	0x0000000000000001,
	0x0000000000008082,
	0x800000000000808A,
	0x8000000080008000,
	0x000000000000808B,
	0x0000000080000001,
	0x8000000080008081,
	0x8000000000008009,
	0x000000000000008A,
	0x0000000000000088,
	0x0000000080008009,
	0x000000008000000A,
	0x000000008000808B,
	0x800000000000008B,
	0x8000000000008089,
	0x8000000000008003,
	0x8000000000008002,
	0x8000000000000080,
	0x000000000000800A,
	0x800000008000000A,
	0x8000000080008081,
	0x8000000000008080,
	0x0000000080000001,
	0x8000000080008008,
}

func rcBit(round int, z int) bool {
	return (RC[round]>>z)&1 == 1
}
