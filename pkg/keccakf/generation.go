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
	"fmt"
	"math/bits"

	"github.com/consensys/go-keccak-machine/pkg/air/stepflags"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// round holds the intermediate values of one round, with lanes indexed by
// [x][y].
type round struct {
	a           [5][5]uint64
	c           [5]uint64
	cPrime      [5]uint64
	aPrime      [5][5]uint64
	aPrimePrime [5][5]uint64
	output      [5][5]uint64
}

func computeRound(a [5][5]uint64, r int) round {
	var rnd = round{a: a}
	// Theta
	for x := 0; x < 5; x++ {
		rnd.c[x] = a[x][0] ^ a[x][1] ^ a[x][2] ^ a[x][3] ^ a[x][4]
	}
	//
	for x := 0; x < 5; x++ {
		d := rnd.c[(x+4)%5] ^ bits.RotateLeft64(rnd.c[(x+1)%5], 1)
		rnd.cPrime[x] = rnd.c[x] ^ d
		//
		for y := 0; y < 5; y++ {
			rnd.aPrime[x][y] = a[x][y] ^ d
		}
	}
	// Rho and Pi
	var b [5][5]uint64
	//
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			b[y][(2*x+3*y)%5] = bits.RotateLeft64(rnd.aPrime[x][y], int(R[x][y]))
		}
	}
	// Chi
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			rnd.aPrimePrime[x][y] = b[x][y] ^ (^b[(x+1)%5][y] & b[(x+2)%5][y])
		}
	}
	// Iota
	rnd.output = rnd.aPrimePrime
	rnd.output[0][0] ^= RC[r]
	//
	return rnd
}

// Permute applies Keccak-f[1600] to a state whose lanes are in the standard
// order, i.e. lane (x, y) is at index x + 5y.
func Permute(state *[NUM_LANES]uint64) {
	a := toLanes(*state)
	//
	for r := 0; r < NUM_ROUNDS; r++ {
		a = computeRound(a, r).output
	}
	//
	*state = fromLanes(a)
}

// GenerateRows writes the rows for one permutation of a given input.  Each of
// the NUM_ROUNDS rows is a view whose columns are laid out as in ColMap (i.e. a
// wrapping chip passes the relevant sub-slice of its own rows).  The
// permutation output is returned.
func GenerateRows(rows [][]field.Element, input [NUM_LANES]uint64) [NUM_LANES]uint64 {
	var (
		cols = &ColMap
		a    = toLanes(input)
	)
	//
	if len(rows) != NUM_ROUNDS {
		panic(fmt.Sprintf("permutation requires %d rows (was %d)", NUM_ROUNDS, len(rows)))
	}
	//
	for r, row := range rows {
		if len(row) < NumCols {
			panic(fmt.Sprintf("insufficient row length %d (expected %d)", len(row), NumCols))
		}
		//
		stepflags.Generate(row, cols.StepFlags[:], r)
		row[cols.Export] = field.Zero()
		//
		writeLanes(row, &cols.Preimage, toLanes(input))
		//
		rnd := computeRound(a, r)
		writeRound(row, cols, &rnd)
		a = rnd.output
	}
	//
	return fromLanes(a)
}

// GenerateTrace constructs a standalone table of permutations for a given list
// of inputs.  The table is padded with permutations of the zero state.
func GenerateTrace(inputs [][NUM_LANES]uint64) *trace.Table {
	var (
		height = trace.PaddedHeight(len(inputs) * NUM_ROUNDS)
		table  = trace.NewTable(height, NumCols)
		nperms = (height + NUM_ROUNDS - 1) / NUM_ROUNDS
	)
	//
	util.ParallelFor(nperms, func(i int) {
		var input [NUM_LANES]uint64
		//
		if i < len(inputs) {
			input = inputs[i]
		}
		//
		GeneratePartialRows(table, i*NUM_ROUNDS, input, func(row []field.Element) []field.Element { return row })
	})
	//
	return table
}

// GeneratePartialRows writes the rows for one permutation starting at a given
// row of a table, truncating the permutation if the table ends early (as
// happens for the final padding permutation).  The view function extracts the
// permutation columns from a table row.
func GeneratePartialRows(table *trace.Table, start int, input [NUM_LANES]uint64,
	view func([]field.Element) []field.Element) {
	var (
		end  = min(start+NUM_ROUNDS, table.Height())
		rows = make([][]field.Element, NUM_ROUNDS)
	)
	//
	for r := range rows {
		if start+r < end {
			rows[r] = view(table.Row(start + r))
		} else {
			// Scratch row for the truncated rounds
			rows[r] = make([]field.Element, NumCols)
		}
	}
	//
	GenerateRows(rows, input)
}

func writeRound(row []field.Element, cols *Cols, rnd *round) {
	writeLanes(row, &cols.A, rnd.a)
	//
	for x := 0; x < 5; x++ {
		writeBits(row, cols.C[x][:], rnd.c[x])
		writeBits(row, cols.CPrime[x][:], rnd.cPrime[x])
		//
		for y := 0; y < 5; y++ {
			writeBits(row, cols.APrime[y][x][:], rnd.aPrime[x][y])
		}
	}
	//
	writeLanes(row, &cols.APrimePrime, rnd.aPrimePrime)
	writeBits(row, cols.APrimePrime00Bits[:], rnd.aPrimePrime[0][0])
	writeLimbs(row, cols.APrimePrimePrime00Limbs[:], rnd.output[0][0])
}

func writeLanes(row []field.Element, cols *[5][5][U64_LIMBS]int, lanes [5][5]uint64) {
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			writeLimbs(row, cols[y][x][:], lanes[x][y])
		}
	}
}

func writeLimbs(row []field.Element, cols []int, lane uint64) {
	for i, col := range cols {
		row[col] = field.Uint64((lane >> (BITS_PER_LIMB * i)) & 0xFFFF)
	}
}

func writeBits(row []field.Element, cols []int, lane uint64) {
	for z, col := range cols {
		row[col] = field.Uint64((lane >> z) & 1)
	}
}

func toLanes(state [NUM_LANES]uint64) [5][5]uint64 {
	var a [5][5]uint64
	//
	for i, lane := range state {
		a[i%5][i/5] = lane
	}
	//
	return a
}

func fromLanes(a [5][5]uint64) [NUM_LANES]uint64 {
	var state [NUM_LANES]uint64
	//
	for i := range state {
		state[i] = a[i%5][i/5]
	}
	//
	return state
}

// LimbsToLanes packs NUM_LIMBS 16-bit limbs (in standard order) into lanes.
func LimbsToLanes(limbs []uint64) [NUM_LANES]uint64 {
	var state [NUM_LANES]uint64
	//
	if len(limbs) != NUM_LIMBS {
		panic(fmt.Sprintf("expected %d limbs (was %d)", NUM_LIMBS, len(limbs)))
	}
	//
	for i, limb := range limbs {
		state[i/U64_LIMBS] |= (limb & 0xFFFF) << (BITS_PER_LIMB * (i % U64_LIMBS))
	}
	//
	return state
}

// LanesToLimbs splits lanes into NUM_LIMBS 16-bit limbs (in standard order).
func LanesToLimbs(state [NUM_LANES]uint64) []uint64 {
	limbs := make([]uint64, NUM_LIMBS)
	//
	for i := range limbs {
		limbs[i] = (state[i/U64_LIMBS] >> (BITS_PER_LIMB * (i % U64_LIMBS))) & 0xFFFF
	}
	//
	return limbs
}
