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

	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Cols holds the column indices of one row of the permutation, which computes
// one round.  Lane (x, y) of the state is stored at [y][x], such that
// flattening a [y][x][limb] array visits lanes in the standard order x + 5y.
type Cols struct {
	// One-hot round selector.
	StepFlags [NUM_ROUNDS]int
	// Set on the final round of permutations whose output is exported.
	Export int
	// The permutation input, copied to every round.
	Preimage [5][5][U64_LIMBS]int
	// The input of this round.
	A [5][5][U64_LIMBS]int
	// C[x] = xor(A[x, 0], A[x, 1], A[x, 2], A[x, 3], A[x, 4]), as bits.
	C [5][64]int
	// C'[x, z] = xor(C[x, z], C[x - 1, z], C[x + 1, z - 1]), as bits.
	CPrime [5][64]int
	// A'[x, y] = xor(A[x, y], D[x]), as bits.
	APrime [5][5][64]int
	// A''[x, y] = xor(B[x, y], andn(B[x + 1, y], B[x + 2, y])).
	APrimePrime [5][5][U64_LIMBS]int
	// The bits of A''[0, 0].
	APrimePrime00Bits [64]int
	// A'''[0, 0] = A''[0, 0] xor RC, as limbs.
	APrimePrimePrime00Limbs [U64_LIMBS]int
}

// NewCols declares the permutation columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	var c Cols
	//
	l.Fill("step_flags", c.StepFlags[:])
	c.Export = l.Next("export")
	fillLanes(l, "preimage", &c.Preimage)
	fillLanes(l, "a", &c.A)
	//
	for x := 0; x < 5; x++ {
		l.Fill(fmt.Sprintf("c[%d]", x), c.C[x][:])
	}
	//
	for x := 0; x < 5; x++ {
		l.Fill(fmt.Sprintf("c_prime[%d]", x), c.CPrime[x][:])
	}
	//
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			l.Fill(fmt.Sprintf("a_prime[%d][%d]", y, x), c.APrime[y][x][:])
		}
	}
	//
	fillLanes(l, "a_prime_prime", &c.APrimePrime)
	l.Fill("a_prime_prime_0_0_bits", c.APrimePrime00Bits[:])
	l.Fill("a_prime_prime_prime_0_0_limbs", c.APrimePrimePrime00Limbs[:])
	//
	return c
}

func fillLanes(l *trace.Layout, name string, lanes *[5][5][U64_LIMBS]int) {
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			l.Fill(fmt.Sprintf("%s[%d][%d]", name, y, x), lanes[y][x][:])
		}
	}
}

// ColMap is the canonical column layout, and NumCols its width.
var ColMap, NumCols = canonicalCols()

func canonicalCols() (Cols, int) {
	l := trace.NewLayout()
	c := NewCols(l)
	//
	return c, l.Width()
}

// Names returns the name of every column in the canonical layout.
func Names() []string {
	l := trace.NewLayout()
	NewCols(l)
	//
	return l.Names()
}

// B returns the column holding bit z of B[x, y].  B is just a rotation of A',
// so this aliases an A' column.  Since B[y, 2x + 3y] = ROT(A'[x, y], r[x, y]),
// it follows that B[x, y] = ROT(A'[(x + 3y) % 5, x], r[(x + 3y) % 5, x]).
func (c *Cols) B(x, y, z int) int {
	a := (x + 3*y) % 5
	b := x
	rot := int(R[a][b])
	//
	return c.APrime[b][a][(z+64-rot)%64]
}

// APrimePrimePrime returns the column holding a limb of the output of this
// round, i.e. A'' except for lane (0, 0) which has the round constant applied.
func (c *Cols) APrimePrimePrime(y, x, limb int) int {
	if x == 0 && y == 0 {
		return c.APrimePrimePrime00Limbs[limb]
	}
	//
	return c.APrimePrime[y][x][limb]
}

// PreimageLimbs returns the preimage columns in standard limb order.
func (c *Cols) PreimageLimbs() []int {
	return flattenLanes(&c.Preimage)
}

// OutputLimbs returns the output columns (of the final round) in standard limb
// order.
func (c *Cols) OutputLimbs() []int {
	limbs := make([]int, 0, NUM_LIMBS)
	//
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			for limb := 0; limb < U64_LIMBS; limb++ {
				limbs = append(limbs, c.APrimePrimePrime(y, x, limb))
			}
		}
	}
	//
	return limbs
}

func flattenLanes(lanes *[5][5][U64_LIMBS]int) []int {
	limbs := make([]int, 0, NUM_LIMBS)
	//
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			limbs = append(limbs, lanes[y][x][:]...)
		}
	}
	//
	return limbs
}
