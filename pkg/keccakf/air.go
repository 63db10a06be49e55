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
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/air/gadgets"
	"github.com/consensys/go-keccak-machine/pkg/air/stepflags"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Air is the constraint system of Keccak-f[1600], using one row per round.
type Air struct{}

// Name implementation for air.Chip interface.
func (p Air) Name() string {
	return "keccakf"
}

// Width implementation for air.Chip interface.
func (p Air) Width() int {
	return NumCols
}

// PreprocessedWidth implementation for air.Chip interface.
func (p Air) PreprocessedWidth() int {
	return 0
}

// Eval implementation for air.Chip interface.
func (p Air) Eval(builder air.Builder) {
	var (
		cols  = &ColMap
		main  = builder.Main()
		local = main.Local
		next  = main.Next
		// Round selectors
		firstStep    = local[cols.StepFlags[0]]
		finalStep    = local[cols.StepFlags[NUM_ROUNDS-1]]
		notFinalStep = air.Not(finalStep)
	)
	//
	start, end := trace.Span(cols.StepFlags[:])
	stepflags.Air{Steps: NUM_ROUNDS}.Eval(builder.SubRange(start, end))
	// If this is the first step, the input A must match the preimage.
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			for limb := 0; limb < U64_LIMBS; limb++ {
				builder.When(firstStep).AssertEq(local[cols.Preimage[y][x][limb]], local[cols.A[y][x][limb]])
			}
		}
	}
	// The export flag must be 0 or 1, and can only be set on the final step.
	builder.AssertBool(local[cols.Export])
	builder.When(notFinalStep).AssertZero(local[cols.Export])
	// If this is not the final step, the local and next preimages must match.
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			for limb := 0; limb < U64_LIMBS; limb++ {
				builder.When(notFinalStep).WhenTransition().
					AssertEq(local[cols.Preimage[y][x][limb]], next[cols.Preimage[y][x][limb]])
			}
		}
	}
	//
	evalTheta(builder, cols, local)
	evalRhoPiChi(builder, cols, local)
	evalIota(builder, cols, local)
	// Enforce that this round's output equals the next round's input.
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			for limb := 0; limb < U64_LIMBS; limb++ {
				builder.WhenTransition().When(notFinalStep).
					AssertEq(local[cols.APrimePrimePrime(y, x, limb)], next[cols.A[y][x][limb]])
			}
		}
	}
}

func evalTheta(builder air.Builder, cols *Cols, local []air.Expr) {
	// C'[x, z] = xor(C[x, z], C[x - 1, z], C[x + 1, z - 1]).
	for x := 0; x < 5; x++ {
		for z := 0; z < 64; z++ {
			builder.AssertBool(local[cols.C[x][z]])
			xor := gadgets.Xor3(local[cols.C[x][z]], local[cols.C[(x+4)%5][z]], local[cols.C[(x+1)%5][(z+63)%64]])
			builder.AssertEq(local[cols.CPrime[x][z]], xor)
		}
	}
	// Check that the input limbs are consistent with A' and D, where A[x, y, z]
	// = xor(A'[x, y, z], D[x, y, z]) = xor(A'[x, y, z], C[x, z], C'[x, z]).
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			var bits [64]air.Expr
			//
			for z := 0; z < 64; z++ {
				builder.AssertBool(local[cols.APrime[y][x][z]])
				bits[z] = gadgets.Xor3(local[cols.APrime[y][x][z]], local[cols.C[x][z]], local[cols.CPrime[x][z]])
			}
			//
			for limb := 0; limb < U64_LIMBS; limb++ {
				computed := gadgets.FromBits(bits[limb*BITS_PER_LIMB : (limb+1)*BITS_PER_LIMB])
				builder.AssertEq(computed, local[cols.A[y][x][limb]])
			}
		}
	}
	// xor_{i=0}^4 A'[x, i, z] = C'[x, z], so for each x, z we have diff * (diff
	// - 2) * (diff - 4) = 0, where diff = sum_{i=0}^4 A'[x, i, z] - C'[x, z].
	for x := 0; x < 5; x++ {
		for z := 0; z < 64; z++ {
			var sum [5]air.Expr
			//
			for y := 0; y < 5; y++ {
				sum[y] = local[cols.APrime[y][x][z]]
			}
			//
			diff := air.Sum(sum[:]...).Sub(local[cols.CPrime[x][z]])
			builder.AssertZero(air.Product(diff, diff.Sub(air.NewConst64(2)), diff.Sub(air.NewConst64(4))))
		}
	}
}

func evalRhoPiChi(builder air.Builder, cols *Cols, local []air.Expr) {
	// A''[x, y] = xor(B[x, y], andn(B[x + 1, y], B[x + 2, y])).
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			var bits [64]air.Expr
			//
			for z := 0; z < 64; z++ {
				andn := gadgets.AndNot(local[cols.B((x+1)%5, y, z)], local[cols.B((x+2)%5, y, z)])
				bits[z] = gadgets.Xor(local[cols.B(x, y, z)], andn)
			}
			//
			for limb := 0; limb < U64_LIMBS; limb++ {
				computed := gadgets.FromBits(bits[limb*BITS_PER_LIMB : (limb+1)*BITS_PER_LIMB])
				builder.AssertEq(computed, local[cols.APrimePrime[y][x][limb]])
			}
		}
	}
}

func evalIota(builder air.Builder, cols *Cols, local []air.Expr) {
	var (
		bits  = gadgets.Columns(local, cols.APrimePrime00Bits[:])
		xored [64]air.Expr
	)
	// Bits of A''[0, 0] must match its limbs.
	gadgets.ApplyBinaryGadget(builder, bits...)
	//
	for limb := 0; limb < U64_LIMBS; limb++ {
		computed := gadgets.FromBits(bits[limb*BITS_PER_LIMB : (limb+1)*BITS_PER_LIMB])
		builder.AssertEq(computed, local[cols.APrimePrime[0][0][limb]])
	}
	// A'''[0, 0] = A''[0, 0] xor RC, where the relevant bit of RC is selected by
	// the round flags.
	for z := 0; z < 64; z++ {
		var flags []air.Expr
		//
		for r := 0; r < NUM_ROUNDS; r++ {
			if rcBit(r, z) {
				flags = append(flags, local[cols.StepFlags[r]])
			}
		}
		//
		xored[z] = gadgets.Xor(bits[z], air.Sum(flags...))
	}
	//
	for limb := 0; limb < U64_LIMBS; limb++ {
		computed := gadgets.FromBits(xored[limb*BITS_PER_LIMB : (limb+1)*BITS_PER_LIMB])
		builder.AssertEq(computed, local[cols.APrimePrimePrime00Limbs[limb]])
	}
}
