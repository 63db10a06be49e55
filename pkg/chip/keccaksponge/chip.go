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

// Package keccaksponge provides a chip which absorbs byte strings of arbitrary
// length into the Keccak sponge, one 136-byte block per row, and exposes the
// resulting Keccak-256 digest.  The xor of each block into the rate is
// delegated to the XOR chip, and the permutation itself to the permutation
// chip.
package keccaksponge

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
)

// Chip is the sponge chip, along with the buses it communicates over.
type Chip struct {
	// Absorption requests arriving over a bus, and their digests.
	BusInput  bus.ID
	BusOutput bus.ID
	// Permutation chip
	BusPermuteInput  bus.ID
	BusPermuteOutput bus.ID
	// XOR chip
	BusXorInput  bus.ID
	BusXorOutput bus.ID
	// Input bytes of memory-backed absorptions
	BusMemory bus.ID
	// Byte range checks
	BusRange bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return "keccak_sponge"
}

// Width implementation for air.Chip interface.
func (p *Chip) Width() int {
	return NumCols
}

// PreprocessedWidth implementation for air.Chip interface.
func (p *Chip) PreprocessedWidth() int {
	return 0
}

// Eval implementation for air.Chip interface.
func (p *Chip) Eval(builder air.Builder) {
	var (
		cols    = &ColMap
		main    = builder.Main()
		local   = main.Local
		next    = main.Next
		isFull  = local[cols.IsFullInputBlock]
		isFinal = local[cols.IsFinalBlock()]
		isReal  = isFull.Add(isFinal)
		isMem   = local[cols.IsMemoryInput]
	)
	//
	builder.AssertBool(isFull)
	builder.AssertBool(isMem)
	builder.AssertBool(isReal)
	//
	for _, col := range cols.IsPaddingByte {
		builder.AssertBool(local[col])
	}
	// Only real blocks are read from memory
	builder.When(air.Not(isReal)).AssertZero(isMem)
	//
	evalPadding(builder, cols, local)
	// Absorptions start from the zero state, having absorbed nothing.
	first := builder.WhenFirstRow()
	first.AssertZero(local[cols.AlreadyAbsorbedBytes])
	//
	for _, col := range cols.OriginalState() {
		first.AssertZero(local[col])
	}
	// Absorbed bytes accumulate across full blocks, and reset otherwise.
	absorbed := isFull.Mul(local[cols.AlreadyAbsorbedBytes].Add(air.NewConst64(RATE_BYTES)))
	builder.WhenTransition().AssertEq(next[cols.AlreadyAbsorbedBytes], absorbed)
	// A full block is followed by another block of the same absorption.
	full := builder.WhenTransition().When(isFull)
	full.AssertEq(next[cols.Timestamp], local[cols.Timestamp])
	full.AssertEq(next[cols.BaseAddr], local[cols.BaseAddr])
	full.AssertEq(next[cols.IsMemoryInput], isMem)
	full.AssertOne(next[cols.IsFullInputBlock].Add(next[cols.IsFinalBlock()]))
	// whose original state is this block's updated state.
	var (
		updated = updatedState(cols, local)
		notFull = builder.WhenTransition().When(air.Not(isFull))
	)
	//
	for i, col := range cols.OriginalState() {
		full.AssertEq(next[col], updated[i])
		notFull.AssertZero(next[col])
	}
	// An absorption cannot run off the end of the table
	builder.WhenLastRow().AssertZero(isFull)
}

// evalPadding checks the pad10*1 rule.  Padding flags are monotone, such that
// they are set from the end of the input onwards.  The first padding byte is
// 0x01, the last is 0x80 and any others are 0x00.  When the first and last
// coincide, the byte is 0x81.
func evalPadding(builder air.Builder, cols *Cols, local []air.Expr) {
	var last = RATE_BYTES - 1
	//
	for i := 1; i < RATE_BYTES; i++ {
		builder.When(local[cols.IsPaddingByte[i-1]]).AssertOne(local[cols.IsPaddingByte[i]])
	}
	//
	for i := 0; i < RATE_BYTES; i++ {
		var (
			pad   = local[cols.IsPaddingByte[i]]
			first = pad
		)
		//
		if i > 0 {
			first = pad.Sub(local[cols.IsPaddingByte[i-1]])
		}
		//
		if i == last {
			builder.When(pad).AssertEq(local[cols.BlockBytes[i]], air.NewConst64(0x80).Add(first))
		} else {
			builder.When(pad).AssertEq(local[cols.BlockBytes[i]], first)
		}
	}
}

// updatedState reconstructs the 100 state limbs after the permutation, by
// packing the digest bytes into limbs.
func updatedState(cols *Cols, row []air.Expr) []air.Expr {
	state := make([]air.Expr, 0, WIDTH_U16S)
	//
	for i := 0; i < DIGEST_U16S; i++ {
		state = append(state, packBytes(row, cols.UpdatedDigestStateBytes[2*i:2*i+2]))
	}
	//
	for _, col := range cols.PartialUpdatedStateU16s {
		state = append(state, row[col])
	}
	//
	return state
}

// packBytes packs a little-endian pair of byte columns into a 16-bit limb.
func packBytes(row []air.Expr, cols []int) air.Expr {
	return air.PackLimbs([]air.Expr{row[cols[0]], row[cols[1]]}, 8)
}
