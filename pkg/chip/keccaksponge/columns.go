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

import "github.com/consensys/go-keccak-machine/pkg/trace"

const (
	// WIDTH_BYTES is the number of bytes in the sponge state.
	WIDTH_BYTES = 200
	// WIDTH_U16S is the number of 16-bit limbs in the sponge state.
	WIDTH_U16S = WIDTH_BYTES / 2
	// RATE_BYTES is the number of bytes absorbed per block.
	RATE_BYTES = 136
	// RATE_U16S is the number of 16-bit limbs in the rate.
	RATE_U16S = RATE_BYTES / 2
	// CAPACITY_U16S is the number of 16-bit limbs in the capacity.
	CAPACITY_U16S = WIDTH_U16S - RATE_U16S
	// DIGEST_BYTES is the number of bytes in the digest.
	DIGEST_BYTES = 32
	// DIGEST_U16S is the number of 16-bit limbs holding the digest.
	DIGEST_U16S = DIGEST_BYTES / 2
	// WIDTH_MINUS_DIGEST_U16S is the number of non-digest limbs in the state.
	WIDTH_MINUS_DIGEST_U16S = WIDTH_U16S - DIGEST_U16S
)

// Cols holds the column indices of one row, where each row absorbs one
// block.
type Cols struct {
	// Constant across the blocks of one absorption.
	Timestamp     int
	BaseAddr      int
	IsMemoryInput int
	// Set when every byte of the block is an input byte.
	IsFullInputBlock int
	// Number of input bytes absorbed prior to this block.
	AlreadyAbsorbedBytes int
	// Set for every byte from the end of the input onwards.  The final block
	// of an absorption is therefore the one whose last byte is padding.
	IsPaddingByte [RATE_BYTES]int
	// State before absorbing this block.
	OriginalRateU16s     [RATE_U16S]int
	OriginalCapacityU16s [CAPACITY_U16S]int
	// Block being absorbed, including any padding.
	BlockBytes [RATE_BYTES]int
	// Rate after the block is xored in, but before the permutation.
	XoredRateU16s [RATE_U16S]int
	// State after the permutation, except for the digest limbs.
	PartialUpdatedStateU16s [WIDTH_MINUS_DIGEST_U16S]int
	// Digest limbs of the state after the permutation, as bytes.
	UpdatedDigestStateBytes [DIGEST_BYTES]int
}

// NewCols declares the columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	var c Cols
	//
	c.Timestamp = l.Next("timestamp")
	c.BaseAddr = l.Next("base_addr")
	c.IsMemoryInput = l.Next("is_memory_input")
	c.IsFullInputBlock = l.Next("is_full_input_block")
	c.AlreadyAbsorbedBytes = l.Next("already_absorbed_bytes")
	l.Fill("is_padding_byte", c.IsPaddingByte[:])
	l.Fill("original_rate_u16s", c.OriginalRateU16s[:])
	l.Fill("original_capacity_u16s", c.OriginalCapacityU16s[:])
	l.Fill("block_bytes", c.BlockBytes[:])
	l.Fill("xored_rate_u16s", c.XoredRateU16s[:])
	l.Fill("partial_updated_state_u16s", c.PartialUpdatedStateU16s[:])
	l.Fill("updated_digest_state_bytes", c.UpdatedDigestStateBytes[:])
	//
	return c
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

// RebasedCols declares the columns over an arbitrary list of indices.
func RebasedCols(indices []int) Cols {
	l := trace.RebaseLayout(indices)
	c := NewCols(l)
	l.Finish()
	//
	return c
}

// IsFinalBlock returns the column marking the final block of an absorption.
func (c *Cols) IsFinalBlock() int {
	return c.IsPaddingByte[RATE_BYTES-1]
}

// OriginalState returns the state limbs before absorption, i.e. the rate
// followed by the capacity.
func (c *Cols) OriginalState() []int {
	return append(append([]int{}, c.OriginalRateU16s[:]...), c.OriginalCapacityU16s[:]...)
}
