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
package xor

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// NUM_BYTES is the number of bytes per operand, such that each row computes
// the exclusive-or of two 16-bit words.
const NUM_BYTES = 2

// Cols holds the column indices of one row.
type Cols struct {
	IsReal int
	Input1 [NUM_BYTES]int
	Input2 [NUM_BYTES]int
	// Little-endian bit decomposition of each input byte.
	Bits1 [NUM_BYTES][8]int
	Bits2 [NUM_BYTES][8]int
	//
	Output [NUM_BYTES]int
}

// NewCols declares the columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	var c Cols
	//
	c.IsReal = l.Next("is_real")
	l.Fill("input1", c.Input1[:])
	l.Fill("input2", c.Input2[:])
	//
	for i := 0; i < NUM_BYTES; i++ {
		l.Fill(fmt.Sprintf("bits1[%d]", i), c.Bits1[i][:])
	}
	//
	for i := 0; i < NUM_BYTES; i++ {
		l.Fill(fmt.Sprintf("bits2[%d]", i), c.Bits2[i][:])
	}
	//
	l.Fill("output", c.Output[:])
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
