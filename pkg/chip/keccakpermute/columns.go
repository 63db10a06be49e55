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
	"github.com/consensys/go-keccak-machine/pkg/keccakf"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Cols holds the column indices of one row.  The permutation core occupies the
// first keccakf.NumCols columns, such that its constraints can be evaluated
// over a sub-range.
type Cols struct {
	Keccak keccakf.Cols
	// Set on every row of a block holding a requested permutation.
	IsReal int
	// Set on the first (resp. last) row of such a block.
	IsRealInput  int
	IsRealOutput int
}

// NewCols declares the columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	var c Cols
	//
	l.Push("keccak")
	c.Keccak = keccakf.NewCols(l)
	l.Pop()
	//
	c.IsReal = l.Next("is_real")
	c.IsRealInput = l.Next("is_real_input")
	c.IsRealOutput = l.Next("is_real_output")
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
