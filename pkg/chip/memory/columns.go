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
package memory

import "github.com/consensys/go-keccak-machine/pkg/trace"

// Cols holds the column indices of one row.
type Cols struct {
	Addr      int
	Timestamp int
	Value     int
	IsRead    int
	IsWrite   int
	// Set when this row accesses the same address as the previous row.
	AddrUnchanged int
	// Byte limbs of the key difference from the previous row, namely the
	// timestamp difference (same address) or the address difference minus one
	// (address advanced).
	DiffLimbLo int
	DiffLimbMd int
	DiffLimbHi int
}

// NewCols declares the columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	return Cols{
		Addr:          l.Next("addr"),
		Timestamp:     l.Next("timestamp"),
		Value:         l.Next("value"),
		IsRead:        l.Next("is_read"),
		IsWrite:       l.Next("is_write"),
		AddrUnchanged: l.Next("addr_unchanged"),
		DiffLimbLo:    l.Next("diff_limb_lo"),
		DiffLimbMd:    l.Next("diff_limb_md"),
		DiffLimbHi:    l.Next("diff_limb_hi"),
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

// Limbs returns the diff limb columns, least significant first.
func (c *Cols) Limbs() []int {
	return []int{c.DiffLimbLo, c.DiffLimbMd, c.DiffLimbHi}
}
