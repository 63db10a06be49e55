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
package trace

import (
	"fmt"
	"math/bits"

	"github.com/consensys/go-keccak-machine/pkg/field"
)

// Table is a dense, row-major matrix of field elements.  Tables produced by
// chip trace generators always have a power-of-two height, though this is not
// enforced here.
type Table struct {
	width  int
	height int
	values []field.Element
}

// NewTable constructs a zero-filled table of the given dimensions.
func NewTable(height, width int) *Table {
	if height < 0 || width < 0 {
		panic(fmt.Sprintf("invalid table dimensions %dx%d", height, width))
	}
	//
	return &Table{width, height, make([]field.Element, height*width)}
}

// Width returns the number of columns in this table.
func (t *Table) Width() int {
	return t.width
}

// Height returns the number of rows in this table.
func (t *Table) Height() int {
	return t.height
}

// Row returns a mutable view of the ith row.
func (t *Table) Row(i int) []field.Element {
	if i < 0 || i >= t.height {
		panic(fmt.Sprintf("row %d out-of-bounds (height %d)", i, t.height))
	}
	//
	return t.values[i*t.width : (i+1)*t.width : (i+1)*t.width]
}

// Rows returns a mutable view of rows [start, end) as a flat slice.
func (t *Table) Rows(start, end int) []field.Element {
	if start < 0 || end > t.height || start > end {
		panic(fmt.Sprintf("row range [%d,%d) out-of-bounds (height %d)", start, end, t.height))
	}
	//
	return t.values[start*t.width : end*t.width]
}

// Get returns the value at a given row and column.
func (t *Table) Get(row, col int) field.Element {
	return t.Row(row)[col]
}

// Set assigns the value at a given row and column.
func (t *Table) Set(row, col int, val field.Element) {
	t.Row(row)[col] = val
}

// Column extracts a copy of a given column.
func (t *Table) Column(col int) []field.Element {
	if col < 0 || col >= t.width {
		panic(fmt.Sprintf("column %d out-of-bounds (width %d)", col, t.width))
	}
	//
	data := make([]field.Element, t.height)
	//
	for i := range data {
		data[i] = t.values[i*t.width+col]
	}
	//
	return data
}

// Values returns the underlying row-major storage.
func (t *Table) Values() []field.Element {
	return t.values
}

// PaddedHeight returns the smallest power of two which is at least n (and at
// least one).
func PaddedHeight(n int) int {
	if n <= 1 {
		return 1
	}
	//
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo determines whether n is a (positive) power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
