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
	"strings"
)

// Layout hands out column indices to the fields of a row record, in
// declaration order.  A chip describes its row exactly once, as a function
// which declares its fields against a layout.  Running that function against a
// canonical layout yields indices rooted at offset 0, whilst running it against
// a rebased layout yields the same fields mapped onto an arbitrary list of
// column indices (e.g. a sub-range of some wrapping chip).  Since both views
// are produced by the same declaration function, they agree by construction.
type Layout struct {
	// Target indices for a rebased layout, or nil for a canonical layout.
	indices []int
	// Number of columns handed out so far.
	offset int
	// Name of each column handed out, in declaration order.
	names []string
	// Current naming prefix (for nested records).
	prefix []string
}

// NewLayout constructs a canonical layout rooted at offset 0.
func NewLayout() *Layout {
	return &Layout{}
}

// RebaseLayout constructs a layout which maps the ith declared column onto
// indices[i].
func RebaseLayout(indices []int) *Layout {
	return &Layout{indices: indices}
}

// OffsetLayout constructs a layout whose columns start at a given offset.
func OffsetLayout(offset, width int) *Layout {
	indices := make([]int, width)
	//
	for i := range indices {
		indices[i] = offset + i
	}
	//
	return RebaseLayout(indices)
}

// Next allocates the next column for a field with the given name.
func (l *Layout) Next(name string) int {
	var index = l.offset
	//
	if l.indices != nil {
		if l.offset >= len(l.indices) {
			panic(fmt.Sprintf("layout overflow at column \"%s\" (%d indices)", l.qualify(name), len(l.indices)))
		}
		//
		index = l.indices[l.offset]
	}
	//
	l.names = append(l.names, l.qualify(name))
	l.offset++
	//
	return index
}

// Fill allocates one column per element of dst, naming them name[0], name[1],
// etc.
func (l *Layout) Fill(name string, dst []int) {
	for i := range dst {
		dst[i] = l.Next(fmt.Sprintf("%s[%d]", name, i))
	}
}

// Push enters a nested record, such that subsequently declared fields are
// qualified with the given name.  This must be matched by a call to Pop.
func (l *Layout) Push(name string) {
	l.prefix = append(l.prefix, name)
}

// Pop leaves the most recently entered nested record.
func (l *Layout) Pop() {
	if len(l.prefix) == 0 {
		panic("unbalanced layout pop")
	}
	//
	l.prefix = l.prefix[:len(l.prefix)-1]
}

// Width returns the number of columns allocated so far.
func (l *Layout) Width() int {
	return l.offset
}

// Names returns the qualified name of each allocated column, in declaration
// order.
func (l *Layout) Names() []string {
	return l.names
}

// Finish checks that a rebased layout consumed exactly the indices it was
// given.  A mismatch means the record declaration and the declared chip width
// have drifted apart, which would silently misalign witness and constraints.
func (l *Layout) Finish() {
	if l.indices != nil && l.offset != len(l.indices) {
		panic(fmt.Sprintf("layout consumed %d of %d indices", l.offset, len(l.indices)))
	} else if len(l.prefix) != 0 {
		panic("unbalanced layout push")
	}
}

func (l *Layout) qualify(name string) string {
	if len(l.prefix) == 0 {
		return name
	}
	//
	return fmt.Sprintf("%s.%s", strings.Join(l.prefix, "."), name)
}

// Span returns the half-open range [start, end) covered by a group of
// columns, which must be contiguous and in ascending order.
func Span(cols []int) (int, int) {
	if len(cols) == 0 {
		panic("empty column span")
	}
	//
	for i := 1; i < len(cols); i++ {
		if cols[i] != cols[i-1]+1 {
			panic(fmt.Sprintf("columns not contiguous at %d", i))
		}
	}
	//
	return cols[0], cols[len(cols)-1] + 1
}
