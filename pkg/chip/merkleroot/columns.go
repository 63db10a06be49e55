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
package merkleroot

import "github.com/consensys/go-keccak-machine/pkg/trace"

// DIGEST_WIDTH is the number of bytes in a node.
const DIGEST_WIDTH = 32

// Cols holds the column indices of one row, where each row computes one level
// of the tree.
type Cols struct {
	IsReal int
	// One-hot tree level
	StepFlags []int
	// Node at this level, and its sibling.
	Node    [DIGEST_WIDTH]int
	Sibling [DIGEST_WIDTH]int
	// Bit of the leaf index at this level.
	IsRightChild int
	// Bits of the leaf index seen so far.
	AccumulatedIndex int
	LeafIndex        int
	// Inputs to the compression function, and its output.
	LeftNode  [DIGEST_WIDTH]int
	RightNode [DIGEST_WIDTH]int
	Output    [DIGEST_WIDTH]int
}

// NewCols declares the columns for a tree of given depth against a given
// layout.
func NewCols(l *trace.Layout, depth int) Cols {
	var c Cols
	//
	c.IsReal = l.Next("is_real")
	c.StepFlags = make([]int, depth)
	l.Fill("step_flags", c.StepFlags)
	l.Fill("node", c.Node[:])
	l.Fill("sibling", c.Sibling[:])
	c.IsRightChild = l.Next("is_right_child")
	c.AccumulatedIndex = l.Next("accumulated_index")
	c.LeafIndex = l.Next("leaf_index")
	l.Fill("left_node", c.LeftNode[:])
	l.Fill("right_node", c.RightNode[:])
	l.Fill("output", c.Output[:])
	//
	return c
}

// ColMap returns the canonical column layout of this chip.
func (p *Chip) ColMap() Cols {
	return NewCols(trace.NewLayout(), p.Depth)
}

// Names returns the name of every column in the canonical layout.
func (p *Chip) Names() []string {
	l := trace.NewLayout()
	NewCols(l, p.Depth)
	//
	return l.Names()
}

// RebasedCols declares the columns over an arbitrary list of indices.
func (p *Chip) RebasedCols(indices []int) Cols {
	l := trace.RebaseLayout(indices)
	c := NewCols(l, p.Depth)
	l.Finish()
	//
	return c
}
