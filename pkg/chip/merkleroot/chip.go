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

// Package merkleroot provides a chip which recomputes the root of a Merkle
// tree from a leaf and its sibling path, one level per row.  Compressions are
// not computed by the chip itself, but requested from a hashing chip over a
// pair of buses.
package merkleroot

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/air/stepflags"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/chip/keccaksponge"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Chip recomputes Merkle roots of a tree of a given depth.
type Chip struct {
	// Depth of the tree, which must be below 31 for leaf indices to be
	// accumulated without wrapping.
	Depth int
	// Compression requests (as blocks) and their digests.
	BusHasherInput  bus.ID
	BusHasherOutput bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return fmt.Sprintf("merkle_root%d", p.Depth)
}

// Width implementation for air.Chip interface.
func (p *Chip) Width() int {
	l := trace.NewLayout()
	NewCols(l, p.Depth)
	//
	return l.Width()
}

// PreprocessedWidth implementation for air.Chip interface.
func (p *Chip) PreprocessedWidth() int {
	return 0
}

// Eval implementation for air.Chip interface.
func (p *Chip) Eval(builder air.Builder) {
	var (
		cols      = p.ColMap()
		main      = builder.Main()
		local     = main.Local
		next      = main.Next
		bit       = local[cols.IsRightChild]
		finalStep = local[cols.StepFlags[p.Depth-1]]
	)
	// Tree level
	start, end := trace.Span(cols.StepFlags)
	stepflags.Air{Steps: p.Depth}.Eval(builder.SubRange(start, end))
	//
	builder.AssertBool(local[cols.IsReal])
	builder.AssertBool(bit)
	// Select left and right according to the index bit
	for i := 0; i < DIGEST_WIDTH; i++ {
		var (
			node    = local[cols.Node[i]]
			sibling = local[cols.Sibling[i]]
		)
		//
		builder.AssertEq(local[cols.LeftNode[i]], node.Add(bit.Mul(sibling.Sub(node))))
		builder.AssertEq(local[cols.RightNode[i]], sibling.Add(bit.Mul(node.Sub(sibling))))
	}
	// Rebuild the leaf index bit by bit, restarting at each block.
	var (
		weights = make([]air.Expr, p.Depth)
		nextBit = next[cols.IsRightChild]
	)
	//
	for i, col := range cols.StepFlags {
		weights[i] = air.Scale(next[col], 1<<i)
	}
	//
	acc := air.Sum(weights...).Mul(nextBit).Add(air.Not(next[cols.StepFlags[0]]).Mul(local[cols.AccumulatedIndex]))
	builder.WhenFirstRow().AssertEq(local[cols.AccumulatedIndex], bit)
	builder.WhenTransition().AssertEq(next[cols.AccumulatedIndex], acc)
	// which must match the claimed index at the root.
	builder.When(finalStep).AssertEq(local[cols.AccumulatedIndex], local[cols.LeafIndex])
	// Within a block, each output is the next node.
	inner := builder.WhenTransition().When(air.Not(finalStep))
	inner.AssertEq(next[cols.LeafIndex], local[cols.LeafIndex])
	inner.AssertEq(next[cols.IsReal], local[cols.IsReal])
	//
	for i := 0; i < DIGEST_WIDTH; i++ {
		inner.AssertEq(next[cols.Node[i]], local[cols.Output[i]])
	}
}

// Sends implementation for bus.Interactive interface.
func (p *Chip) Sends() []bus.Interaction {
	cols := p.ColMap()
	return p.sends(&cols)
}

// Receives implementation for bus.Interactive interface.
func (p *Chip) Receives() []bus.Interaction {
	cols := p.ColMap()
	return p.receives(&cols)
}

// SendsFromIndices constructs the sends of this chip when embedded at the given
// column indices.
func (p *Chip) SendsFromIndices(_ []int, main []int) []bus.Interaction {
	cols := p.RebasedCols(main)
	return p.sends(&cols)
}

// ReceivesFromIndices constructs the receives of this chip when embedded at the
// given column indices.
func (p *Chip) ReceivesFromIndices(_ []int, main []int) []bus.Interaction {
	cols := p.RebasedCols(main)
	return p.receives(&cols)
}

// sends requests the compression of left and right.
func (p *Chip) sends(cols *Cols) []bus.Interaction {
	return []bus.Interaction{bus.NewInteraction(p.BusHasherInput, bus.Main(cols.IsReal), request(cols)...)}
}

// receives takes the digest of each request, following the request itself.
func (p *Chip) receives(cols *Cols) []bus.Interaction {
	fields := append(request(cols), bus.MainAll(cols.Output[:]...)...)
	//
	return []bus.Interaction{bus.NewInteraction(p.BusHasherOutput, bus.Main(cols.IsReal), fields...)}
}

// request returns left and right as a single padded block, absorbed from
// scratch.
func request(cols *Cols) []air.Expr {
	fields := []air.Expr{air.NewConst64(0)}
	fields = append(fields, bus.MainAll(cols.LeftNode[:]...)...)
	fields = append(fields, bus.MainAll(cols.RightNode[:]...)...)
	// pad10*1
	for i := 2 * DIGEST_WIDTH; i < keccaksponge.RATE_BYTES; i++ {
		switch i {
		case 2 * DIGEST_WIDTH:
			fields = append(fields, air.NewConst64(0x01))
		case keccaksponge.RATE_BYTES - 1:
			fields = append(fields, air.NewConst64(0x80))
		default:
			fields = append(fields, air.NewConst64(0))
		}
	}
	//
	return fields
}
