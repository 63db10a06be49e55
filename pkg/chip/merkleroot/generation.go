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

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/air/stepflags"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
	"golang.org/x/crypto/sha3"
)

// Digest is a node of the tree.
type Digest [DIGEST_WIDTH]byte

// Compressor combines two child nodes into their parent.
type Compressor interface {
	Compress(left, right Digest) Digest
}

// Keccak256 compresses by hashing the concatenation of both children with
// Keccak-256.
type Keccak256 struct{}

// Compress implementation for Compressor interface.
func (Keccak256) Compress(left, right Digest) Digest {
	var (
		digest Digest
		hasher = sha3.NewLegacyKeccak256()
	)
	//
	hasher.Write(left[:])
	hasher.Write(right[:])
	hasher.Sum(digest[:0])
	//
	return digest
}

// Op is a single root computation, from a leaf and its siblings ordered from
// the leaf level upwards.
type Op struct {
	LeafIndex uint64
	Leaf      Digest
	Siblings  []Digest
}

// Root computes the root of the path described by this operation.  Only the
// low bits of the leaf index (one per level) are used.
func (op *Op) Root(c Compressor) Digest {
	node := op.Leaf
	//
	for k, sibling := range op.Siblings {
		if (op.LeafIndex>>k)&1 == 1 {
			node = c.Compress(sibling, node)
		} else {
			node = c.Compress(node, sibling)
		}
	}
	//
	return node
}

// NewOp constructs the operation proving membership of a given leaf in a tree
// with the given leaf level, whose size must be a power of two.
func NewOp(leaves []Digest, index uint64, c Compressor) Op {
	if len(leaves) == 0 || !trace.IsPowerOfTwo(len(leaves)) {
		panic(fmt.Sprintf("leaf count %d is not a power of two", len(leaves)))
	} else if index >= uint64(len(leaves)) {
		panic(fmt.Sprintf("leaf index %d out of bounds", index))
	}
	//
	var (
		op    = Op{LeafIndex: index, Leaf: leaves[index]}
		level = leaves
	)
	//
	for i := index; len(level) > 1; i >>= 1 {
		op.Siblings = append(op.Siblings, level[i^1])
		//
		parents := make([]Digest, len(level)/2)
		//
		for j := range parents {
			parents[j] = c.Compress(level[2*j], level[2*j+1])
		}
		//
		level = parents
	}
	//
	return op
}

// GenerateTrace constructs the table for a given list of root computations,
// using Depth rows for each.  Padding rows are zero, except for their step
// flags which continue to rotate.
func (p *Chip) GenerateTrace(ops []Op, c Compressor) *trace.Table {
	var (
		cols   = p.ColMap()
		height = trace.PaddedHeight(len(ops) * p.Depth)
		table  = trace.NewTable(height, p.Width())
	)
	//
	for i := range ops {
		if len(ops[i].Siblings) != p.Depth {
			panic(fmt.Sprintf("path has %d siblings (expected %d)", len(ops[i].Siblings), p.Depth))
		}
	}
	//
	util.ParallelFor(len(ops), func(i int) {
		p.generateRows(table, i*p.Depth, &cols, &ops[i], c)
	})
	//
	for row := len(ops) * p.Depth; row < height; row++ {
		stepflags.Generate(table.Row(row), cols.StepFlags, row%p.Depth)
	}
	//
	return table
}

func (p *Chip) generateRows(table *trace.Table, start int, cols *Cols, op *Op, c Compressor) {
	var (
		node  = op.Leaf
		index = op.LeafIndex & (1<<p.Depth - 1)
	)
	//
	for k := 0; k < p.Depth; k++ {
		var (
			row         = table.Row(start + k)
			sibling     = op.Siblings[k]
			bit         = (index >> k) & 1
			left, right = node, sibling
		)
		//
		if bit == 1 {
			left, right = sibling, node
		}
		//
		output := c.Compress(left, right)
		//
		row[cols.IsReal] = field.One()
		stepflags.Generate(row, cols.StepFlags, k)
		row[cols.IsRightChild] = field.Uint64(bit)
		row[cols.AccumulatedIndex] = field.Uint64(index & (1<<(k+1) - 1))
		row[cols.LeafIndex] = field.Uint64(index)
		writeDigest(row, cols.Node[:], node)
		writeDigest(row, cols.Sibling[:], sibling)
		writeDigest(row, cols.LeftNode[:], left)
		writeDigest(row, cols.RightNode[:], right)
		writeDigest(row, cols.Output[:], output)
		//
		node = output
	}
}

func writeDigest(row []field.Element, cols []int, digest Digest) {
	for i, b := range digest {
		row[cols[i]] = field.Uint64(uint64(b))
	}
}
