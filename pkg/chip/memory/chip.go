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

// Package memory provides a chip proving that a log of byte reads and writes,
// sorted by address and then timestamp, is consistent.  That is, every read of
// an address returns the value of the previous access to that address.
package memory

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/air/gadgets"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Chip sends the writes of its log on the memory bus and receives the reads
// (i.e. it answers them).  The key difference between adjacent rows is split
// into three bytes which are sent to the range bus, thereby enforcing that the
// log is sorted.
type Chip struct {
	BusMemory bus.ID
	BusRange  bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return "memory"
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
		cols  = &ColMap
		main  = builder.Main()
		local = main.Local
		next  = main.Next
		// A row is real when it reads or writes
		isReal     = local[cols.IsRead].Add(local[cols.IsWrite])
		nextIsReal = next[cols.IsRead].Add(next[cols.IsWrite])
		nextAu     = next[cols.AddrUnchanged]
	)
	//
	builder.AssertBool(local[cols.IsRead])
	builder.AssertBool(local[cols.IsWrite])
	builder.AssertBool(isReal)
	builder.AssertBool(local[cols.AddrUnchanged])
	// Padding rows never continue an address
	builder.When(air.Not(isReal)).AssertZero(local[cols.AddrUnchanged])
	// The first row has no predecessor
	builder.WhenFirstRow().AssertZero(local[cols.AddrUnchanged])
	//
	for _, limb := range cols.Limbs() {
		builder.WhenFirstRow().AssertZero(local[limb])
	}
	// Addresses marked unchanged are unchanged
	builder.WhenTransition().When(nextAu).AssertEq(next[cols.Addr], local[cols.Addr])
	// Limbs of the next row reconstruct the key difference.
	var (
		tsDiff   = next[cols.Timestamp].Sub(local[cols.Timestamp])
		addrDiff = next[cols.Addr].Sub(local[cols.Addr]).Sub(air.NewConst64(1))
		diff     = nextAu.Mul(tsDiff).Add(nextIsReal.Sub(nextAu).Mul(addrDiff))
		limbs    = gadgets.Columns(next, cols.Limbs())
	)
	//
	builder.WhenTransition().AssertEq(air.PackLimbs(limbs, 8), diff)
	// A read at an unchanged address repeats the previous value.  Since
	// addr_unchanged is zero on the first row, this holds vacuously when
	// wrapping around from the last row.
	builder.When(nextAu).When(next[cols.IsRead]).AssertEq(next[cols.Value], local[cols.Value])
}

// Sends implementation for bus.Interactive interface.
func (p *Chip) Sends() []bus.Interaction {
	return p.sends(&ColMap)
}

// Receives implementation for bus.Interactive interface.
func (p *Chip) Receives() []bus.Interaction {
	return p.receives(&ColMap)
}

// SendsFromIndices constructs the sends of this chip when embedded at the given
// column indices.
func (p *Chip) SendsFromIndices(_ []int, main []int) []bus.Interaction {
	cols := rebasedCols(main)
	return p.sends(&cols)
}

// ReceivesFromIndices constructs the receives of this chip when embedded at the
// given column indices.
func (p *Chip) ReceivesFromIndices(_ []int, main []int) []bus.Interaction {
	cols := rebasedCols(main)
	return p.receives(&cols)
}

func (p *Chip) sends(cols *Cols) []bus.Interaction {
	var (
		access = bus.MainAll(cols.Timestamp, cols.Addr, cols.Value)
		isReal = bus.Main(cols.IsRead).Add(bus.Main(cols.IsWrite))
		sends  = []bus.Interaction{bus.NewInteraction(p.BusMemory, bus.Main(cols.IsWrite), access...)}
	)
	//
	for _, limb := range cols.Limbs() {
		sends = append(sends, bus.NewInteraction(p.BusRange, isReal, bus.Main(limb)))
	}
	//
	return sends
}

func (p *Chip) receives(cols *Cols) []bus.Interaction {
	access := bus.MainAll(cols.Timestamp, cols.Addr, cols.Value)
	//
	return []bus.Interaction{bus.NewInteraction(p.BusMemory, bus.Main(cols.IsRead), access...)}
}

func rebasedCols(indices []int) Cols {
	l := trace.RebaseLayout(indices)
	c := NewCols(l)
	l.Finish()
	//
	return c
}
