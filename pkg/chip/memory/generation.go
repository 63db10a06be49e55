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

import (
	"cmp"
	"slices"

	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// Kind distinguishes reads from writes.
type Kind uint8

const (
	// READ of a byte.
	READ Kind = iota
	// WRITE of a byte.
	WRITE
)

// Op is a single byte access.
type Op struct {
	Addr      uint32
	Timestamp uint32
	Value     uint8
	Kind      Kind
}

// SortOps sorts a log by address and then timestamp.  Accesses with the same
// key retain their relative order.
func SortOps(ops []Op) {
	slices.SortStableFunc(ops, func(a, b Op) int {
		if c := cmp.Compare(a.Addr, b.Addr); c != 0 {
			return c
		}
		//
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
}

// GenerateTrace constructs the table for a log, one row per access, in the
// order given.  The log is expected to be sorted (see SortOps).  An unsorted
// log still produces a table satisfying every constraint of this chip, but
// some key difference then exceeds three bytes and its high limb fails the
// range check.
func (p *Chip) GenerateTrace(ops []Op) *trace.Table {
	var (
		cols  = &ColMap
		table = trace.NewTable(trace.PaddedHeight(len(ops)), NumCols)
	)
	//
	util.ParallelFor(len(ops), func(i int) {
		var (
			op  = ops[i]
			row = table.Row(i)
		)
		//
		row[cols.Addr] = field.Uint64(uint64(op.Addr))
		row[cols.Timestamp] = field.Uint64(uint64(op.Timestamp))
		row[cols.Value] = field.Uint64(uint64(op.Value))
		row[cols.IsRead] = field.Bool(op.Kind == READ)
		row[cols.IsWrite] = field.Bool(op.Kind == WRITE)
		//
		if i == 0 {
			return
		}
		//
		var (
			prev = ops[i-1]
			diff field.Element
		)
		//
		if op.Addr == prev.Addr {
			row[cols.AddrUnchanged] = field.One()
			diff = row[cols.Timestamp].Sub(field.Uint64(uint64(prev.Timestamp)))
		} else {
			diff = row[cols.Addr].Sub(field.Uint64(uint64(prev.Addr))).Sub(field.One())
		}
		// Any overflow is left in the high limb
		d := diff.Uint64()
		row[cols.DiffLimbLo] = field.Uint64(d & 0xFF)
		row[cols.DiffLimbMd] = field.Uint64((d >> 8) & 0xFF)
		row[cols.DiffLimbHi] = field.Uint64(d >> 16)
	})
	//
	return table
}
