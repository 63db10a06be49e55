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

// Package rangecheck provides a chip proving that values lie in [0, MAX) by a
// multiplicity-counted lookup against a fixed column holding each value of the
// range exactly once.
package rangecheck

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
)

// Cols holds the main column indices of one row.
type Cols struct {
	// Number of uses of this row's counter value across the machine.
	Mult int
}

// PreprocessedCols holds the preprocessed column indices of one row.
type PreprocessedCols struct {
	Counter int
}

// NewCols declares the main columns against a given layout.
func NewCols(l *trace.Layout) Cols {
	return Cols{l.Next("mult")}
}

// NewPreprocessedCols declares the preprocessed columns against a given layout.
func NewPreprocessedCols(l *trace.Layout) PreprocessedCols {
	return PreprocessedCols{l.Next("counter")}
}

// Names returns the name of every main column in the canonical layout.
func Names() []string {
	l := trace.NewLayout()
	NewCols(l)
	//
	return l.Names()
}

// ColMap and PrepColMap are the canonical layouts.
var (
	ColMap     = NewCols(trace.NewLayout())
	PrepColMap = NewPreprocessedCols(trace.NewLayout())
)

// Chip receives the preprocessed counter, weighted by the main multiplicity,
// on the range bus.  Any chip checking a value sends it onto the same bus once
// per use.  The chip has no constraints of its own, since the counter column
// is fixed and the multiplicities are balanced by the bus argument.
type Chip struct {
	// Exclusive upper bound of the range, which must be a power of two.
	Max uint
	Bus bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return fmt.Sprintf("range%d", p.Max)
}

// Width implementation for air.Chip interface.
func (p *Chip) Width() int {
	return 1
}

// PreprocessedWidth implementation for air.Chip interface.
func (p *Chip) PreprocessedWidth() int {
	return 1
}

// Eval implementation for air.Chip interface.
func (p *Chip) Eval(builder air.Builder) {
	// Nothing to constrain.
}

// PreprocessedTrace implementation for air.PreprocessedChip interface.
func (p *Chip) PreprocessedTrace() *trace.Table {
	p.checkMax()
	//
	table := trace.NewTable(int(p.Max), 1)
	//
	for i := 0; i < int(p.Max); i++ {
		table.Set(i, PrepColMap.Counter, field.Uint64(uint64(i)))
	}
	//
	return table
}

// Sends implementation for bus.Interactive interface.
func (p *Chip) Sends() []bus.Interaction {
	return nil
}

// Receives implementation for bus.Interactive interface.
func (p *Chip) Receives() []bus.Interaction {
	return p.receives(PrepColMap, ColMap)
}

// SendsFromIndices constructs the sends of this chip when embedded at the given
// column indices.
func (p *Chip) SendsFromIndices(_ []int, _ []int) []bus.Interaction {
	return nil
}

// ReceivesFromIndices constructs the receives of this chip when embedded at the
// given column indices.
func (p *Chip) ReceivesFromIndices(prep []int, main []int) []bus.Interaction {
	var (
		pl = trace.RebaseLayout(prep)
		ml = trace.RebaseLayout(main)
		pc = NewPreprocessedCols(pl)
		mc = NewCols(ml)
	)
	//
	pl.Finish()
	ml.Finish()
	//
	return p.receives(pc, mc)
}

func (p *Chip) receives(prep PreprocessedCols, main Cols) []bus.Interaction {
	return []bus.Interaction{
		bus.NewInteraction(p.Bus, bus.Main(main.Mult), bus.Fixed(prep.Counter)),
	}
}

func (p *Chip) checkMax() {
	if p.Max == 0 || !trace.IsPowerOfTwo(int(p.Max)) {
		panic(fmt.Sprintf("range bound %d is not a power of two", p.Max))
	}
}
