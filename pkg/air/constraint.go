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
package air

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// MAX_CONSTRAINT_DEGREE is the maximum degree of any constraint (including its
// selector) supported by the proving engine.
const MAX_CONSTRAINT_DEGREE = 3

// Chip describes a constraint system over a table of fixed width.
type Chip interface {
	// Name returns a human-readable name for this chip.
	Name() string
	// Width returns the number of main (witness) columns.
	Width() int
	// PreprocessedWidth returns the number of preprocessed (fixed) columns,
	// which is zero for most chips.
	PreprocessedWidth() int
	// Eval expresses all constraints of this chip against a given builder.
	Eval(Builder)
}

// PreprocessedChip is a chip which has a fixed preprocessed table,
// independent of any witness.
type PreprocessedChip interface {
	Chip
	// PreprocessedTrace returns the preprocessed table.
	PreprocessedTrace() *trace.Table
}

// Constraint represents a single polynomial identity, which must evaluate to
// zero on every row where its selector is non-zero.
type Constraint struct {
	// A unique identifier for this constraint.  This is primarily
	// useful for debugging.
	Handle string
	// Selector gating this constraint, or nil if it applies on every row.
	Selector Expr
	// The actual constraint itself, namely an expression which
	// should evaluate to zero.
	Body Expr
}

// Expr returns the complete constraint polynomial, i.e. selector * body.
func (p Constraint) Expr() Expr {
	if p.Selector == nil {
		return p.Body
	}
	//
	return p.Selector.Mul(p.Body)
}

// Degree returns the degree of the complete constraint polynomial.
func (p Constraint) Degree() uint {
	return p.Expr().Degree()
}

// Constraints collects all constraints of a given chip.
func Constraints(chip Chip) []Constraint {
	builder := NewConstraintBuilder(chip.Name(), chip.Width(), chip.PreprocessedWidth())
	chip.Eval(builder)
	//
	return builder.Constraints()
}

// MaxDegree returns the largest degree of any constraint in a given set.
func MaxDegree(constraints []Constraint) uint {
	var degree uint
	//
	for _, c := range constraints {
		degree = max(degree, c.Degree())
	}
	//
	return degree
}

// Failure indicates a constraint which does not hold on a given row of a
// table.
type Failure struct {
	// Chip whose constraint failed
	Chip string
	// Handle of the failing constraint
	Handle string
	// Row on which the constraint failed
	Row int
}

func (p *Failure) Error() string {
	return fmt.Sprintf("constraint \"%s\" of %s does not hold (row %d)", p.Handle, p.Chip, p.Row)
}

// Check evaluates every constraint of a chip on every row of its table(s).  If
// some constraint fails, the failure on the lowest row is returned.  Otherwise,
// the coverage of the check is returned, namely the set of constraints whose
// selector was non-zero on at least one row.  A constraint never covered has
// only been tested vacuously.
func Check(chip Chip, main *trace.Table, prep *trace.Table) (*bitset.BitSet, error) {
	var (
		constraints = Constraints(chip)
		coverage    = bitset.New(uint(len(constraints)))
		failure     *Failure
		mux         sync.Mutex
	)
	// Sanity check table dimensions
	checkDimensions(chip, main, prep)
	//
	util.ParallelChunks(main.Height(), func(start, end int) {
		covered, fail := checkRows(chip.Name(), constraints, main, prep, start, end)
		// Merge results
		mux.Lock()
		defer mux.Unlock()
		//
		coverage.InPlaceUnion(covered)
		//
		if fail != nil && (failure == nil || fail.Row < failure.Row) {
			failure = fail
		}
	})
	//
	if failure != nil {
		return coverage, failure
	}
	//
	return coverage, nil
}

func checkRows(name string, constraints []Constraint, main, prep *trace.Table, start, end int) (*bitset.BitSet,
	*Failure) {
	var coverage = bitset.New(uint(len(constraints)))
	//
	for row := start; row < end; row++ {
		frame := Frame{main, prep, row}
		//
		for i, c := range constraints {
			if c.Selector != nil {
				if sel := EvalAt(c.Selector, frame); sel.IsZero() {
					continue
				}
			}
			//
			coverage.Set(uint(i))
			//
			if val := EvalAt(c.Body, frame); !val.IsZero() {
				return coverage, &Failure{name, c.Handle, row}
			}
		}
	}
	//
	return coverage, nil
}

func checkDimensions(chip Chip, main, prep *trace.Table) {
	if main.Width() != chip.Width() {
		panic(fmt.Sprintf("%s table has width %d (expected %d)", chip.Name(), main.Width(), chip.Width()))
	} else if !trace.IsPowerOfTwo(main.Height()) {
		panic(fmt.Sprintf("%s table has height %d (not a power of two)", chip.Name(), main.Height()))
	} else if chip.PreprocessedWidth() == 0 {
		return
	} else if prep == nil || prep.Width() != chip.PreprocessedWidth() || prep.Height() != main.Height() {
		panic(fmt.Sprintf("%s preprocessed table has incorrect dimensions", chip.Name()))
	}
}
