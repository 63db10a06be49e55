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
)

// Window provides access to the columns of the current (local) and next rows of
// a table, as expressions.
type Window struct {
	Local []Expr
	Next  []Expr
}

// NewWindow constructs a window over the given number of columns of a given
// trace.
func NewWindow(kind Kind, width int) Window {
	local := make([]Expr, width)
	next := make([]Expr, width)
	//
	for i := 0; i < width; i++ {
		local[i] = &ColumnAccess{kind, i, 0}
		next[i] = &ColumnAccess{kind, i, 1}
	}
	//
	return Window{local, next}
}

// Slice narrows a window to the columns [start, end), such that column start
// becomes column 0 of the resulting window.
func (w Window) Slice(start, end int) Window {
	if start < 0 || end > len(w.Local) || start > end {
		panic(fmt.Sprintf("invalid sub-range [%d,%d) of %d columns", start, end, len(w.Local)))
	}
	//
	return Window{w.Local[start:end:end], w.Next[start:end:end]}
}

// Width returns the number of columns in this window.
func (w Window) Width() int {
	return len(w.Local)
}

// Builder is the interface against which chips express their constraints.
// Every assertion made through a builder is multiplied by the builder's current
// selector (if any), such that it holds vacuously on rows where the selector is
// zero.
type Builder interface {
	// Main returns the window over the main trace.
	Main() Window
	// Preprocessed returns the window over the preprocessed trace.
	Preprocessed() Window
	// When returns a builder whose assertions are gated by a given selector.
	When(selector Expr) Builder
	// WhenNe returns a builder whose assertions are gated by x - y, i.e. they
	// are vacuous whenever x equals y.
	WhenNe(x, y Expr) Builder
	// WhenFirstRow returns a builder whose assertions only apply on the first
	// row.
	WhenFirstRow() Builder
	// WhenLastRow returns a builder whose assertions only apply on the last
	// row.
	WhenLastRow() Builder
	// WhenTransition returns a builder whose assertions apply on every row
	// except the last.
	WhenTransition() Builder
	// SubRange returns a builder whose main window is restricted to the columns
	// [start, end) of this builder's main window.  This allows a wrapping chip
	// to embed the constraints of another chip within its own columns.
	SubRange(start, end int) Builder
	// AssertZero asserts that a given expression evaluates to zero.
	AssertZero(e Expr)
	// AssertEq asserts that two expressions are equal.
	AssertEq(x, y Expr)
	// AssertOne asserts that a given expression evaluates to one.
	AssertOne(e Expr)
	// AssertBool asserts that a given expression is either zero or one.
	AssertBool(e Expr)
}

// ConstraintBuilder is a builder which records every assertion as a
// constraint.
type ConstraintBuilder struct {
	name     string
	main     Window
	prep     Window
	selector Expr
	// constraints collected so far, shared across all scopes.
	sink *[]Constraint
}

// NewConstraintBuilder constructs a fresh builder for a chip with the given
// name and widths.
func NewConstraintBuilder(name string, width, prepWidth int) *ConstraintBuilder {
	var sink []Constraint
	//
	return &ConstraintBuilder{
		name: name,
		main: NewWindow(MAIN, width),
		prep: NewWindow(PREPROCESSED, prepWidth),
		sink: &sink,
	}
}

// Constraints returns the constraints recorded so far.
func (b *ConstraintBuilder) Constraints() []Constraint {
	return *b.sink
}

// Main implementation for Builder interface.
func (b *ConstraintBuilder) Main() Window {
	return b.main
}

// Preprocessed implementation for Builder interface.
func (b *ConstraintBuilder) Preprocessed() Window {
	return b.prep
}

// When implementation for Builder interface.
func (b *ConstraintBuilder) When(selector Expr) Builder {
	var nb = *b
	//
	if b.selector == nil {
		nb.selector = selector
	} else {
		nb.selector = b.selector.Mul(selector)
	}
	//
	return &nb
}

// WhenNe implementation for Builder interface.
func (b *ConstraintBuilder) WhenNe(x, y Expr) Builder {
	return b.When(x.Sub(y))
}

// WhenFirstRow implementation for Builder interface.
func (b *ConstraintBuilder) WhenFirstRow() Builder {
	return b.When(&Selector{FIRST_ROW})
}

// WhenLastRow implementation for Builder interface.
func (b *ConstraintBuilder) WhenLastRow() Builder {
	return b.When(&Selector{LAST_ROW})
}

// WhenTransition implementation for Builder interface.
func (b *ConstraintBuilder) WhenTransition() Builder {
	return b.When(&Selector{TRANSITION})
}

// SubRange implementation for Builder interface.
func (b *ConstraintBuilder) SubRange(start, end int) Builder {
	var nb = *b
	//
	nb.main = b.main.Slice(start, end)
	//
	return &nb
}

// AssertZero implementation for Builder interface.
func (b *ConstraintBuilder) AssertZero(e Expr) {
	handle := fmt.Sprintf("%s#%d", b.name, len(*b.sink))
	*b.sink = append(*b.sink, Constraint{handle, b.selector, e})
}

// AssertEq implementation for Builder interface.
func (b *ConstraintBuilder) AssertEq(x, y Expr) {
	b.AssertZero(x.Sub(y))
}

// AssertOne implementation for Builder interface.
func (b *ConstraintBuilder) AssertOne(e Expr) {
	b.AssertZero(e.Sub(NewConst64(1)))
}

// AssertBool implementation for Builder interface.
func (b *ConstraintBuilder) AssertBool(e Expr) {
	b.AssertZero(e.Mul(e.Sub(NewConst64(1))))
}
