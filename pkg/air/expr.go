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
	"strings"

	"github.com/consensys/go-keccak-machine/pkg/field"
)

// Expr represents a polynomial expression over the columns of the current and
// next rows of a table.  Expressions are built symbolically by a chip's Eval
// method, and are subsequently either evaluated over a concrete table (for
// checking) or handed to a proving engine.
type Expr interface {
	fmt.Stringer

	// Add two expressions together, producing a third.
	Add(Expr) Expr

	// Subtract one expression from another
	Sub(Expr) Expr

	// Multiply two expressions together, producing a third.
	Mul(Expr) Expr

	// Degree returns the total degree of this expression, where columns and
	// row selectors have degree one.
	Degree() uint
}

// ============================================================================
// Addition
// ============================================================================

// Add represents the sum over zero or more expressions.
type Add struct{ Args []Expr }

// Add two expressions together, producing a third.
func (p *Add) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *Add) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Add) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a sum is the maximum degree of its arguments.
func (p *Add) Degree() uint { return maxDegree(p.Args) }

func (p *Add) String() string { return naryString("+", p.Args) }

// ============================================================================
// Subtraction
// ============================================================================

// Sub represents the subtraction over zero or more expressions.
type Sub struct{ Args []Expr }

// Add two expressions together, producing a third.
func (p *Sub) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *Sub) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Sub) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a subtraction is the maximum degree of its arguments.
func (p *Sub) Degree() uint { return maxDegree(p.Args) }

func (p *Sub) String() string { return naryString("-", p.Args) }

// ============================================================================
// Multiplication
// ============================================================================

// Mul represents the product over zero or more expressions.
type Mul struct{ Args []Expr }

// Add two expressions together, producing a third.
func (p *Mul) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *Mul) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Mul) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a product is the sum of the degrees of its arguments.
func (p *Mul) Degree() uint {
	var degree uint
	//
	for _, arg := range p.Args {
		degree += arg.Degree()
	}
	//
	return degree
}

func (p *Mul) String() string { return naryString("*", p.Args) }

// ============================================================================
// Constant
// ============================================================================

// Constant represents a constant value within an expression.
type Constant struct{ Value field.Element }

// Add two expressions together, producing a third.
func (p *Constant) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *Constant) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Constant) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a constant is zero.
func (p *Constant) Degree() uint { return 0 }

func (p *Constant) String() string { return p.Value.String() }

// ============================================================================
// Column Access
// ============================================================================

// Kind distinguishes the main (witness) trace from the preprocessed (fixed)
// trace of a chip.
type Kind uint8

const (
	// MAIN identifies the witness trace.
	MAIN Kind = iota
	// PREPROCESSED identifies the fixed trace.
	PREPROCESSED
)

// ColumnAccess represents reading the value held at a given column in the
// tables being evaluated, where a shift of 0 reads the current row and a shift
// of 1 reads the next row (wrapping around at the end).
type ColumnAccess struct {
	Trace  Kind
	Column int
	Shift  int
}

// Add two expressions together, producing a third.
func (p *ColumnAccess) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *ColumnAccess) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *ColumnAccess) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a column access is one.
func (p *ColumnAccess) Degree() uint { return 1 }

func (p *ColumnAccess) String() string {
	var prefix = "m"
	//
	if p.Trace == PREPROCESSED {
		prefix = "p"
	}
	//
	if p.Shift == 0 {
		return fmt.Sprintf("%s%d", prefix, p.Column)
	}
	//
	return fmt.Sprintf("%s%d'", prefix, p.Column)
}

// ============================================================================
// Row Selectors
// ============================================================================

// RowSelector identifies one of the standard row selectors.
type RowSelector uint8

const (
	// FIRST_ROW is one on the first row, and zero elsewhere.
	FIRST_ROW RowSelector = iota
	// LAST_ROW is one on the last row, and zero elsewhere.
	LAST_ROW
	// TRANSITION is one on every row except the last.
	TRANSITION
)

// Selector represents a row selector within an expression.  Selectors behave
// like (preprocessed) columns and, hence, have degree one.
type Selector struct{ Kind RowSelector }

// Add two expressions together, producing a third.
func (p *Selector) Add(other Expr) Expr { return &Add{Args: []Expr{p, other}} }

// Sub (subtract) one expression from another.
func (p *Selector) Sub(other Expr) Expr { return &Sub{Args: []Expr{p, other}} }

// Mul (multiply) two expressions together, producing a third.
func (p *Selector) Mul(other Expr) Expr { return &Mul{Args: []Expr{p, other}} }

// Degree of a selector is one.
func (p *Selector) Degree() uint { return 1 }

func (p *Selector) String() string {
	switch p.Kind {
	case FIRST_ROW:
		return "is_first_row"
	case LAST_ROW:
		return "is_last_row"
	default:
		return "is_transition"
	}
}

// ============================================================================
// Helpers
// ============================================================================

// NewConst constructs a constant expression.
func NewConst(val field.Element) Expr {
	return &Constant{val}
}

// NewConst64 constructs a constant expression from an unsigned integer.
func NewConst64(val uint64) Expr {
	return &Constant{field.Uint64(val)}
}

// Sum constructs the sum of zero or more expressions, where an empty sum is
// zero.
func Sum(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return NewConst64(0)
	case 1:
		return args[0]
	default:
		return &Add{Args: args}
	}
}

// Product constructs the product of zero or more expressions, where an empty
// product is one.
func Product(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return NewConst64(1)
	case 1:
		return args[0]
	default:
		return &Mul{Args: args}
	}
}

// Scale multiplies an expression by a constant.
func Scale(e Expr, k uint64) Expr {
	return e.Mul(NewConst64(k))
}

// Not returns 1 - e, which is the negation of a boolean expression.
func Not(e Expr) Expr {
	return NewConst64(1).Sub(e)
}

// PackLimbs constructs the little-endian weighted sum of limbs of a given
// bitwidth, i.e. limbs[0] + 2^w * limbs[1] + ...
func PackLimbs(limbs []Expr, bitwidth uint) Expr {
	terms := make([]Expr, len(limbs))
	//
	for i, limb := range limbs {
		if i == 0 {
			terms[i] = limb
		} else {
			terms[i] = Scale(limb, uint64(1)<<(bitwidth*uint(i)))
		}
	}
	//
	return Sum(terms...)
}

func maxDegree(args []Expr) uint {
	var degree uint
	//
	for _, arg := range args {
		degree = max(degree, arg.Degree())
	}
	//
	return degree
}

func naryString(op string, args []Expr) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(op)
	//
	for _, arg := range args {
		builder.WriteString(" ")
		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
