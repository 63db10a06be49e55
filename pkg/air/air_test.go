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
	"errors"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fibonacci is a two column chip computing the fibonacci sequence.
type fibonacci struct{}

func (fibonacci) Name() string           { return "fib" }
func (fibonacci) Width() int             { return 2 }
func (fibonacci) PreprocessedWidth() int { return 0 }

func (fibonacci) Eval(builder Builder) {
	var (
		local = builder.Main().Local
		next  = builder.Main().Next
	)
	//
	builder.WhenFirstRow().AssertZero(local[0])
	builder.WhenFirstRow().AssertOne(local[1])
	builder.WhenTransition().AssertEq(next[0], local[1])
	builder.WhenTransition().AssertEq(next[1], local[0].Add(local[1]))
}

// wrapper embeds the fibonacci chip at columns [1,3) and adds a boolean flag at
// column 0 which mirrors a preprocessed column.
type wrapper struct{}

func (wrapper) Name() string           { return "wrapper" }
func (wrapper) Width() int             { return 3 }
func (wrapper) PreprocessedWidth() int { return 1 }

func (wrapper) Eval(builder Builder) {
	var (
		local = builder.Main().Local
		prep  = builder.Preprocessed().Local
	)
	//
	fibonacci{}.Eval(builder.SubRange(1, 3))
	builder.AssertBool(local[0])
	// Flag matches the preprocessed column
	builder.AssertEq(local[0], prep[0])
	// Nested scopes
	builder.When(local[0]).WhenNe(local[1], local[2]).AssertOne(local[0])
}

func fibonacciTable(height int) *trace.Table {
	table := trace.NewTable(height, 2)
	a, b := uint64(0), uint64(1)
	//
	for i := 0; i < height; i++ {
		table.Set(i, 0, field.Uint64(a))
		table.Set(i, 1, field.Uint64(b))
		a, b = b, a+b
	}
	//
	return table
}

func Test_Expr_Degree(t *testing.T) {
	x := &ColumnAccess{MAIN, 0, 0}
	y := &ColumnAccess{MAIN, 1, 1}
	//
	assert.Equal(t, uint(0), NewConst64(5).Degree())
	assert.Equal(t, uint(1), x.Add(y).Degree())
	assert.Equal(t, uint(2), x.Mul(y).Degree())
	assert.Equal(t, uint(3), x.Mul(y).Mul(&Selector{TRANSITION}).Degree())
	assert.Equal(t, uint(2), Sum(x, x.Mul(y), NewConst64(1)).Degree())
	assert.Equal(t, uint(0), Product().Degree())
	assert.Equal(t, "(+ m0 m1')", x.Add(y).String())
}

func Test_Expr_Eval(t *testing.T) {
	table := fibonacciTable(4)
	x := &ColumnAccess{MAIN, 0, 0}
	y := &ColumnAccess{MAIN, 1, 1}
	// Row 2: a=1, b=2; row 3: a=2, b=3
	frame := Frame{table, nil, 2}
	assert.Equal(t, uint64(4), EvalAt(x.Add(y), frame).Uint64())
	assert.Equal(t, uint64(3), EvalAt(x.Mul(y), frame).Uint64())
	assert.Equal(t, field.Modulus-2, EvalAt(x.Sub(y), frame).Uint64())
	assert.Equal(t, uint64(13), EvalAt(PackLimbs([]Expr{x, y}, 2), frame).Uint64())
	// Next row wraps around
	last := Frame{table, nil, 3}
	assert.Equal(t, uint64(1), EvalAt(y, last).Uint64())
	// Selectors
	assert.True(t, EvalAt(&Selector{FIRST_ROW}, Frame{table, nil, 0}).IsOne())
	assert.True(t, EvalAt(&Selector{LAST_ROW}, last).IsOne())
	assert.True(t, EvalAt(&Selector{TRANSITION}, last).IsZero())
	assert.True(t, EvalAt(&Selector{TRANSITION}, frame).IsOne())
}

func Test_Builder_Scopes(t *testing.T) {
	builder := NewConstraintBuilder("test", 2, 0)
	local := builder.Main().Local
	//
	builder.AssertBool(local[0])
	builder.When(local[0]).When(local[1]).AssertZero(local[1])
	builder.WhenTransition().AssertEq(local[0], local[1])
	//
	constraints := builder.Constraints()
	require.Len(t, constraints, 3)
	assert.Nil(t, constraints[0].Selector)
	assert.Equal(t, "test#1", constraints[1].Handle)
	assert.Equal(t, uint(3), constraints[1].Degree())
	assert.Equal(t, uint(2), constraints[2].Degree())
	assert.Equal(t, uint(3), MaxDegree(constraints))
}

func Test_Check_Valid(t *testing.T) {
	coverage, err := Check(fibonacci{}, fibonacciTable(16), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(4), coverage.Count())
}

func Test_Check_Invalid(t *testing.T) {
	var failure *Failure
	//
	table := fibonacciTable(16)
	table.Set(9, 1, field.Uint64(1))
	_, err := Check(fibonacci{}, table, nil)
	//
	require.Error(t, err)
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 8, failure.Row)
	assert.Equal(t, "fib", failure.Chip)
}

func Test_Check_SubRange(t *testing.T) {
	var (
		fib  = fibonacciTable(8)
		main = trace.NewTable(8, 3)
		prep = trace.NewTable(8, 1)
		chip = wrapper{}
	)
	//
	for i := 0; i < 8; i++ {
		row := main.Row(i)
		row[0] = field.Bool(i%2 == 0)
		row[1] = fib.Get(i, 0)
		row[2] = fib.Get(i, 1)
		prep.Set(i, 0, row[0])
	}
	//
	_, err := Check(chip, main, prep)
	require.NoError(t, err)
	// Break the embedded chip
	main.Set(5, 2, field.Uint64(100))
	_, err = Check(chip, main, prep)
	assert.Error(t, err)
	// Dimensions are structural
	assert.Panics(t, func() { _, _ = Check(chip, main, nil) })
	assert.Panics(t, func() { _, _ = Check(chip, trace.NewTable(6, 3), nil) })
}
