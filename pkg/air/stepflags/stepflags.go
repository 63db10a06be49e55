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

// Package stepflags provides a cyclic one-hot selector of length N, which
// marks the phase of an N-row repeating sub-computation.  Flag 0 is set on the
// first row of the table, and each flag shifts one position per row, wrapping
// around after N rows.
package stepflags

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/field"
)

// Air is the constraint system over N step flag columns.
type Air struct {
	Steps int
}

// Name implementation for air.Chip interface.
func (p Air) Name() string {
	return fmt.Sprintf("step_flags[%d]", p.Steps)
}

// Width implementation for air.Chip interface.
func (p Air) Width() int {
	return p.Steps
}

// PreprocessedWidth implementation for air.Chip interface.
func (p Air) PreprocessedWidth() int {
	return 0
}

// Eval implementation for air.Chip interface.
func (p Air) Eval(builder air.Builder) {
	var (
		main  = builder.Main()
		local = main.Local
		next  = main.Next
		first = builder.WhenFirstRow()
		trans = builder.WhenTransition()
	)
	// Initially, the first step flag is set and all others are not.
	first.AssertOne(local[0])
	//
	for i := 1; i < p.Steps; i++ {
		first.AssertZero(local[i])
	}
	// Flags rotate by one on each row.
	for i := 0; i < p.Steps; i++ {
		trans.AssertEq(next[(i+1)%p.Steps], local[i])
	}
}

// Generate writes the step flags for a given step into a row, where flags
// holds the columns of the flags within that row.
func Generate(row []field.Element, flags []int, step int) {
	for i, col := range flags {
		row[col] = field.Bool(i == step)
	}
}
