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

// Package util provides checks shared by the tests of individual chips.
package util

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/stretchr/testify/require"
)

// IndexedInteractions constructs the interactions of a chip from arbitrary
// index lists for its preprocessed and main columns.
type IndexedInteractions func(preprocessed []int, main []int) []bus.Interaction

// CheckValid checks that a chip's table has a power-of-two height of at least
// the expected number of rows, and that every constraint holds on every row.
func CheckValid(t *testing.T, chip air.Chip, main *trace.Table, prep *trace.Table, rows int) {
	t.Helper()
	require.Equal(t, chip.Width(), main.Width())
	require.Equal(t, trace.PaddedHeight(rows), main.Height())
	//
	_, err := air.Check(chip, main, prep)
	require.NoError(t, err)
}

// CheckInvalid checks that some constraint of a chip fails on a table.
func CheckInvalid(t *testing.T, chip air.Chip, main *trace.Table, prep *trace.Table) {
	t.Helper()
	//
	_, err := air.Check(chip, main, prep)
	require.Error(t, err)
}

// CheckDegrees checks that constraints and interactions of a chip are within
// the maximum degrees.
func CheckDegrees(t *testing.T, chip air.Chip, interactive bus.Interactive) {
	t.Helper()
	require.LessOrEqual(t, air.MaxDegree(air.Constraints(chip)), uint(air.MAX_CONSTRAINT_DEGREE))
	require.NoError(t, bus.Validate(chip.Name(), interactive))
}

// CheckRebased checks that interactions constructed from a rebased index list
// are identical to the canonical interactions, modulo index translation.  This
// is done by filling a canonical table with random values, scattering its
// columns into a wider table according to a random index list, and comparing
// the tuples produced on every bus.
func CheckRebased(t *testing.T, canonical []bus.Interaction, indexed IndexedInteractions, width, prepWidth int,
	buses ...bus.ID) {
	t.Helper()
	//
	var (
		rng     = rand.New(rand.NewPCG(uint64(width), uint64(prepWidth)))
		mainIdx = rng.Perm(width + 7)[:width]
		prepIdx = rng.Perm(prepWidth + 3)[:prepWidth]
		main    = randomTable(rng, 4, width)
		prep    = randomTable(rng, 4, prepWidth)
		wide    = scatter(main, mainIdx, width+7)
		wprep   = scatter(prep, prepIdx, prepWidth+3)
		rebased = indexed(prepIdx, mainIdx)
	)
	//
	require.Len(t, rebased, len(canonical))
	//
	for _, id := range buses {
		expected := bus.Collect(canonical, id, main, prep)
		actual := bus.Collect(rebased, id, wide, wprep)
		require.Equal(t, expected, actual, "bus %d", id)
	}
}

func randomTable(rng *rand.Rand, height, width int) *trace.Table {
	table := trace.NewTable(height, width)
	//
	for i := range table.Values() {
		table.Values()[i] = field.Uint64(rng.Uint64N(field.Modulus))
	}
	//
	return table
}

func scatter(table *trace.Table, indices []int, width int) *trace.Table {
	wide := trace.NewTable(table.Height(), width)
	//
	for row := 0; row < table.Height(); row++ {
		for col, index := range indices {
			wide.Set(row, index, table.Get(row, col))
		}
	}
	//
	return wide
}
