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

// Package bus provides the cross-table lookup model through which chips
// exchange values.  Each chip declares the tuples it sends and receives on
// named buses, each weighted by a count expression.  A machine witness is
// consistent when, for every bus, the count-weighted multiset of sent tuples
// equals that of received tuples.
package bus

import (
	"fmt"
	"slices"

	"github.com/consensys/go-keccak-machine/pkg/air"
)

// MAX_INTERACTION_DEGREE is the largest degree permitted for any field or
// count expression of an interaction.  This admits affine expressions with at
// most one multiplication.
const MAX_INTERACTION_DEGREE = 2

// ID identifies a bus.
type ID uint

// Interaction is a tuple of expressions over the current row of a chip, put on
// (or taken off) a given bus count times.
type Interaction struct {
	Fields []air.Expr
	Count  air.Expr
	Bus    ID
}

// NewInteraction constructs an interaction.
func NewInteraction(bus ID, count air.Expr, fields ...air.Expr) Interaction {
	return Interaction{fields, count, bus}
}

// Degree returns the largest degree of any field or count expression.
func (p Interaction) Degree() uint {
	var degree = p.Count.Degree()
	//
	for _, f := range p.Fields {
		degree = max(degree, f.Degree())
	}
	//
	return degree
}

func (p Interaction) String() string {
	return fmt.Sprintf("bus%d(%s)%v", p.Bus, p.Count, p.Fields)
}

// Interactive is implemented by chips which communicate over buses.
type Interactive interface {
	// Sends returns the interactions this chip puts on buses.
	Sends() []Interaction
	// Receives returns the interactions this chip takes off buses.
	Receives() []Interaction
}

// Main constructs an expression reading a main column of the current row.
func Main(column int) air.Expr {
	return &air.ColumnAccess{Trace: air.MAIN, Column: column}
}

// Fixed constructs an expression reading a preprocessed column of the current
// row.
func Fixed(column int) air.Expr {
	return &air.ColumnAccess{Trace: air.PREPROCESSED, Column: column}
}

// MainAll constructs expressions reading a set of main columns of the current
// row.
func MainAll(columns ...int) []air.Expr {
	exprs := make([]air.Expr, len(columns))
	//
	for i, c := range columns {
		exprs[i] = Main(c)
	}
	//
	return exprs
}

// Validate checks that every interaction of a chip respects the maximum
// interaction degree.
func Validate(name string, chip Interactive) error {
	for _, i := range slices.Concat(chip.Sends(), chip.Receives()) {
		if d := i.Degree(); d > MAX_INTERACTION_DEGREE {
			return fmt.Errorf("interaction of %s on bus %d has degree %d", name, i.Bus, d)
		}
	}
	//
	return nil
}

// Registry associates names with bus identifiers.
type Registry struct {
	ids   []ID
	names map[ID]string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{nil, make(map[ID]string)}
}

// Register a bus with a given name.  Registering the same identifier twice is
// an error.
func (p *Registry) Register(id ID, name string) {
	if _, ok := p.names[id]; ok {
		panic(fmt.Sprintf("bus %d already registered", id))
	}
	//
	p.ids = append(p.ids, id)
	p.names[id] = name
}

// Name returns the name of a given bus.
func (p *Registry) Name(id ID) string {
	if name, ok := p.names[id]; ok {
		return name
	}
	//
	return fmt.Sprintf("bus%d", id)
}

// IDs returns all registered buses, in registration order.
func (p *Registry) IDs() []ID {
	return p.ids
}
