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
package machine

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/consensys/go-keccak-machine/pkg/bus"
)

// WriteSchema writes the tables of this machine in DBML form, with one table
// per chip listing its columns.  The buses used by each chip are attached as a
// note, and each bus becomes a table group over the chips using it.
func (m *Machine) WriteSchema(w io.Writer) error {
	var (
		buf     strings.Builder
		columns = m.Columns()
		groups  = make(map[bus.ID][]string)
	)
	//
	for i, chip := range m.Chips() {
		var (
			sends    = busesOf(chip.Sends())
			receives = busesOf(chip.Receives())
		)
		//
		fmt.Fprintf(&buf, "Table %s {\n", chip.Name())
		//
		for _, name := range columns[i] {
			fmt.Fprintf(&buf, "  \"%s\" field\n", name)
		}
		//
		fmt.Fprintf(&buf, "  Note: 'sends: %s; receives: %s'\n}\n\n", m.busNames(sends), m.busNames(receives))
		//
		for _, id := range slices.Concat(sends, receives) {
			if !slices.Contains(groups[id], chip.Name()) {
				groups[id] = append(groups[id], chip.Name())
			}
		}
	}
	//
	for _, id := range m.registry.IDs() {
		if len(groups[id]) == 0 {
			continue
		}
		//
		fmt.Fprintf(&buf, "TableGroup %s {\n", m.registry.Name(id))
		//
		for _, name := range groups[id] {
			fmt.Fprintf(&buf, "  %s\n", name)
		}
		//
		buf.WriteString("}\n\n")
	}
	//
	_, err := io.WriteString(w, buf.String())
	//
	return err
}

func (m *Machine) busNames(ids []bus.ID) string {
	names := make([]string, len(ids))
	//
	for i, id := range ids {
		names[i] = m.registry.Name(id)
	}
	//
	return strings.Join(names, ", ")
}

// busesOf returns the distinct buses of some interactions, in ascending order.
func busesOf(interactions []bus.Interaction) []bus.ID {
	var ids []bus.ID
	//
	for _, i := range interactions {
		ids = append(ids, i.Bus)
	}
	//
	slices.Sort(ids)
	//
	return slices.Compact(ids)
}
