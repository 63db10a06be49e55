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
package bus

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// Tuple is a concrete value tuple put on a bus, along with its count.
type Tuple struct {
	Values []field.Element
	Count  field.Element
}

// Uint64s returns the canonical integer representation of the values.
func (p Tuple) Uint64s() []uint64 {
	vals := make([]uint64, len(p.Values))
	//
	for i, v := range p.Values {
		vals[i] = v.Uint64()
	}
	//
	return vals
}

// Participant is a chip taking part in bus communication, along with its
// concrete tables.
type Participant struct {
	Name         string
	Chip         Interactive
	Main         *trace.Table
	Preprocessed *trace.Table
}

// Collect evaluates all interactions on a given bus over every row of a table,
// returning the tuples with non-zero count.  Tuples are returned in row order,
// and then in interaction order.
func Collect(interactions []Interaction, bus ID, main, prep *trace.Table) []Tuple {
	var tuples []Tuple
	//
	for row := 0; row < main.Height(); row++ {
		frame := air.Frame{Main: main, Preprocessed: prep, Row: row}
		//
		for _, i := range interactions {
			if i.Bus != bus {
				continue
			}
			//
			count := air.EvalAt(i.Count, frame)
			//
			if !count.IsZero() {
				tuples = append(tuples, Tuple{evalFields(i.Fields, frame), count})
			}
		}
	}
	//
	return tuples
}

// Flatten expands each tuple into count copies of its values, assuming counts
// are small non-negative integers.  This is used to derive the operations a
// downstream chip must perform from the tuples its upstream chips send it.
func Flatten(tuples []Tuple) [][]field.Element {
	var result [][]field.Element
	//
	for _, t := range tuples {
		for n := t.Count.Uint64(); n > 0; n-- {
			result = append(result, t.Values)
		}
	}
	//
	return result
}

// ImbalanceError reports a tuple whose sent and received counts differ on some
// bus.
type ImbalanceError struct {
	Bus      ID
	Name     string
	Tuple    []uint64
	Residual field.Element
}

func (p *ImbalanceError) Error() string {
	return fmt.Sprintf("bus %s is imbalanced on tuple %v (sends - receives = %s)", p.Name, p.Tuple, p.Residual)
}

// multiset maps a tuple key to its residual count (sends minus receives).
type multiset map[string]*Tuple

// Balance checks that, for every bus, the count-weighted multiset of tuples
// sent by all participants equals that received.  If not, an *ImbalanceError
// identifying the first imbalanced tuple (in a deterministic order) is
// returned.
func Balance(registry *Registry, parts []Participant) error {
	var (
		buses = tally(parts)
		ids   = make([]ID, 0, len(buses))
	)
	//
	for id := range buses {
		ids = append(ids, id)
	}
	//
	slices.Sort(ids)
	//
	for _, id := range ids {
		var (
			mset = buses[id]
			keys = make([]string, 0, len(mset))
		)
		//
		for k := range mset {
			keys = append(keys, k)
		}
		//
		sort.Strings(keys)
		//
		for _, k := range keys {
			if t := mset[k]; !t.Count.IsZero() {
				return &ImbalanceError{id, registry.Name(id), t.Uint64s(), t.Count}
			}
		}
	}
	//
	return nil
}

// Traffic summarises the number of tuples sent and received on one bus.
type Traffic struct {
	Bus      ID
	Sends    uint64
	Receives uint64
}

// Summarise returns the total send and receive counts for every registered
// bus.  Counts are summed as canonical integers.
func Summarise(registry *Registry, parts []Participant) []Traffic {
	var traffic = make([]Traffic, len(registry.IDs()))
	//
	for i, id := range registry.IDs() {
		traffic[i].Bus = id
		//
		for _, p := range parts {
			for _, t := range Collect(p.Chip.Sends(), id, p.Main, p.Preprocessed) {
				traffic[i].Sends += t.Count.Uint64()
			}
			//
			for _, t := range Collect(p.Chip.Receives(), id, p.Main, p.Preprocessed) {
				traffic[i].Receives += t.Count.Uint64()
			}
		}
	}
	//
	return traffic
}

// tally accumulates the residual multiset of every bus across all
// participants.  Participants are processed concurrently, and their results
// merged afterwards.
func tally(parts []Participant) map[ID]multiset {
	var (
		partial = make([]map[ID]multiset, len(parts))
		result  = make(map[ID]multiset)
	)
	//
	util.ParallelFor(len(parts), func(i int) {
		partial[i] = make(map[ID]multiset)
		p := parts[i]
		//
		accumulate(partial[i], p.Chip.Sends(), p.Main, p.Preprocessed, false)
		accumulate(partial[i], p.Chip.Receives(), p.Main, p.Preprocessed, true)
	})
	// Merge results
	for _, buses := range partial {
		for id, mset := range buses {
			for key, t := range mset {
				insert(result, id, key, t.Values, t.Count)
			}
		}
	}
	//
	return result
}

func accumulate(buses map[ID]multiset, interactions []Interaction, main, prep *trace.Table, negate bool) {
	for row := 0; row < main.Height(); row++ {
		frame := air.Frame{Main: main, Preprocessed: prep, Row: row}
		//
		for _, i := range interactions {
			count := air.EvalAt(i.Count, frame)
			//
			if count.IsZero() {
				continue
			} else if negate {
				count = count.Neg()
			}
			//
			values := evalFields(i.Fields, frame)
			insert(buses, i.Bus, key(values), values, count)
		}
	}
}

func insert(buses map[ID]multiset, id ID, key string, values []field.Element, count field.Element) {
	mset, ok := buses[id]
	//
	if !ok {
		mset = make(multiset)
		buses[id] = mset
	}
	//
	if t, ok := mset[key]; ok {
		t.Count = t.Count.Add(count)
	} else {
		mset[key] = &Tuple{values, count}
	}
}

func evalFields(fields []air.Expr, frame air.Frame) []field.Element {
	values := make([]field.Element, len(fields))
	//
	for i, f := range fields {
		values[i] = air.EvalAt(f, frame)
	}
	//
	return values
}

func key(values []field.Element) string {
	var builder strings.Builder
	//
	for i, v := range values {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		fmt.Fprintf(&builder, "%d", v.Uint64())
	}
	//
	return builder.String()
}
