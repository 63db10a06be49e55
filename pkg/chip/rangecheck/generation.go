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
package rangecheck

import (
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	log "github.com/sirupsen/logrus"
)

// Counter accumulates the number of uses of each value in the range.
type Counter struct {
	max    uint64
	counts []uint64
	// Number of uses which could not be counted.
	dropped uint
}

// NewCounter constructs an empty counter for a given range.
func (p *Chip) NewCounter() *Counter {
	p.checkMax()
	//
	return &Counter{uint64(p.Max), make([]uint64, p.Max), 0}
}

// Add records n uses of a given value.  A value outside the range cannot be
// counted and is dropped, such that the range bus will not balance.
func (c *Counter) Add(value field.Element, n uint64) {
	v := value.Uint64()
	//
	if v >= c.max {
		log.Warnf("value %d out of range [0,%d)", v, c.max)
		//
		c.dropped++
	} else {
		c.counts[v] += n
	}
}

// AddTuples records every (single-value) tuple sent on the range bus.
func (c *Counter) AddTuples(tuples []bus.Tuple) {
	for _, t := range tuples {
		c.Add(t.Values[0], t.Count.Uint64())
	}
}

// Count returns the number of uses recorded for a given value.
func (c *Counter) Count(value uint64) uint64 {
	return c.counts[value]
}

// Dropped returns the number of out-of-range uses encountered.
func (c *Counter) Dropped() uint {
	return c.dropped
}

// GenerateTrace constructs the multiplicity table for the accumulated counts.
func (p *Chip) GenerateTrace(counter *Counter) *trace.Table {
	table := trace.NewTable(int(p.Max), 1)
	//
	for v, n := range counter.counts {
		table.Set(v, ColMap.Mult, field.Uint64(n))
	}
	//
	return table
}
