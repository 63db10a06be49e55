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

	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/field"
)

// Fingerprint compresses a tuple into a single field element, namely
// v[0] + beta*v[1] + beta^2*v[2] + ...
func Fingerprint(values []field.Element, beta field.Element) field.Element {
	var (
		acc   field.Element
		power = field.One()
	)
	//
	for _, v := range values {
		acc = acc.Add(power.Mul(v))
		power = power.Mul(beta)
	}
	//
	return acc
}

// LogUp computes, for every bus, the log-derivative sum
//
//	Σ sends count/(alpha - fp(tuple)) - Σ receives count/(alpha - fp(tuple))
//
// over all rows of all participants, where fp is the Fingerprint under beta.
// For a balanced witness every sum is zero; conversely, for random challenges,
// an imbalanced bus yields a non-zero sum with overwhelming probability.  An
// error is returned only if some denominator vanishes, which means the
// challenges were unlucky.
func LogUp(parts []Participant, alpha, beta field.Element) (map[ID]field.Element, error) {
	var (
		buses  []ID
		counts []field.Element
		denoms []field.Element
		sums   = make(map[ID]field.Element)
	)
	//
	for _, p := range parts {
		for sign, interactions := range [][]Interaction{p.Chip.Sends(), p.Chip.Receives()} {
			for row := 0; row < p.Main.Height(); row++ {
				frame := air.Frame{Main: p.Main, Preprocessed: p.Preprocessed, Row: row}
				//
				for _, i := range interactions {
					count := air.EvalAt(i.Count, frame)
					//
					if count.IsZero() {
						continue
					} else if sign == 1 {
						count = count.Neg()
					}
					//
					denom := alpha.Sub(Fingerprint(evalFields(i.Fields, frame), beta))
					//
					if denom.IsZero() {
						return nil, fmt.Errorf("vanishing log-derivative denominator (%s, row %d)", p.Name, row)
					}
					//
					buses = append(buses, i.Bus)
					counts = append(counts, count)
					denoms = append(denoms, denom)
				}
			}
		}
	}
	// Invert all denominators at once
	field.BatchInvert(denoms)
	//
	for i, id := range buses {
		sums[id] = sums[id].Add(counts[i].Mul(denoms[i]))
	}
	//
	return sums, nil
}
