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
package field

import (
	"github.com/bits-and-blooms/bitset"
)

// Pow takes a given value to the power n.
func Pow(val Element, n uint64) Element {
	if n == 0 {
		val = One()
	} else if n > 1 {
		m := n / 2
		// Check for odd case
		if n%2 == 1 {
			tmp := val
			val = Pow(val, m)
			val = val.Mul(val).Mul(tmp)
		} else {
			// Even case is easy
			val = Pow(val, m)
			val = val.Mul(val)
		}
	}
	//
	return val
}

// Sum adds up a sequence of elements.
func Sum(vals ...Element) Element {
	var acc Element
	//
	for _, v := range vals {
		acc = acc.Add(v)
	}
	//
	return acc
}

// BatchInvert efficiently inverts the list of elements s, in place.  Zero
// entries are left as zero.
func BatchInvert(s []Element) {
	n := uint(len(s))
	//
	if n == 0 {
		return
	}
	//
	var (
		one = One()
		// identifies entries which are zero
		isZero = bitset.New(n)
		// m[i] = s[i] * s[i+1] * ...
		m = make([]Element, n)
	)
	//
	for i := int(n) - 1; i >= 0; i-- {
		if s[i].IsZero() {
			isZero.Set(uint(i))
			s[i] = one
		}
		//
		if i == int(n)-1 {
			m[i] = s[i]
		} else {
			m[i] = m[i+1].Mul(s[i])
		}
	}
	// inv = s[0]⁻¹ * s[1]⁻¹ * ...
	inv := m[0].Inverse()
	//
	for i := uint(0); i < n-1; i++ {
		// inv = s[i]⁻¹ * s[i+1]⁻¹ * ...
		next := inv.Mul(s[i])
		s[i] = inv.Mul(m[i+1])
		inv = next
		// inv = s[i+1]⁻¹ * s[i+2]⁻¹ * ...
		if isZero.Test(i) {
			s[i] = Zero()
		}
	}
	//
	s[n-1] = inv
	//
	if isZero.Test(n - 1) {
		s[n-1] = Zero()
	}
}
