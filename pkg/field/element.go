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
	"github.com/consensys/gnark-crypto/field/babybear"
)

// Modulus of the BabyBear field, i.e. 2^31 - 2^27 + 1.
const Modulus uint64 = 2013265921

// Element wraps babybear.Element to give it value semantics, such that
// elements can be stored in tables and passed around by copy.
type Element struct {
	babybear.Element
}

// Zero constructs a field element representing 0
func Zero() Element {
	return Element{}
}

// One constructs a field element representing 1
func One() Element {
	return Element{babybear.One()}
}

// Uint64 constructs a field element from a given unsigned integer, which is
// reduced modulo the field modulus.
func Uint64(val uint64) Element {
	var elem babybear.Element
	//
	elem.SetUint64(val)
	//
	return Element{elem}
}

// Bool constructs 1 for true and 0 for false.
func Bool(val bool) Element {
	if val {
		return One()
	}
	//
	return Zero()
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res babybear.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res babybear.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res babybear.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Neg returns -x
func (x Element) Neg() Element {
	var res babybear.Element
	//
	res.Neg(&x.Element)
	//
	return Element{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var res babybear.Element
	//
	res.Inverse(&x.Element)
	//
	return Element{res}
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// Equals checks whether two elements represent the same value.
func (x Element) Equals(other Element) bool {
	return x == other
}

// Uint64 returns the canonical integer representative of x, which lies in
// [0, Modulus).
func (x Element) Uint64() uint64 {
	return x.Element.Uint64()
}

func (x Element) String() string {
	return x.Element.String()
}
