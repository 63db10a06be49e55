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
package gadgets

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
)

// ApplyBinaryGadget constrains every given expression to be a bit.  For an
// expression X, this corresponds to the vanishing constraint X * (X-1) == 0.
func ApplyBinaryGadget(builder air.Builder, bits ...air.Expr) {
	for _, bit := range bits {
		builder.AssertBool(bit)
	}
}

// ApplyBitDecompositionGadget constrains a value to equal the little-endian
// weighted sum of a given array of bits, and each bit to be binary.
func ApplyBitDecompositionGadget(builder air.Builder, value air.Expr, bits []air.Expr) {
	ApplyBinaryGadget(builder, bits...)
	builder.AssertEq(value, FromBits(bits))
}

// FromBits constructs (b0 * 1) + (b1 * 2) + ... + (bn * 2^n).
func FromBits(bits []air.Expr) air.Expr {
	return air.PackLimbs(bits, 1)
}

// Xor constructs the exclusive-or of two bits, namely x + y - 2xy.
func Xor(x, y air.Expr) air.Expr {
	return x.Add(y).Sub(air.Scale(x.Mul(y), 2))
}

// Xor3 constructs the exclusive-or of three bits, as two nested Xor gadgets.
func Xor3(x, y, z air.Expr) air.Expr {
	return Xor(Xor(x, y), z)
}

// AndNot constructs (1 - x) * y for two bits x and y.
func AndNot(x, y air.Expr) air.Expr {
	return air.Not(x).Mul(y)
}

// Columns converts a list of column indices into expressions using a given
// row of a window.
func Columns(row []air.Expr, indices []int) []air.Expr {
	exprs := make([]air.Expr, len(indices))
	//
	for i, index := range indices {
		exprs[i] = row[index]
	}
	//
	return exprs
}
