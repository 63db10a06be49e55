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
package termio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Table_01(t *testing.T) {
	var (
		buf bytes.Buffer
		tp  = NewTablePrinter(2, 2)
	)
	//
	tp.SetRow(0, "chip", "width")
	tp.SetRow(1, "xor", "37")
	tp.AnsiEscapes(false)
	tp.Print(&buf)
	//
	assert.Equal(t, " chip | width |\n  xor |    37 |\n", buf.String())
}

func Test_Table_02(t *testing.T) {
	var (
		buf bytes.Buffer
		tp  = NewTablePrinter(1, 1)
	)
	//
	tp.Set(0, 0, "keccak.a[0][1][2]")
	tp.SetMaxWidths(8)
	tp.AnsiEscapes(false)
	tp.Print(&buf)
	//
	assert.Equal(t, " keccak.. |\n", buf.String())
	assert.Equal(t, uint(80), Width(80))
}
