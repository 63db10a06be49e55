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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Machine_Schema(t *testing.T) {
	var (
		buf strings.Builder
		m   = New(Config{Depth: 4, RangeMax: 256})
	)
	//
	require.NoError(t, m.WriteSchema(&buf))
	//
	schema := buf.String()
	assert.Contains(t, schema, "Table merkle_root4 {\n  \"is_real\" field\n")
	assert.Contains(t, schema, "\"is_padding_byte[3]\" field")
	assert.Contains(t, schema, "Note: 'sends: xor_output; receives: xor_input'")
	assert.Contains(t, schema, "TableGroup memory {\n  keccak_sponge\n  memory\n}")
	assert.Equal(t, 6, strings.Count(schema, "Table "))
	assert.Equal(t, 8, strings.Count(schema, "TableGroup "))
}
