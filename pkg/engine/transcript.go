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
package engine

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"golang.org/x/crypto/sha3"
)

// Digest is a Keccak-256 digest.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Commit computes the Keccak-256 commitment to a list of named tables.  Each
// table contributes its name, its dimensions and then its values (row-major,
// each as four little-endian bytes).
func Commit(names []string, traces []*trace.Table) Digest {
	var (
		digest Digest
		hasher = sha3.NewLegacyKeccak256()
		buf    []byte
	)
	//
	for i, table := range traces {
		buf = binary.LittleEndian.AppendUint32(buf[:0], uint32(len(names[i])))
		buf = append(buf, names[i]...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(table.Height()))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(table.Width()))
		//
		for _, v := range table.Values() {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v.Uint64()))
		}
		//
		hasher.Write(buf)
	}
	//
	hasher.Sum(digest[:0])
	//
	return digest
}

// Challenge derives a field element from a commitment and a label, by hashing
// both and reducing the first eight bytes of the result.
func Challenge(commitment Digest, label string) field.Element {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(commitment[:])
	hasher.Write([]byte(label))
	//
	return field.Uint64(binary.LittleEndian.Uint64(hasher.Sum(nil)))
}
