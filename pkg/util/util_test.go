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
package util

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParallelFor_01(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100, 1023} {
		var (
			hits  = make([]int32, n)
			total atomic.Int64
		)
		//
		ParallelFor(n, func(i int) {
			atomic.AddInt32(&hits[i], 1)
			total.Add(int64(i))
		})
		// Every index visited exactly once
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "index %d", i)
		}
		//
		assert.Equal(t, int64(n*(n-1)/2), total.Load())
	}
}

func Test_ParallelChunks_01(t *testing.T) {
	var covered atomic.Int64
	//
	ParallelChunks(1000, func(start, end int) {
		assert.Less(t, start, end)
		covered.Add(int64(end - start))
	})
	//
	assert.Equal(t, int64(1000), covered.Load())
}

func Test_PerfStats_01(t *testing.T) {
	stats := NewPerfStats()
	stats.Log("phase %d", 1)
	assert.GreaterOrEqual(t, stats.Elapsed().Nanoseconds(), int64(0))
}
