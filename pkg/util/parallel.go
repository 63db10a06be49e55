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
	"runtime"
)

// ParallelChunks splits the range [0,n) into contiguous chunks, roughly one per
// available processor, and runs fn over each chunk concurrently.  This returns
// once all chunks are complete.  Chunks never overlap, hence fn may safely
// write to disjoint regions of shared storage indexed by its range.
func ParallelChunks(n int, fn func(start, end int)) {
	var (
		workers = min(runtime.GOMAXPROCS(0), n)
		// Construct a communication channel for completions.
		c = make(chan bool, max(workers, 1))
		//
		ntodo = 0
	)
	//
	if workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		//
		return
	}
	//
	size := (n + workers - 1) / workers
	// Dispatch each chunk
	for start := 0; start < n; start += size {
		go func(start, end int) {
			fn(start, end)
			// Signal completion
			c <- true
		}(start, min(start+size, n))
		//
		ntodo++
	}
	// Collect up all the results
	for i := 0; i < ntodo; i++ {
		<-c
	}
}

// ParallelFor runs fn(i) for every i in [0,n) using ParallelChunks.
func ParallelFor(n int, fn func(i int)) {
	ParallelChunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
