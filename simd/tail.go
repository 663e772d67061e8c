// Copyright 2025 go-bsplinegradient Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simd

// ProcessWithTail walks [0, size) in vector-sized steps.
//
// It calls:
//   - fullFn(offset) for each full vector (offset is the starting element)
//   - tailFn(offset, count) once for the remainder, if size is not a
//     multiple of MaxLanes[T]()
//
// Example:
//
//	simd.ProcessWithTail[float32](width,
//	    func(offset int) {
//	        simd.StoreInterleaved2(simd.Load(a[offset:]), simd.Load(b[offset:]), out[2*offset:])
//	    },
//	    func(offset, count int) {
//	        simd.StoreInterleaved2(simd.LoadN(a[offset:], count), simd.LoadN(b[offset:], count), out[2*offset:2*(offset+count)])
//	    },
//	)
func ProcessWithTail[T Lanes](size int, fullFn func(offset int), tailFn func(offset, count int)) {
	maxLanes := MaxLanes[T]()
	if maxLanes == 0 || size <= 0 {
		return
	}

	fullVectors := size / maxLanes
	for i := range fullVectors {
		fullFn(i * maxLanes)
	}

	if remaining := size % maxLanes; remaining > 0 {
		tailFn(fullVectors*maxLanes, remaining)
	}
}
