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

package compose

import "github.com/tbirdso/go-bsplinegradient/simd"

// composeLine interleaves n pixels from the component planes srcs into dst,
// which holds n tuples of len(srcs) components. Every src must hold at
// least n elements and dst at least n*len(srcs).
func composeLine[T simd.Lanes](dst []T, srcs [][]T, n int) {
	c := len(srcs)
	switch c {
	case 0:
		return
	case 1:
		copy(dst[:n], srcs[0][:n])
	case 2:
		s0, s1 := srcs[0], srcs[1]
		simd.ProcessWithTail[T](n,
			func(off int) {
				simd.StoreInterleaved2(simd.Load(s0[off:]), simd.Load(s1[off:]), dst[off*2:])
			},
			func(off, count int) {
				simd.StoreInterleaved2(
					simd.LoadN(s0[off:], count), simd.LoadN(s1[off:], count),
					dst[off*2:(off+count)*2])
			},
		)
	case 3:
		s0, s1, s2 := srcs[0], srcs[1], srcs[2]
		simd.ProcessWithTail[T](n,
			func(off int) {
				simd.StoreInterleaved3(simd.Load(s0[off:]), simd.Load(s1[off:]), simd.Load(s2[off:]), dst[off*3:])
			},
			func(off, count int) {
				simd.StoreInterleaved3(
					simd.LoadN(s0[off:], count), simd.LoadN(s1[off:], count), simd.LoadN(s2[off:], count),
					dst[off*3:(off+count)*3])
			},
		)
	case 4:
		s0, s1, s2, s3 := srcs[0], srcs[1], srcs[2], srcs[3]
		simd.ProcessWithTail[T](n,
			func(off int) {
				simd.StoreInterleaved4(simd.Load(s0[off:]), simd.Load(s1[off:]), simd.Load(s2[off:]), simd.Load(s3[off:]), dst[off*4:])
			},
			func(off, count int) {
				simd.StoreInterleaved4(
					simd.LoadN(s0[off:], count), simd.LoadN(s1[off:], count),
					simd.LoadN(s2[off:], count), simd.LoadN(s3[off:], count),
					dst[off*4:(off+count)*4])
			},
		)
	default:
		composeLineN(dst, srcs, n)
	}
}

// composeLineN is the gather for tuple lengths without a dedicated
// interleave.
func composeLineN[T simd.Lanes](dst []T, srcs [][]T, n int) {
	c := len(srcs)
	vecs := make([]simd.Vec[T], c)
	simd.ProcessWithTail[T](n,
		func(off int) {
			for i, s := range srcs {
				vecs[i] = simd.Load(s[off:])
			}
			simd.StoreInterleavedN(vecs, dst[off*c:])
		},
		func(off, count int) {
			for i, s := range srcs {
				vecs[i] = simd.LoadN(s[off:], count)
			}
			simd.StoreInterleavedN(vecs, dst[off*c:(off+count)*c])
		},
	)
}
