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

// Package image provides N-dimensional, SIMD-friendly image containers.
//
// The core types are Image[T] for scalar images and VectorImage[T] for images
// whose pixels are fixed-length tuples of C components stored interleaved.
// Both carry a Geometry: the index Region they cover plus the physical
// origin, spacing and direction of the grid.
//
// # Memory Layout
//
// Axis 0 varies fastest. A line is the run of pixels along axis 0 for fixed
// coordinates on the remaining axes; lines are padded to a multiple of the
// SIMD vector width so kernels can work on whole vectors:
//
//	img := image.NewImage[float32](640, 480, 3)
//	region := img.Region()
//	region.ForEachLine(func(start []int) {
//	    line := img.Span(start, region.Size[0])
//	    // process line
//	})
//
// # Regions
//
// Region is an axis-aligned index range. Region.Split cuts a region into
// disjoint pieces along its slowest varying axis, which is how work is
// handed to parallel workers.
package image
