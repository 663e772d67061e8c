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

// Package simd provides the lane-typed building blocks used by the image
// kernels: scalar type constraints, a portable vector handle sized to the
// detected SIMD register width, and interleaved (tuple) loads and stores.
//
// All operations are pure Go. The detected dispatch level only decides the
// lane count, which in turn decides row padding and the vector chunk size
// used by the kernels.
//
// Basic usage:
//
//	a := simd.Load(plane0[i:])
//	b := simd.Load(plane1[i:])
//	simd.StoreInterleaved2(a, b, tuples[2*i:])
package simd

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all scalar pixel types that can be stored in
// vector lanes.
type Lanes interface {
	Floats | Integers
}

// Vec is a portable vector handle holding up to MaxLanes[T]() elements.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns the underlying slice representation of the vector.
// This is primarily for testing and should not be used in kernels.
func (v Vec[T]) Data() []T {
	return v.data
}
