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

package image

import (
	"fmt"
	"slices"

	"github.com/tbirdso/go-bsplinegradient/simd"
)

// VectorImage is an N-dimensional image whose pixels are fixed-length
// tuples of C components. Components are stored interleaved
// ([p0c0, p0c1, ..., p1c0, ...]) and each line is padded to the SIMD
// vector width.
type VectorImage[T simd.Lanes] struct {
	geom       Geometry
	components int
	data       []T
	width      int // pixels per line
	stride     int // elements per line (includes padding)
	lines      int
}

// NewVectorImage allocates a zeroed tuple image with the given number of
// components per pixel.
func NewVectorImage[T simd.Lanes](g Geometry, components int) (*VectorImage[T], error) {
	if components < 1 {
		return nil, fmt.Errorf("image: vector image needs at least one component, got %d", components)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	img := &VectorImage[T]{geom: g.Clone(), components: components}
	if g.Region.IsEmpty() {
		return img, nil
	}
	img.width = g.Region.Size[0]
	img.stride = simd.AlignedSize[T](img.width * components)
	img.lines = g.Region.NumberOfLines()
	img.data = make([]T, img.stride*img.lines)
	return img, nil
}

// Components returns the tuple length C.
func (img *VectorImage[T]) Components() int {
	return img.components
}

// Dimension returns the number of axes.
func (img *VectorImage[T]) Dimension() int {
	return img.geom.Dimension()
}

// Geometry returns a copy of the image geometry.
func (img *VectorImage[T]) Geometry() Geometry {
	return img.geom.Clone()
}

// Region returns a copy of the region covered by the buffer.
func (img *VectorImage[T]) Region() Region {
	return img.geom.Region.Clone()
}

// Origin returns a copy of the physical origin.
func (img *VectorImage[T]) Origin() []float64 {
	return slices.Clone(img.geom.Origin)
}

// Spacing returns a copy of the physical spacing.
func (img *VectorImage[T]) Spacing() []float64 {
	return slices.Clone(img.geom.Spacing)
}

// Direction returns a copy of the row-major direction matrix.
func (img *VectorImage[T]) Direction() []float64 {
	return slices.Clone(img.geom.Direction)
}

// Width returns the number of pixels along axis 0.
func (img *VectorImage[T]) Width() int {
	return img.width
}

// Stride returns the number of elements per line (including padding).
func (img *VectorImage[T]) Stride() int {
	return img.stride
}

// NumberOfLines returns the number of axis-0 lines in the buffer.
func (img *VectorImage[T]) NumberOfLines() int {
	return img.lines
}

func (img *VectorImage[T]) offset(index []int) int {
	r := img.geom.Region
	if img.data == nil || !r.IsInside(index) {
		return -1
	}
	line, scale := 0, 1
	for d := 1; d < len(index); d++ {
		line += (index[d] - r.Index[d]) * scale
		scale *= r.Size[d]
	}
	return line*img.stride + (index[0]-r.Index[0])*img.components
}

// Pixel returns the C components of the pixel at index as a mutable view,
// or nil outside the image.
func (img *VectorImage[T]) Pixel(index []int) []T {
	off := img.offset(index)
	if off < 0 {
		return nil
	}
	return img.data[off : off+img.components : off+img.components]
}

// SetPixel copies up to C values into the pixel at index.
// Indices outside the image are ignored.
func (img *VectorImage[T]) SetPixel(index []int, value []T) {
	if p := img.Pixel(index); p != nil {
		copy(p, value)
	}
}

// Span returns the tuples of n consecutive pixels along axis 0 starting at
// start (n*C elements), or nil if the span does not fit inside the image.
func (img *VectorImage[T]) Span(start []int, n int) []T {
	off := img.offset(start)
	if off < 0 || n < 0 || start[0]+n > img.geom.Region.Index[0]+img.width {
		return nil
	}
	return img.data[off : off+n*img.components]
}

// Fill sets every component of every pixel to value.
func (img *VectorImage[T]) Fill(value T) {
	fill(img.data, value)
}

// Clone creates a deep copy of the image.
func (img *VectorImage[T]) Clone() *VectorImage[T] {
	return &VectorImage[T]{
		geom:       img.geom.Clone(),
		components: img.components,
		data:       slices.Clone(img.data),
		width:      img.width,
		stride:     img.stride,
		lines:      img.lines,
	}
}

// Component extracts component i into a new scalar image with the same
// geometry. It returns nil if i is outside [0, C).
func (img *VectorImage[T]) Component(i int) *Image[T] {
	if i < 0 || i >= img.components {
		return nil
	}
	out, err := NewWithGeometry[T](img.geom)
	if err != nil {
		return nil
	}
	if img.data == nil {
		return out
	}

	c := img.components
	for n := range img.lines {
		src := img.data[n*img.stride : n*img.stride+img.width*c]
		dst := out.RowSlice(n)
		simd.ProcessWithTail[T](img.width,
			func(offset int) {
				v := deinterleave(src[offset*c:], c, i)
				simd.Store(v, dst[offset:])
			},
			func(offset, count int) {
				v := deinterleave(src[offset*c:(offset+count)*c], c, i)
				simd.Store(v, dst[offset:offset+count])
			},
		)
	}
	return out
}

// deinterleave loads one vector of tuples from src and returns lane vector i.
func deinterleave[T simd.Lanes](src []T, c, i int) simd.Vec[T] {
	switch c {
	case 1:
		return simd.Load(src)
	case 2:
		a, b := simd.LoadInterleaved2(src)
		return [2]simd.Vec[T]{a, b}[i]
	case 3:
		a, b, d := simd.LoadInterleaved3(src)
		return [3]simd.Vec[T]{a, b, d}[i]
	case 4:
		a, b, d, e := simd.LoadInterleaved4(src)
		return [4]simd.Vec[T]{a, b, d, e}[i]
	default:
		return simd.LoadInterleavedN(src, c)[i]
	}
}

// String summarizes the image for logs and test failures.
func (img *VectorImage[T]) String() string {
	var zero T
	return fmt.Sprintf("VectorImage[%T x %d]%v", zero, img.components, img.geom.Region)
}
