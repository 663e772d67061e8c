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

// Image is a scalar N-dimensional image with SIMD-aligned lines.
// Each line is padded to a multiple of the SIMD vector width,
// enabling vectorized processing without per-element bounds checks.
type Image[T simd.Lanes] struct {
	geom   Geometry
	data   []T
	width  int // pixels per line
	stride int // elements per line (includes padding)
	lines  int
}

// NewImage creates an image of the given size with index origin at zero,
// zero physical origin, unit spacing and identity direction.
// A non-positive size on any axis yields an empty image.
func NewImage[T simd.Lanes](size ...int) *Image[T] {
	img, err := NewWithGeometry[T](NewGeometry(RegionFromSize(size...)))
	if err != nil {
		return &Image[T]{geom: NewGeometry(RegionFromSize(make([]int, len(size))...))}
	}
	return img
}

// NewWithGeometry allocates a zeroed image over g.Region carrying g's
// physical metadata.
func NewWithGeometry[T simd.Lanes](g Geometry) (*Image[T], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	img := &Image[T]{geom: g.Clone()}
	if g.Region.IsEmpty() {
		return img, nil
	}
	img.width = g.Region.Size[0]
	img.stride = simd.AlignedSize[T](img.width)
	img.lines = g.Region.NumberOfLines()
	img.data = make([]T, img.stride*img.lines)
	return img, nil
}

// Dimension returns the number of axes.
func (img *Image[T]) Dimension() int {
	return img.geom.Dimension()
}

// Geometry returns a copy of the image geometry.
func (img *Image[T]) Geometry() Geometry {
	return img.geom.Clone()
}

// Region returns a copy of the region covered by the buffer.
func (img *Image[T]) Region() Region {
	return img.geom.Region.Clone()
}

// Origin returns a copy of the physical origin.
func (img *Image[T]) Origin() []float64 {
	return slices.Clone(img.geom.Origin)
}

// Spacing returns a copy of the physical spacing.
func (img *Image[T]) Spacing() []float64 {
	return slices.Clone(img.geom.Spacing)
}

// Direction returns a copy of the row-major direction matrix.
func (img *Image[T]) Direction() []float64 {
	return slices.Clone(img.geom.Direction)
}

// SetOrigin sets the physical origin.
func (img *Image[T]) SetOrigin(origin ...float64) error {
	g := img.geom.Clone()
	g.Origin = slices.Clone(origin)
	return img.setGeometry(g)
}

// SetSpacing sets the physical spacing; every entry must be positive.
func (img *Image[T]) SetSpacing(spacing ...float64) error {
	g := img.geom.Clone()
	g.Spacing = slices.Clone(spacing)
	return img.setGeometry(g)
}

// SetDirection sets the D*D row-major direction matrix.
func (img *Image[T]) SetDirection(direction []float64) error {
	g := img.geom.Clone()
	g.Direction = slices.Clone(direction)
	return img.setGeometry(g)
}

func (img *Image[T]) setGeometry(g Geometry) error {
	if err := g.Validate(); err != nil {
		return err
	}
	img.geom = g
	return nil
}

// Width returns the number of pixels along axis 0.
func (img *Image[T]) Width() int {
	return img.width
}

// Stride returns the number of elements per line (including padding).
func (img *Image[T]) Stride() int {
	return img.stride
}

// NumberOfLines returns the number of axis-0 lines in the buffer.
func (img *Image[T]) NumberOfLines() int {
	return img.lines
}

// IsEmpty reports whether the image holds no pixels.
func (img *Image[T]) IsEmpty() bool {
	return img.data == nil
}

// Row returns a mutable slice for line n, including padding elements beyond
// the image width. Padding can be read and written but is not part of the
// image.
func (img *Image[T]) Row(n int) []T {
	if n < 0 || n >= img.lines || img.data == nil {
		return nil
	}
	start := n * img.stride
	return img.data[start : start+img.stride]
}

// RowSlice returns line n limited to the image width.
func (img *Image[T]) RowSlice(n int) []T {
	if n < 0 || n >= img.lines || img.data == nil {
		return nil
	}
	start := n * img.stride
	return img.data[start : start+img.width]
}

// LineNumber returns the line holding index, or -1 when index is outside the
// image. index[0] is checked but does not affect the result.
func (img *Image[T]) LineNumber(index []int) int {
	r := img.geom.Region
	if img.data == nil || !r.IsInside(index) {
		return -1
	}
	line, scale := 0, 1
	for d := 1; d < len(index); d++ {
		line += (index[d] - r.Index[d]) * scale
		scale *= r.Size[d]
	}
	return line
}

func (img *Image[T]) offset(index []int) int {
	line := img.LineNumber(index)
	if line < 0 {
		return -1
	}
	return line*img.stride + index[0] - img.geom.Region.Index[0]
}

// Span returns n consecutive pixels along axis 0 starting at start, or nil
// if the span does not fit inside the image.
func (img *Image[T]) Span(start []int, n int) []T {
	off := img.offset(start)
	if off < 0 || n < 0 || start[0]+n > img.geom.Region.Index[0]+img.width {
		return nil
	}
	return img.data[off : off+n]
}

// At returns the value at index, or zero outside the image.
func (img *Image[T]) At(index []int) T {
	off := img.offset(index)
	if off < 0 {
		var zero T
		return zero
	}
	return img.data[off]
}

// Set sets the value at index. Indices outside the image are ignored.
func (img *Image[T]) Set(index []int, value T) {
	if off := img.offset(index); off >= 0 {
		img.data[off] = value
	}
}

// SameRegion returns true if both images cover the same index region.
func SameRegion[T, U simd.Lanes](a *Image[T], b *Image[U]) bool {
	return a.geom.Region.Equal(b.geom.Region)
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	return &Image[T]{
		geom:   img.geom.Clone(),
		data:   slices.Clone(img.data),
		width:  img.width,
		stride: img.stride,
		lines:  img.lines,
	}
}

// Clear sets all pixels to zero.
func (img *Image[T]) Clear() {
	clear(img.data)
}

// Fill sets all pixels to value.
func (img *Image[T]) Fill(value T) {
	fill(img.data, value)
}

// String summarizes the image for logs and test failures.
func (img *Image[T]) String() string {
	var zero T
	return fmt.Sprintf("Image[%T]%v", zero, img.geom.Region)
}

// fill doubles the filled prefix on each pass so the work is done by
// O(log n) calls to copy.
func fill[T simd.Lanes](dst []T, value T) {
	if len(dst) == 0 {
		return
	}
	dst[0] = value
	for filled := 1; filled < len(dst); filled *= 2 {
		copy(dst[filled:], dst[:filled])
	}
}
