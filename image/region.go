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
	"strings"

	"github.com/samber/lo"
)

// Region defines an axis-aligned index range.
// Pixel p is inside when Index[d] <= p[d] < Index[d]+Size[d] on every axis.
type Region struct {
	Index []int // first index on each axis (inclusive)
	Size  []int // number of pixels on each axis
}

// NewRegion creates a region from a start index and size.
// Both slices are copied.
func NewRegion(index, size []int) Region {
	return Region{Index: slices.Clone(index), Size: slices.Clone(size)}
}

// RegionFromSize creates a region of the given size starting at the origin
// index.
func RegionFromSize(size ...int) Region {
	return Region{Index: make([]int, len(size)), Size: slices.Clone(size)}
}

// Dimension returns the number of axes.
func (r Region) Dimension() int {
	return len(r.Size)
}

// Validate checks that index and size have the same dimension and that no
// size is negative.
func (r Region) Validate() error {
	if len(r.Index) != len(r.Size) {
		return fmt.Errorf("region index has dimension %d, size has dimension %d", len(r.Index), len(r.Size))
	}
	for d, s := range r.Size {
		if s < 0 {
			return fmt.Errorf("region size[%d] = %d is negative", d, s)
		}
	}
	return nil
}

// NumberOfPixels returns the product of the sizes, or 0 for a region with no
// axes.
func (r Region) NumberOfPixels() int {
	if len(r.Size) == 0 {
		return 0
	}
	return lo.Reduce(r.Size, func(agg, s, _ int) int { return agg * s }, 1)
}

// NumberOfLines returns the number of axis-0 lines in the region.
func (r Region) NumberOfLines() int {
	if r.IsEmpty() {
		return 0
	}
	return lo.Reduce(r.Size[1:], func(agg, s, _ int) int { return agg * s }, 1)
}

// IsEmpty returns true if the region has no axes or a non-positive size.
func (r Region) IsEmpty() bool {
	if len(r.Size) == 0 {
		return true
	}
	return slices.ContainsFunc(r.Size, func(s int) bool { return s <= 0 })
}

// IsInside reports whether index lies within the region.
func (r Region) IsInside(index []int) bool {
	if len(index) != len(r.Size) || r.IsEmpty() {
		return false
	}
	for d, p := range index {
		if p < r.Index[d] || p >= r.Index[d]+r.Size[d] {
			return false
		}
	}
	return true
}

// Contains reports whether other lies entirely within r.
// An empty other is contained in any region of the same dimension.
func (r Region) Contains(other Region) bool {
	if other.Dimension() != r.Dimension() {
		return false
	}
	if other.IsEmpty() {
		return true
	}
	for d := range r.Size {
		if other.Index[d] < r.Index[d] || other.Index[d]+other.Size[d] > r.Index[d]+r.Size[d] {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of two regions of equal dimension.
// Disjoint regions yield a region with a zero size on some axis.
func (r Region) Intersect(other Region) Region {
	d := min(r.Dimension(), other.Dimension())
	out := Region{Index: make([]int, d), Size: make([]int, d)}
	for i := range d {
		low := max(r.Index[i], other.Index[i])
		high := min(r.Index[i]+r.Size[i], other.Index[i]+other.Size[i])
		out.Index[i] = low
		out.Size[i] = max(high-low, 0)
	}
	return out
}

// Equal reports whether both regions have the same index and size.
func (r Region) Equal(other Region) bool {
	return slices.Equal(r.Index, other.Index) && slices.Equal(r.Size, other.Size)
}

// Clone returns a deep copy.
func (r Region) Clone() Region {
	return NewRegion(r.Index, r.Size)
}

// String formats the region as "[index=(0,0) size=(4,4)]".
func (r Region) String() string {
	join := func(v []int) string {
		return strings.Join(lo.Map(v, func(x, _ int) string { return fmt.Sprint(x) }), ",")
	}
	return fmt.Sprintf("[index=(%s) size=(%s)]", join(r.Index), join(r.Size))
}

// Split divides the region into at most n disjoint pieces that together
// cover it exactly. The cut is made along the slowest varying axis whose
// size exceeds one, so every piece remains a set of whole lines.
//
// n <= 1, an empty region, or a single-pixel region returns the region
// itself.
func (r Region) Split(n int) []Region {
	if n <= 1 || r.IsEmpty() {
		return []Region{r.Clone()}
	}

	axis := -1
	for d := r.Dimension() - 1; d >= 0; d-- {
		if r.Size[d] > 1 {
			axis = d
			break
		}
	}
	if axis < 0 {
		return []Region{r.Clone()}
	}

	size := r.Size[axis]
	perPiece := (size + n - 1) / n
	pieces := (size + perPiece - 1) / perPiece

	out := make([]Region, 0, pieces)
	for i := range pieces {
		piece := r.Clone()
		piece.Index[axis] = r.Index[axis] + i*perPiece
		piece.Size[axis] = min(perPiece, size-i*perPiece)
		out = append(out, piece)
	}
	return out
}

// ForEachLine calls fn with the start index of every axis-0 line in the
// region, in memory order. start[0] is always Index[0]. The start slice is
// reused between calls; fn must not modify or retain it.
func (r Region) ForEachLine(fn func(start []int)) {
	if r.IsEmpty() {
		return
	}
	d := r.Dimension()
	idx := slices.Clone(r.Index)
	for {
		fn(idx)

		axis := 1
		for ; axis < d; axis++ {
			idx[axis]++
			if idx[axis] < r.Index[axis]+r.Size[axis] {
				break
			}
			idx[axis] = r.Index[axis]
		}
		if axis >= d {
			return
		}
	}
}
