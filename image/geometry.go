package image

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Tolerances used by Geometry.Compare, mirroring the defaults of the
// imaging frameworks that define physical image space.
const (
	// CoordinateTolerance is relative to the spacing along axis 0.
	CoordinateTolerance = 1e-6

	// DirectionTolerance is absolute, per direction cosine.
	DirectionTolerance = 1e-6
)

// ErrInvalidGeometry is returned when a Geometry is malformed.
var ErrInvalidGeometry = errors.New("image: invalid geometry")

// Geometry describes where an image lives: the index region it covers and
// the physical grid (origin, spacing, direction) that maps indices to space.
type Geometry struct {
	Region    Region
	Origin    []float64
	Spacing   []float64
	Direction []float64 // D*D, row-major
}

// NewGeometry returns a geometry over region with zero origin, unit spacing
// and identity direction.
func NewGeometry(region Region) Geometry {
	d := region.Dimension()
	g := Geometry{
		Region:    region.Clone(),
		Origin:    make([]float64, d),
		Spacing:   make([]float64, d),
		Direction: make([]float64, d*d),
	}
	for i := range d {
		g.Spacing[i] = 1
		g.Direction[i*d+i] = 1
	}
	return g
}

// Dimension returns the number of axes.
func (g Geometry) Dimension() int {
	return g.Region.Dimension()
}

// Validate checks that all metadata matches the region's dimension and that
// spacing is strictly positive.
func (g Geometry) Validate() error {
	if err := g.Region.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGeometry, err)
	}
	d := g.Dimension()
	if d == 0 {
		return fmt.Errorf("%w: zero dimension", ErrInvalidGeometry)
	}
	if len(g.Origin) != d {
		return fmt.Errorf("%w: origin has %d entries, want %d", ErrInvalidGeometry, len(g.Origin), d)
	}
	if len(g.Spacing) != d {
		return fmt.Errorf("%w: spacing has %d entries, want %d", ErrInvalidGeometry, len(g.Spacing), d)
	}
	for i, s := range g.Spacing {
		if !(s > 0) {
			return fmt.Errorf("%w: spacing[%d] = %g is not positive", ErrInvalidGeometry, i, s)
		}
	}
	if len(g.Direction) != d*d {
		return fmt.Errorf("%w: direction has %d entries, want %d", ErrInvalidGeometry, len(g.Direction), d*d)
	}
	return nil
}

// Clone returns a deep copy.
func (g Geometry) Clone() Geometry {
	return Geometry{
		Region:    g.Region.Clone(),
		Origin:    slices.Clone(g.Origin),
		Spacing:   slices.Clone(g.Spacing),
		Direction: slices.Clone(g.Direction),
	}
}

// CompareRegion returns an error describing the first difference in
// dimension or index region between g and other.
func (g Geometry) CompareRegion(other Geometry) error {
	if g.Dimension() != other.Dimension() {
		return fmt.Errorf("dimension %d differs from %d", other.Dimension(), g.Dimension())
	}
	if !g.Region.Equal(other.Region) {
		return fmt.Errorf("region %v differs from %v", other.Region, g.Region)
	}
	return nil
}

// Compare returns an error describing the first difference between g and
// other, or nil if both occupy the same physical space. Origin and spacing
// are compared within CoordinateTolerance*Spacing[0] of g, direction within
// DirectionTolerance.
func (g Geometry) Compare(other Geometry) error {
	if err := g.CompareRegion(other); err != nil {
		return err
	}
	coordTol := math.Abs(CoordinateTolerance * spacing0(g))
	if !closeTo(g.Origin, other.Origin, coordTol) {
		return fmt.Errorf("origin %v differs from %v", other.Origin, g.Origin)
	}
	if !closeTo(g.Spacing, other.Spacing, coordTol) {
		return fmt.Errorf("spacing %v differs from %v", other.Spacing, g.Spacing)
	}
	if !closeTo(g.Direction, other.Direction, DirectionTolerance) {
		return fmt.Errorf("direction %v differs from %v", other.Direction, g.Direction)
	}
	return nil
}

// Equal reports whether Compare finds no difference.
func (g Geometry) Equal(other Geometry) bool {
	return g.Compare(other) == nil
}

func spacing0(g Geometry) float64 {
	if len(g.Spacing) == 0 {
		return 1
	}
	return g.Spacing[0]
}

func closeTo(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
