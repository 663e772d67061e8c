package compose

import (
	"fmt"
	"strings"

	"github.com/tbirdso/go-bsplinegradient/workerpool"
)

// MinParallelPixels is the default output size, in pixels, below which
// Update runs the compute phase on the calling goroutine even when a pool
// is configured.
const MinParallelPixels = 16384

// GeometryCheck selects how strictly inputs are compared with input 0.
type GeometryCheck int

const (
	// GeometryPhysical requires the same index region, origin, spacing and
	// direction (within tolerance) as input 0.
	GeometryPhysical GeometryCheck = iota
	// GeometryRegion requires only the same dimension and index region.
	GeometryRegion
)

func (g GeometryCheck) String() string {
	switch g {
	case GeometryPhysical:
		return "physical"
	case GeometryRegion:
		return "region"
	default:
		return fmt.Sprintf("GeometryCheck(%d)", int(g))
	}
}

// ParseGeometryCheck parses "physical" or "region".
func ParseGeometryCheck(s string) (GeometryCheck, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical", "":
		return GeometryPhysical, nil
	case "region":
		return GeometryRegion, nil
	default:
		return 0, fmt.Errorf("compose: unknown geometry check %q (want physical or region)", s)
	}
}

type config struct {
	pool              *workerpool.Pool
	workUnits         int
	geometryCheck     GeometryCheck
	minParallelPixels int
}

func defaultConfig() config {
	return config{
		geometryCheck:     GeometryPhysical,
		minParallelPixels: MinParallelPixels,
	}
}

// Option configures a Filter.
type Option func(*config)

// WithPool runs the compute phase on pool. The pool is not closed by the
// filter. Without a pool every work unit runs on the calling goroutine.
func WithPool(pool *workerpool.Pool) Option {
	return func(c *config) {
		c.pool = pool
	}
}

// WithWorkUnits sets how many pieces the output region is split into.
// n <= 0 selects the pool's worker count (1 without a pool).
func WithWorkUnits(n int) Option {
	return func(c *config) {
		c.workUnits = n
	}
}

// WithGeometryCheck selects how inputs are verified against input 0.
func WithGeometryCheck(check GeometryCheck) Option {
	return func(c *config) {
		c.geometryCheck = check
	}
}

// WithMinParallelPixels sets the output size below which the compute phase
// runs on the calling goroutine. n <= 0 always uses the pool.
func WithMinParallelPixels(n int) Option {
	return func(c *config) {
		c.minParallelPixels = n
	}
}
