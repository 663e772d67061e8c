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

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tbirdso/go-bsplinegradient/image"
	"github.com/tbirdso/go-bsplinegradient/simd"
)

// Filter composes up to C scalar images into one image of C-component
// tuples. C is fixed at construction.
//
// A Filter is not safe for concurrent configuration; only
// DynamicThreadedGenerateData may run concurrently, on disjoint regions.
type Filter[T simd.Lanes] struct {
	components int
	cfg        config
	inputs     []*image.Image[T]

	outGeom *image.Geometry
	output  *image.VectorImage[T]
	ready   bool

	// Set by BeforeThreadedGenerateData, read-only afterwards.
	sources  []*image.Image[T]
	zeroLine []T
}

// New creates a filter producing tuples of the given number of components.
func New[T simd.Lanes](components int, opts ...Option) (*Filter[T], error) {
	if components < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidComponentCount, components)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Filter[T]{
		components: components,
		cfg:        cfg,
		inputs:     make([]*image.Image[T], components),
	}, nil
}

// NumberOfComponents returns C.
func (f *Filter[T]) NumberOfComponents() int {
	return f.components
}

// NumberOfWorkUnits returns how many pieces Update splits the output into.
func (f *Filter[T]) NumberOfWorkUnits() int {
	if f.cfg.workUnits > 0 {
		return f.cfg.workUnits
	}
	if f.cfg.pool != nil {
		return f.cfg.pool.NumWorkers()
	}
	return 1
}

// SetNthInput sets input slot index. A nil img clears the slot.
// The image is read, never modified.
func (f *Filter[T]) SetNthInput(index int, img *image.Image[T]) error {
	if index < 0 || index >= f.components {
		return &IndexError{Index: index, Components: f.components}
	}
	f.inputs[index] = img
	return nil
}

// SetInput sets input slot 0.
func (f *Filter[T]) SetInput(img *image.Image[T]) error {
	return f.SetNthInput(0, img)
}

// NthInput returns input slot index, or nil if it is unset or out of range.
func (f *Filter[T]) NthInput(index int) *image.Image[T] {
	if index < 0 || index >= f.components {
		return nil
	}
	return f.inputs[index]
}

// Output returns the composed image, or nil until an update has completed
// successfully.
func (f *Filter[T]) Output() *image.VectorImage[T] {
	if !f.ready {
		return nil
	}
	return f.output
}

// GenerateOutputInformation verifies the inputs and derives the output
// geometry from input 0. It invalidates any previous output.
func (f *Filter[T]) GenerateOutputInformation() error {
	f.invalidate()

	primary := f.inputs[0]
	if primary == nil {
		return ErrMissingPrimaryInput
	}
	geom := primary.Geometry()
	for i, img := range f.inputs[1:] {
		if img == nil {
			continue
		}
		other := img.Geometry()
		var err error
		if f.cfg.geometryCheck == GeometryRegion {
			err = geom.CompareRegion(other)
		} else {
			err = geom.Compare(other)
		}
		if err != nil {
			return &GeometryError{Index: i + 1, Err: err}
		}
	}
	f.outGeom = &geom
	return nil
}

// AllocateOutputs allocates the output buffer over the output region and
// returns it. Its content is undefined until the compute phase has covered
// every pixel.
func (f *Filter[T]) AllocateOutputs() (*image.VectorImage[T], error) {
	if f.outGeom == nil {
		return nil, fmt.Errorf("%w: AllocateOutputs before GenerateOutputInformation", ErrPhaseOrder)
	}
	out, err := image.NewVectorImage[T](*f.outGeom, f.components)
	if err != nil {
		return nil, err
	}
	f.output = out
	f.ready = false
	return out, nil
}

// BeforeThreadedGenerateData runs once, single-threaded, before the compute
// phase. It snapshots the input slots and prepares the shared zero line
// that stands in for unset slots. It does not touch pixel data.
func (f *Filter[T]) BeforeThreadedGenerateData() error {
	if f.output == nil {
		return fmt.Errorf("%w: BeforeThreadedGenerateData before AllocateOutputs", ErrPhaseOrder)
	}
	f.sources = append(f.sources[:0], f.inputs...)
	f.zeroLine = nil
	if lo.Contains(f.sources, nil) {
		f.zeroLine = make([]T, f.output.Width())
	}
	return nil
}

// DynamicThreadedGenerateData fills region of the output: for every pixel p
// and component i it writes input i at p, or zero for an unset slot.
// The part of region outside the output is ignored.
//
// Calls on disjoint regions may run concurrently.
func (f *Filter[T]) DynamicThreadedGenerateData(region image.Region) {
	out := f.output
	if out == nil || f.sources == nil {
		return
	}
	region = region.Intersect(out.Region())
	if region.IsEmpty() {
		return
	}

	n := region.Size[0]
	srcs := make([][]T, f.components)
	region.ForEachLine(func(start []int) {
		for i, img := range f.sources {
			if img == nil {
				srcs[i] = f.zeroLine[:n]
				continue
			}
			srcs[i] = img.Span(start, n)
		}
		composeLine(out.Span(start, n), srcs, n)
	})
}

// AfterThreadedGenerateData runs once after the compute phase has covered
// the output region and publishes the output.
func (f *Filter[T]) AfterThreadedGenerateData() {
	f.sources = nil
	f.zeroLine = nil
	f.ready = f.output != nil
}

// Update runs every execution phase: it verifies the inputs, allocates the
// output, then fills it one work unit at a time on the configured pool.
// If ctx is done before every work unit has started, Update returns
// ctx.Err() and no output is published.
func (f *Filter[T]) Update(ctx context.Context) error {
	log := Logger().With(slog.String("run_id", uuid.NewString()))

	if err := f.GenerateOutputInformation(); err != nil {
		log.Debug("compose: update rejected", slog.Any("error", err))
		return err
	}
	out, err := f.AllocateOutputs()
	if err != nil {
		f.invalidate()
		return err
	}
	if err := f.BeforeThreadedGenerateData(); err != nil {
		f.invalidate()
		return err
	}

	region := out.Region()
	pieces := f.split(region)
	log.Debug("compose: update",
		slog.Int("components", f.components),
		slog.Int("inputs", lo.CountBy(f.sources, func(img *image.Image[T]) bool { return img != nil })),
		slog.String("region", region.String()),
		slog.Int("work_units", len(pieces)),
		slog.String("simd", simd.CurrentName()),
	)
	if missing := f.missingSlots(); len(missing) > 0 {
		log.Debug("compose: zero-filling unset inputs", slog.Any("slots", missing))
	}

	if err := f.run(ctx, pieces); err != nil {
		f.invalidate()
		log.Debug("compose: update canceled", slog.Any("error", err))
		return err
	}
	f.AfterThreadedGenerateData()
	return nil
}

func (f *Filter[T]) split(region image.Region) []image.Region {
	if f.cfg.pool == nil && f.cfg.workUnits <= 0 {
		return []image.Region{region}
	}
	if f.cfg.minParallelPixels > 0 && region.NumberOfPixels() < f.cfg.minParallelPixels {
		return []image.Region{region}
	}
	return region.Split(f.NumberOfWorkUnits())
}

func (f *Filter[T]) run(ctx context.Context, pieces []image.Region) error {
	if f.cfg.pool != nil && len(pieces) > 1 {
		return f.cfg.pool.Run(ctx, len(pieces), func(i int) {
			f.DynamicThreadedGenerateData(pieces[i])
		})
	}
	for _, piece := range pieces {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.DynamicThreadedGenerateData(piece)
	}
	return nil
}

func (f *Filter[T]) missingSlots() []int {
	return lo.FilterMap(f.sources, func(img *image.Image[T], i int) (int, bool) {
		return i, img == nil
	})
}

func (f *Filter[T]) invalidate() {
	f.outGeom = nil
	f.output = nil
	f.ready = false
	f.sources = nil
	f.zeroLine = nil
}
