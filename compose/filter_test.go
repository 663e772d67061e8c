package compose

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbirdso/go-bsplinegradient/image"
	"github.com/tbirdso/go-bsplinegradient/workerpool"
)

// ramp returns an image over region whose pixel values are
// base + the pixel's position in memory order.
func ramp(t testing.TB, region image.Region, base float32) *image.Image[float32] {
	t.Helper()
	img, err := image.NewWithGeometry[float32](image.NewGeometry(region))
	require.NoError(t, err)
	next := base
	region.ForEachLine(func(start []int) {
		idx := slices.Clone(start)
		for x := range region.Size[0] {
			idx[0] = start[0] + x
			img.Set(idx, next)
			next++
		}
	})
	return img
}

// forEachPixel calls fn with the index of every pixel in region.
func forEachPixel(region image.Region, fn func(idx []int)) {
	region.ForEachLine(func(start []int) {
		idx := slices.Clone(start)
		for x := range region.Size[0] {
			idx[0] = start[0] + x
			fn(idx)
		}
	})
}

func TestNew(t *testing.T) {
	f, err := New[float32](3)
	require.NoError(t, err)
	assert.Equal(t, 3, f.NumberOfComponents())
	assert.Equal(t, 1, f.NumberOfWorkUnits())
	assert.Nil(t, f.Output())

	for _, c := range []int{0, -1} {
		_, err := New[float32](c)
		assert.ErrorIs(t, err, ErrInvalidComponentCount, "components=%d", c)
	}
}

func TestFilter_SetNthInput(t *testing.T) {
	f, err := New[float32](2)
	require.NoError(t, err)
	img := image.NewImage[float32](4, 4)

	require.NoError(t, f.SetInput(img))
	assert.Same(t, img, f.NthInput(0))
	require.NoError(t, f.SetNthInput(1, img))
	assert.Same(t, img, f.NthInput(1))
	require.NoError(t, f.SetNthInput(1, nil))
	assert.Nil(t, f.NthInput(1))

	for _, idx := range []int{2, 5, -1} {
		err := f.SetNthInput(idx, img)
		require.ErrorIs(t, err, ErrIndexOutOfRange, "index=%d", idx)
		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, idx, ie.Index)
		assert.Equal(t, 2, ie.Components)
		assert.Nil(t, f.NthInput(idx))
	}
}

func TestFilter_TwoComponentScenario(t *testing.T) {
	a := image.NewImage[float32](4, 4)
	a.Fill(1.1)
	b := image.NewImage[float32](4, 4)
	b.Fill(2.2)

	f, err := New[float32](2)
	require.NoError(t, err)
	require.NoError(t, f.SetNthInput(0, a))
	require.NoError(t, f.SetNthInput(1, b))
	require.NoError(t, f.Update(context.Background()))

	out := f.Output()
	require.NotNil(t, out)
	assert.Equal(t, 2, out.Components())
	assert.True(t, out.Region().Equal(a.Region()))
	forEachPixel(out.Region(), func(idx []int) {
		assert.Equal(t, []float32{1.1, 2.2}, out.Pixel(idx), "pixel %v", idx)
	})
}

func TestFilter_ZeroFillScenario(t *testing.T) {
	a := image.NewImage[float32](4, 4)
	a.Fill(5)
	c := image.NewImage[float32](4, 4)
	c.Fill(9)

	f, err := New[float32](3)
	require.NoError(t, err)
	require.NoError(t, f.SetNthInput(0, a))
	require.NoError(t, f.SetNthInput(2, c))
	require.NoError(t, f.Update(context.Background()))

	out := f.Output()
	require.NotNil(t, out)
	assert.Equal(t, 3, out.Components())
	forEachPixel(out.Region(), func(idx []int) {
		assert.Equal(t, []float32{5, 0, 9}, out.Pixel(idx), "pixel %v", idx)
	})
}

func TestFilter_Update(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	tests := []struct {
		name       string
		region     image.Region
		components int
		unset      []int
		opts       []Option
	}{
		{"1D single component", image.RegionFromSize(37), 1, nil, nil},
		{"2D pair", image.RegionFromSize(13, 7), 2, nil, nil},
		{"2D triple offset index", image.NewRegion([]int{3, -2}, []int{11, 5}), 3, nil, nil},
		{"3D quad", image.RegionFromSize(9, 4, 3), 4, nil, nil},
		{"3D five with gaps", image.RegionFromSize(17, 3, 2), 5, []int{1, 3}, nil},
		{"2D six", image.RegionFromSize(33, 3), 6, []int{5}, nil},
		{"pool forced split", image.RegionFromSize(19, 23), 3, []int{2},
			[]Option{WithPool(pool), WithMinParallelPixels(0)}},
		{"pool more units than lines", image.RegionFromSize(5, 2, 2), 2, nil,
			[]Option{WithPool(pool), WithWorkUnits(16), WithMinParallelPixels(0)}},
		{"work units without pool", image.RegionFromSize(8, 9), 4, []int{1, 2, 3},
			[]Option{WithWorkUnits(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New[float32](tt.components, tt.opts...)
			require.NoError(t, err)
			inputs := make([]*image.Image[float32], tt.components)
			for i := range inputs {
				if slices.Contains(tt.unset, i) {
					continue
				}
				inputs[i] = ramp(t, tt.region, float32(1000*(i+1)))
				require.NoError(t, f.SetNthInput(i, inputs[i]))
			}

			require.NoError(t, f.Update(context.Background()))
			out := f.Output()
			require.NotNil(t, out)
			assert.Equal(t, tt.components, out.Components())
			assert.True(t, out.Region().Equal(tt.region), "region %v, want %v", out.Region(), tt.region)
			assert.NoError(t, out.Geometry().Compare(inputs[0].Geometry()))

			forEachPixel(tt.region, func(idx []int) {
				p := out.Pixel(idx)
				require.Len(t, p, tt.components)
				for i, img := range inputs {
					var want float32
					if img != nil {
						want = img.At(idx)
					}
					if p[i] != want {
						t.Fatalf("pixel %v component %d = %v, want %v", idx, i, p[i], want)
					}
				}
			})
		})
	}
}

func TestFilter_CopiesPhysicalMetadata(t *testing.T) {
	g := image.NewGeometry(image.NewRegion([]int{2, 4}, []int{6, 3}))
	g.Origin = []float64{-1.5, 20}
	g.Spacing = []float64{0.5, 2}
	g.Direction = []float64{0, 1, 1, 0}
	a, err := image.NewWithGeometry[int16](g)
	require.NoError(t, err)
	b, err := image.NewWithGeometry[int16](g)
	require.NoError(t, err)

	out, err := ComposeVectorImage([]*image.Image[int16]{a, b}, 2)
	require.NoError(t, err)
	assert.True(t, out.Geometry().Equal(g))
	assert.Equal(t, g.Origin, out.Origin())
	assert.Equal(t, g.Spacing, out.Spacing())
	assert.Equal(t, g.Direction, out.Direction())
}

func TestFilter_MissingPrimaryInput(t *testing.T) {
	f, err := New[float32](2)
	require.NoError(t, err)
	require.NoError(t, f.SetNthInput(1, image.NewImage[float32](4, 4)))

	err = f.Update(context.Background())
	require.ErrorIs(t, err, ErrMissingPrimaryInput)
	assert.Nil(t, f.Output())
}

func TestFilter_GeometryMismatch(t *testing.T) {
	shifted := func() *image.Image[float32] {
		img := image.NewImage[float32](4, 4)
		require.NoError(t, img.SetOrigin(10, 0))
		return img
	}

	tests := []struct {
		name    string
		other   *image.Image[float32]
		check   GeometryCheck
		wantErr bool
	}{
		{"same geometry", image.NewImage[float32](4, 4), GeometryPhysical, false},
		{"different size", image.NewImage[float32](4, 5), GeometryPhysical, true},
		{"different size region check", image.NewImage[float32](5, 4), GeometryRegion, true},
		{"different dimension", image.NewImage[float32](4, 4, 1), GeometryRegion, true},
		{"different origin", shifted(), GeometryPhysical, true},
		{"different origin region check", shifted(), GeometryRegion, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New[float32](3, WithGeometryCheck(tt.check))
			require.NoError(t, err)
			require.NoError(t, f.SetNthInput(0, image.NewImage[float32](4, 4)))
			require.NoError(t, f.SetNthInput(2, tt.other))

			err = f.Update(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, f.Output())
				return
			}
			require.ErrorIs(t, err, ErrGeometryMismatch)
			var ge *GeometryError
			require.True(t, errors.As(err, &ge))
			assert.Equal(t, 2, ge.Index)
			assert.Nil(t, f.Output())
		})
	}
}

func TestFilter_FailedUpdateDropsPreviousOutput(t *testing.T) {
	f, err := New[float32](2)
	require.NoError(t, err)
	require.NoError(t, f.SetInput(image.NewImage[float32](4, 4)))
	require.NoError(t, f.Update(context.Background()))
	require.NotNil(t, f.Output())

	require.NoError(t, f.SetNthInput(1, image.NewImage[float32](3, 3)))
	require.ErrorIs(t, f.Update(context.Background()), ErrGeometryMismatch)
	assert.Nil(t, f.Output())
}

func TestFilter_PhaseOrder(t *testing.T) {
	f, err := New[float32](2)
	require.NoError(t, err)
	require.NoError(t, f.SetInput(image.NewImage[float32](4, 4)))

	_, err = f.AllocateOutputs()
	assert.ErrorIs(t, err, ErrPhaseOrder)
	assert.ErrorIs(t, f.BeforeThreadedGenerateData(), ErrPhaseOrder)

	// Without the earlier phases the compute phase does nothing.
	f.DynamicThreadedGenerateData(image.RegionFromSize(4, 4))
	assert.Nil(t, f.Output())
}

func TestFilter_ManualPhasesCoverEveryPixel(t *testing.T) {
	const sentinel = float32(-12345)
	region := image.RegionFromSize(21, 6, 3)

	for _, units := range []int{1, 2, 3, 7, 100} {
		f, err := New[float32](3)
		require.NoError(t, err)
		a := ramp(t, region, 1)
		b := ramp(t, region, 500)
		require.NoError(t, f.SetNthInput(0, a))
		require.NoError(t, f.SetNthInput(1, b))

		require.NoError(t, f.GenerateOutputInformation())
		out, err := f.AllocateOutputs()
		require.NoError(t, err)
		out.Fill(sentinel)
		require.NoError(t, f.BeforeThreadedGenerateData())
		assert.Nil(t, f.Output(), "output must not be published before the compute phase")

		for _, piece := range region.Split(units) {
			f.DynamicThreadedGenerateData(piece)
		}
		f.AfterThreadedGenerateData()
		require.Same(t, out, f.Output())

		forEachPixel(region, func(idx []int) {
			want := []float32{a.At(idx), b.At(idx), 0}
			if got := out.Pixel(idx); !slices.Equal(got, want) {
				t.Fatalf("units=%d pixel %v = %v, want %v", units, idx, got, want)
			}
		})
	}
}

func TestFilter_PartitionIndependence(t *testing.T) {
	region := image.RegionFromSize(29, 11, 4)
	inputs := []*image.Image[float32]{ramp(t, region, 0), nil, ramp(t, region, 7000), ramp(t, region, -300)}

	reference, err := ComposeVectorImage(inputs, 4)
	require.NoError(t, err)

	pool := workerpool.New(3)
	defer pool.Close()
	for _, units := range []int{2, 3, 4, 5, 11, 44, 1000} {
		out, err := ComposeVectorImage(inputs, 4,
			WithPool(pool), WithWorkUnits(units), WithMinParallelPixels(0))
		require.NoError(t, err)
		forEachPixel(region, func(idx []int) {
			if got, want := out.Pixel(idx), reference.Pixel(idx); !slices.Equal(got, want) {
				t.Fatalf("units=%d pixel %v = %v, want %v", units, idx, got, want)
			}
		})
	}
}

func TestFilter_PartialRegion(t *testing.T) {
	region := image.RegionFromSize(8, 8)
	f, err := New[float32](2)
	require.NoError(t, err)
	a := ramp(t, region, 1)
	require.NoError(t, f.SetInput(a))

	require.NoError(t, f.GenerateOutputInformation())
	out, err := f.AllocateOutputs()
	require.NoError(t, err)
	out.Fill(-1)
	require.NoError(t, f.BeforeThreadedGenerateData())

	// Extends past the output; only the overlap is written.
	f.DynamicThreadedGenerateData(image.NewRegion([]int{4, 6}, []int{10, 10}))

	forEachPixel(region, func(idx []int) {
		inside := idx[0] >= 4 && idx[1] >= 6
		want := []float32{-1, -1}
		if inside {
			want = []float32{a.At(idx), 0}
		}
		assert.Equal(t, want, out.Pixel(idx), "pixel %v", idx)
	})
}

func TestFilter_Cancel(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	for _, opts := range [][]Option{
		nil,
		{WithPool(pool), WithMinParallelPixels(0)},
	} {
		f, err := New[float32](2, opts...)
		require.NoError(t, err)
		require.NoError(t, f.SetInput(image.NewImage[float32](16, 16)))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, f.Update(ctx), context.Canceled)
		assert.Nil(t, f.Output())
	}
}

func TestFilter_EmptyRegion(t *testing.T) {
	g := image.NewGeometry(image.RegionFromSize(0, 4))
	a, err := image.NewWithGeometry[float32](g)
	require.NoError(t, err)

	out, err := ComposeVectorImage([]*image.Image[float32]{a}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Region().NumberOfPixels())
	assert.Equal(t, 3, out.Components())
}

func TestFilter_IntegerTypes(t *testing.T) {
	region := image.RegionFromSize(70, 2)
	a, err := image.NewWithGeometry[uint8](image.NewGeometry(region))
	require.NoError(t, err)
	b, err := image.NewWithGeometry[uint8](image.NewGeometry(region))
	require.NoError(t, err)
	a.Fill(3)
	b.Fill(250)

	out, err := ComposeVectorImage([]*image.Image[uint8]{a, b, nil}, 3)
	require.NoError(t, err)
	forEachPixel(region, func(idx []int) {
		assert.Equal(t, []uint8{3, 250, 0}, out.Pixel(idx))
	})
}

func TestComposeVectorImage_Errors(t *testing.T) {
	img := image.NewImage[float32](2, 2)

	_, err := ComposeVectorImage([]*image.Image[float32]{img}, 0)
	assert.ErrorIs(t, err, ErrInvalidComponentCount)

	_, err = ComposeVectorImage([]*image.Image[float32]{img, img, img}, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = ComposeVectorImage([]*image.Image[float32]{nil, img}, 2)
	assert.ErrorIs(t, err, ErrMissingPrimaryInput)
}

func BenchmarkFilter_Update(b *testing.B) {
	region := image.RegionFromSize(512, 512)
	pool := workerpool.New(0)
	defer pool.Close()

	for _, c := range []int{2, 3, 4, 6} {
		inputs := make([]*image.Image[float32], c)
		for i := range inputs {
			inputs[i] = ramp(b, region, float32(i))
		}
		for _, tc := range []struct {
			name string
			opts []Option
		}{
			{"serial", nil},
			{"pool", []Option{WithPool(pool)}},
		} {
			f, err := New[float32](c, tc.opts...)
			require.NoError(b, err)
			for i, img := range inputs {
				require.NoError(b, f.SetNthInput(i, img))
			}
			b.Run(fmt.Sprintf("%s/C=%d", tc.name, c), func(b *testing.B) {
				b.SetBytes(int64(region.NumberOfPixels() * c * 4))
				for b.Loop() {
					if err := f.Update(context.Background()); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
