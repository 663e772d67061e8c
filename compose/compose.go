package compose

import (
	"context"

	"github.com/tbirdso/go-bsplinegradient/image"
	"github.com/tbirdso/go-bsplinegradient/simd"
)

// ComposeVectorImage composes inputs into a tuple image with the given
// number of components. inputs[i] feeds component i; a nil entry, or an
// entry beyond len(inputs), is zero-filled. inputs[0] is required.
func ComposeVectorImage[T simd.Lanes](inputs []*image.Image[T], components int, opts ...Option) (*image.VectorImage[T], error) {
	return ComposeVectorImageContext(context.Background(), inputs, components, opts...)
}

// ComposeVectorImageContext is like ComposeVectorImage but stops early
// when ctx is done.
func ComposeVectorImageContext[T simd.Lanes](ctx context.Context, inputs []*image.Image[T], components int, opts ...Option) (*image.VectorImage[T], error) {
	f, err := New[T](components, opts...)
	if err != nil {
		return nil, err
	}
	for i, img := range inputs {
		if err := f.SetNthInput(i, img); err != nil {
			return nil, err
		}
	}
	if err := f.Update(ctx); err != nil {
		return nil, err
	}
	return f.Output(), nil
}
