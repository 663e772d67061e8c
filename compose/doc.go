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

// Package compose builds vector-valued images from scalar images.
//
// A Filter takes C scalar images of identical geometry and produces one
// image whose pixels are C-component tuples: component i of every output
// pixel is the same pixel of input i. Unset inputs (other than input 0)
// contribute zeros.
//
// # Usage
//
//	f, err := compose.New[float32](2, compose.WithPool(pool))
//	if err != nil {
//	    return err
//	}
//	f.SetNthInput(0, gradX)
//	f.SetNthInput(1, gradY)
//	if err := f.Update(ctx); err != nil {
//	    return err
//	}
//	out := f.Output() // *image.VectorImage[float32]
//
// or, in one call:
//
//	out, err := compose.ComposeVectorImage([]*image.Image[float32]{gradX, gradY}, 2)
//
// # Execution
//
// Update runs GenerateOutputInformation, AllocateOutputs and
// BeforeThreadedGenerateData once, splits the output region into disjoint
// work units and calls DynamicThreadedGenerateData once per unit on the
// configured worker pool, then AfterThreadedGenerateData. The phases are
// exported so callers can drive their own partitioning.
package compose
