package simd

// This file provides the tuple (interleaved) memory operations used to move
// between per-component planes (Structure-of-Arrays) and tuple pixels
// (Array-of-Structures).

// LoadInterleaved2 loads interleaved pairs and deinterleaves into two vectors.
//
// Input memory layout:
//
//	[a0, b0, a1, b1, a2, b2, ...]
//
// Output vectors:
//
//	vec_a = [a0, a1, a2, ...]
//	vec_b = [b0, b1, b2, ...]
//
// Lanes past the end of src are zero.
func LoadInterleaved2[T Lanes](src []T) (Vec[T], Vec[T]) {
	n := MaxLanes[T]()
	a := make([]T, n)
	b := make([]T, n)

	srcIdx := 0
	for i := 0; i < n && srcIdx+1 < len(src); i++ {
		a[i] = src[srcIdx]
		b[i] = src[srcIdx+1]
		srcIdx += 2
	}
	return Vec[T]{data: a}, Vec[T]{data: b}
}

// LoadInterleaved3 loads interleaved triples and deinterleaves into three
// vectors. This is the layout of three-component tuple pixels.
func LoadInterleaved3[T Lanes](src []T) (Vec[T], Vec[T], Vec[T]) {
	n := MaxLanes[T]()
	a := make([]T, n)
	b := make([]T, n)
	c := make([]T, n)

	srcIdx := 0
	for i := 0; i < n && srcIdx+2 < len(src); i++ {
		a[i] = src[srcIdx]
		b[i] = src[srcIdx+1]
		c[i] = src[srcIdx+2]
		srcIdx += 3
	}
	return Vec[T]{data: a}, Vec[T]{data: b}, Vec[T]{data: c}
}

// LoadInterleaved4 loads interleaved quads and deinterleaves into four vectors.
func LoadInterleaved4[T Lanes](src []T) (Vec[T], Vec[T], Vec[T], Vec[T]) {
	n := MaxLanes[T]()
	a := make([]T, n)
	b := make([]T, n)
	c := make([]T, n)
	d := make([]T, n)

	srcIdx := 0
	for i := 0; i < n && srcIdx+3 < len(src); i++ {
		a[i] = src[srcIdx]
		b[i] = src[srcIdx+1]
		c[i] = src[srcIdx+2]
		d[i] = src[srcIdx+3]
		srcIdx += 4
	}
	return Vec[T]{data: a}, Vec[T]{data: b}, Vec[T]{data: c}, Vec[T]{data: d}
}

// LoadInterleavedN deinterleaves tuples of k components from src into k
// vectors. Component j of tuple i lands in lane i of vector j.
func LoadInterleavedN[T Lanes](src []T, k int) []Vec[T] {
	if k <= 0 {
		return nil
	}
	n := MaxLanes[T]()
	out := make([]Vec[T], k)
	for j := range out {
		out[j] = Vec[T]{data: make([]T, n)}
	}

	srcIdx := 0
	for i := 0; i < n && srcIdx+k-1 < len(src); i++ {
		for j := range k {
			out[j].data[i] = src[srcIdx+j]
		}
		srcIdx += k
	}
	return out
}

// StoreInterleaved2 stores two vectors interleaved to dst.
//
// Input vectors:
//
//	vec_a = [a0, a1, a2, ...]
//	vec_b = [b0, b1, b2, ...]
//
// Output memory layout:
//
//	[a0, b0, a1, b1, a2, b2, ...]
//
// Only whole pairs that fit in dst are written.
func StoreInterleaved2[T Lanes](a, b Vec[T], dst []T) {
	n := min(len(a.data), len(b.data))

	dstIdx := 0
	for i := 0; i < n && dstIdx+1 < len(dst); i++ {
		dst[dstIdx] = a.data[i]
		dst[dstIdx+1] = b.data[i]
		dstIdx += 2
	}
}

// StoreInterleaved3 stores three vectors interleaved to dst.
// This is the inverse of LoadInterleaved3.
func StoreInterleaved3[T Lanes](a, b, c Vec[T], dst []T) {
	n := min(len(a.data), len(b.data), len(c.data))

	dstIdx := 0
	for i := 0; i < n && dstIdx+2 < len(dst); i++ {
		dst[dstIdx] = a.data[i]
		dst[dstIdx+1] = b.data[i]
		dst[dstIdx+2] = c.data[i]
		dstIdx += 3
	}
}

// StoreInterleaved4 stores four vectors interleaved to dst.
// This is the inverse of LoadInterleaved4.
func StoreInterleaved4[T Lanes](a, b, c, d Vec[T], dst []T) {
	n := min(len(a.data), len(b.data), len(c.data), len(d.data))

	dstIdx := 0
	for i := 0; i < n && dstIdx+3 < len(dst); i++ {
		dst[dstIdx] = a.data[i]
		dst[dstIdx+1] = b.data[i]
		dst[dstIdx+2] = c.data[i]
		dst[dstIdx+3] = d.data[i]
		dstIdx += 4
	}
}

// StoreInterleavedN stores len(vecs) vectors interleaved to dst, one tuple
// per lane. It is the inverse of LoadInterleavedN.
func StoreInterleavedN[T Lanes](vecs []Vec[T], dst []T) {
	k := len(vecs)
	if k == 0 {
		return
	}
	n := len(vecs[0].data)
	for _, v := range vecs[1:] {
		n = min(n, len(v.data))
	}

	dstIdx := 0
	for i := 0; i < n && dstIdx+k-1 < len(dst); i++ {
		for j, v := range vecs {
			dst[dstIdx+j] = v.data[i]
		}
		dstIdx += k
	}
}
