//go:build !amd64 && !arm64

package simd

func init() {
	// wasm and riscv64 stay scalar until their vector extensions are wired.
	setScalarMode()
}
