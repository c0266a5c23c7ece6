package matrix

import (
	"math/rand"
	"testing"
)

// randomMatrix returns a rows×cols matrix of uniform values in [0, 1).
func randomMatrix(rows, cols int) Matrix {
	m := New(rows, cols)
	m.Map(func(float64) float64 { return rand.Float64() })
	return m
}

// BenchmarkMatMul benchmarks a square product.
func BenchmarkMatMul(b *testing.B) {
	x := randomMatrix(64, 64)
	y := randomMatrix(64, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MatMul(x, y)
	}
}

// BenchmarkHadamard benchmarks the elementwise product.
func BenchmarkHadamard(b *testing.B) {
	x := randomMatrix(64, 64)
	y := randomMatrix(64, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Hadamard(x, y)
	}
}

// BenchmarkTranspose benchmarks a non-square transpose.
func BenchmarkTranspose(b *testing.B) {
	x := randomMatrix(32, 128)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Transpose(x)
	}
}
