package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func shapeErrorf(op string, a, b Matrix) error {
	return fmt.Errorf("matrix: %s %dx%d and %dx%d: %w", op, a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
}

// dense wraps the backing buffer in a gonum view. The caller must not
// retain it past the operation, and m must be non-empty.
func (m Matrix) dense() *mat.Dense {
	return mat.NewDense(m.rows, m.cols, m.data)
}

// Add returns a + b. Shapes must be identical.
func Add(a, b Matrix) (Matrix, error) {
	if !SameShape(a, b) {
		return Matrix{}, shapeErrorf("add", a, b)
	}
	out := New(a.rows, a.cols)
	floats.AddTo(out.data, a.data, b.data)
	return out, nil
}

// Sub returns a - b. Shapes must be identical.
func Sub(a, b Matrix) (Matrix, error) {
	if !SameShape(a, b) {
		return Matrix{}, shapeErrorf("sub", a, b)
	}
	out := New(a.rows, a.cols)
	floats.SubTo(out.data, a.data, b.data)
	return out, nil
}

// Hadamard returns the elementwise product of a and b. Shapes must be identical.
func Hadamard(a, b Matrix) (Matrix, error) {
	if !SameShape(a, b) {
		return Matrix{}, shapeErrorf("hadamard", a, b)
	}
	out := New(a.rows, a.cols)
	floats.MulTo(out.data, a.data, b.data)
	return out, nil
}

// MatMul returns the linear-algebra product a × b, shaped a.Rows()×b.Cols().
// It requires a.Cols() == b.Rows().
func MatMul(a, b Matrix) (Matrix, error) {
	if a.cols != b.rows {
		return Matrix{}, shapeErrorf("matmul", a, b)
	}
	out := New(a.rows, b.cols)
	// gonum rejects zero-length dimensions; an empty inner dimension
	// leaves the zero-filled result as is.
	if out.rows == 0 || out.cols == 0 || a.cols == 0 {
		return out, nil
	}
	out.dense().Mul(a.dense(), b.dense())
	return out, nil
}

// Multiply combines a and b elementwise when their shapes are identical and
// as a linear-algebra product otherwise. Prefer Hadamard or MatMul unless
// both meanings are wanted from one call site.
func Multiply(a, b Matrix) (Matrix, error) {
	if SameShape(a, b) {
		return Hadamard(a, b)
	}
	if a.cols == b.rows {
		return MatMul(a, b)
	}
	return Matrix{}, shapeErrorf("multiply", a, b)
}

// Scale returns a with every element multiplied by k.
func Scale(a Matrix, k float64) Matrix {
	out := New(a.rows, a.cols)
	floats.ScaleTo(out.data, k, a.data)
	return out
}

// Map applies fn to every element of m in place.
func (m *Matrix) Map(fn func(float64) float64) {
	for i, v := range m.data {
		m.data[i] = fn(v)
	}
}

// Mapped returns a new matrix holding fn applied to every element of a.
// a is left untouched.
func Mapped(a Matrix, fn func(float64) float64) Matrix {
	out := a.Clone()
	out.Map(fn)
	return out
}

// Transpose returns the cols×rows matrix t with t[j][i] = a[i][j].
func Transpose(a Matrix) Matrix {
	out := New(a.cols, a.rows)
	if len(a.data) == 0 {
		return out
	}
	out.dense().Copy(a.dense().T())
	return out
}
