// Package matrix provides a small dense row-major matrix of float64 values
// with the elementwise and linear-algebra operators a feedforward network
// needs.
package matrix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Add of
	// different shapes or MatMul where a.Cols() != b.Rows().
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrMalformed indicates a serialized matrix that cannot be decoded.
	ErrMalformed = errors.New("matrix: malformed input")
)

// Matrix is a dense row-major matrix.
// The element at (i, j) lives at data[i*cols+j] and len(data) == rows*cols.
//
// Operators never share buffers with their operands. Only Set and Map
// mutate a matrix in place.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New creates a rows×cols matrix filled with zeros.
// Zero-sized matrices are valid; negative sizes panic.
func New(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimension %dx%d", rows, cols))
	}
	return Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewFromSlice creates a rows×cols matrix holding a copy of data in
// row-major order.
func NewFromSlice(rows, cols int, data []float64) (Matrix, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("matrix: %d values for %dx%d: %w", len(data), rows, cols, ErrDimensionMismatch)
	}
	m := New(rows, cols)
	copy(m.data, data)
	return m, nil
}

// NewFromRows creates a matrix from a slice of equally sized rows.
func NewFromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("matrix: row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
		copy(m.data[i*cols:], row)
	}
	return m, nil
}

// NewColumn creates a len(values)×1 column vector.
func NewColumn(values ...float64) Matrix {
	m := New(len(values), 1)
	copy(m.data, values)
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

func (m Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// At returns the element at (row, col). It panics if the index is out of range.
func (m Matrix) At(row, col int) float64 {
	return m.data[m.index(row, col)]
}

// Set assigns v at (row, col). It panics if the index is out of range.
func (m *Matrix) Set(row, col int, v float64) {
	m.data[m.index(row, col)] = v
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := New(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// RawData returns a copy of the elements in row-major order.
func (m Matrix) RawData() []float64 {
	return append([]float64(nil), m.data...)
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Matrix) bool {
	return a.rows == b.rows && a.cols == b.cols
}

// Equal reports whether a and b have the same shape and identical elements.
func Equal(a, b Matrix) bool {
	return SameShape(a, b) && floats.Equal(a.data, b.data)
}

// EqualApprox reports whether a and b have the same shape and every pair of
// elements is within tol, absolutely or relatively.
func EqualApprox(a, b Matrix, tol float64) bool {
	return SameShape(a, b) && floats.EqualApprox(a.data, b.data, tol)
}

// String renders the matrix one bracketed row per line, for debugging.
func (m Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(m.data[i*m.cols+j], 'g', -1, 64))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
