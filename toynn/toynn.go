// Package toynn is the public entry point to a three-layer feedforward
// network and the dense matrix type it is built on.
package toynn

import (
	"io"
	"math/rand"

	"github.com/FlavioCFOliveira/toynn/internal/activations"
	"github.com/FlavioCFOliveira/toynn/internal/matrix"
	"github.com/FlavioCFOliveira/toynn/internal/net"
)

// Re-export common types and functions for easier access
type (
	Network    = net.Network
	Matrix     = matrix.Matrix
	Activation = activations.Activation
	Dataset    = net.Dataset
	Callback   = net.Callback
)

// Errors
var (
	ErrDimensionMismatch      = matrix.ErrDimensionMismatch
	ErrMalformed              = matrix.ErrMalformed
	ErrInvalidInputShape      = net.ErrInvalidInputShape
	ErrInvalidTargetShape     = net.ErrInvalidTargetShape
	ErrFileNotFound           = net.ErrFileNotFound
	ErrMalformedModel         = net.ErrMalformedModel
	ErrUnrecognizedActivation = activations.ErrUnrecognizedActivation
)

// Activations
var (
	Sigmoid Activation = activations.Sigmoid{}
	Tanh    Activation = activations.Tanh{}
)

// New creates a randomly initialized network. A nil rng is seeded from the
// clock.
func New(input, hidden, output int, rng *rand.Rand) *Network {
	return net.New(input, hidden, output, rng)
}

// Column builds an input or target vector.
func Column(values ...float64) Matrix {
	return matrix.NewColumn(values...)
}

// NewEmpty creates a network with all-zero weights and biases.
func NewEmpty(input, hidden, output int) *Network {
	return net.NewEmpty(input, hidden, output)
}

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return matrix.New(rows, cols)
}

// NewMatrixFromSlice wraps a copy of data as a rows×cols matrix.
func NewMatrixFromSlice(rows, cols int, data []float64) (Matrix, error) {
	return matrix.NewFromSlice(rows, cols, data)
}

// NewMatrixFromRows builds a matrix from equal-length rows.
func NewMatrixFromRows(rows [][]float64) (Matrix, error) {
	return matrix.NewFromRows(rows)
}

// Matrix operations
func Add(a, b Matrix) (Matrix, error) { return matrix.Add(a, b) }
func Sub(a, b Matrix) (Matrix, error) { return matrix.Sub(a, b) }
func Hadamard(a, b Matrix) (Matrix, error) { return matrix.Hadamard(a, b) }
func MatMul(a, b Matrix) (Matrix, error) { return matrix.MatMul(a, b) }
func Multiply(a, b Matrix) (Matrix, error) { return matrix.Multiply(a, b) }
func Scale(a Matrix, s float64) Matrix { return matrix.Scale(a, s) }
func Transpose(a Matrix) Matrix { return matrix.Transpose(a) }

func Mapped(a Matrix, fn func(float64) float64) Matrix {
	return matrix.Mapped(a, fn)
}

func Equal(a, b Matrix) bool { return matrix.Equal(a, b) }

func EqualApprox(a, b Matrix, tol float64) bool {
	return matrix.EqualApprox(a, b, tol)
}

// ReadMatrix decodes a single matrix block written by Matrix.WriteTo.
func ReadMatrix(r io.Reader) (Matrix, error) {
	return matrix.Read(r)
}

// NewDataset pairs raw inputs with targets.
func NewDataset(inputs, targets [][]float64) (*Dataset, error) {
	return net.NewDataset(inputs, targets)
}

// LoadCSV reads a dataset whose targetCols hold the targets.
func LoadCSV(filename string, targetCols []int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, targetCols, hasHeader)
}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func CSVLogger(filename string, append bool) Callback {
	return net.NewCSVLogger(filename, append)
}

func ModelCheckpoint(filename string) Callback {
	return net.NewModelCheckpoint(filename)
}

func EarlyStopping(patience int, minDelta float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, minDelta)
}

// Model Persistence
func Load(filename string) (*Network, error) {
	return net.Load(filename)
}

func Decode(r io.Reader) (*Network, error) {
	return net.Decode(r)
}
