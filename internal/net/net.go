// Package net provides a three-layer feedforward network trained by online
// backpropagation.
package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/FlavioCFOliveira/toynn/internal/activations"
	"github.com/FlavioCFOliveira/toynn/internal/matrix"
)

var (
	// ErrInvalidInputShape is returned when inputs is not an input×1 column.
	ErrInvalidInputShape = errors.New("net: invalid input shape")

	// ErrInvalidTargetShape is returned when targets is not an output×1 column.
	ErrInvalidTargetShape = errors.New("net: invalid target shape")

	// ErrFileNotFound is returned by Load when the model file cannot be opened.
	ErrFileNotFound = errors.New("net: file not found")

	// ErrMalformedModel is returned when a persisted model cannot be decoded
	// or its matrices disagree with its layer sizes.
	ErrMalformedModel = errors.New("net: malformed model")
)

// DefaultLearningRate is the learning rate of a freshly constructed network.
const DefaultLearningRate = 0.1

// Network is a feedforward network with one hidden layer.
//
// A Network is not safe for concurrent use. Train mutates the weights and
// biases in place, so callers sharing a Network must hold a lock for the
// duration of each Train or Predict call.
type Network struct {
	inputNodes, hiddenNodes, outputNodes int

	weightsIH matrix.Matrix // hidden × input
	weightsHO matrix.Matrix // output × hidden
	biasH     matrix.Matrix // hidden × 1
	biasO     matrix.Matrix // output × 1

	lr  float64
	act activations.Activation

	// actName is the persisted tag. It outlives act when a model names an
	// unknown activation.
	actName string
}

// New creates a network whose weights and biases are drawn uniformly from
// [-1, 1] using rng. A nil rng uses a time-seeded source.
// The network starts with a sigmoid activation and DefaultLearningRate.
func New(input, hidden, output int, rng *rand.Rand) *Network {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n := NewEmpty(input, hidden, output)

	random := func(float64) float64 { return rng.Float64()*2 - 1 }
	n.weightsIH.Map(random)
	n.weightsHO.Map(random)
	n.biasH.Map(random)
	n.biasO.Map(random)

	return n
}

// NewEmpty creates a network with all-zero weights and biases.
func NewEmpty(input, hidden, output int) *Network {
	n := &Network{
		inputNodes:  input,
		hiddenNodes: hidden,
		outputNodes: output,
		weightsIH:   matrix.New(hidden, input),
		weightsHO:   matrix.New(output, hidden),
		biasH:       matrix.New(hidden, 1),
		biasO:       matrix.New(output, 1),
	}
	n.SetLearningRate(DefaultLearningRate)
	n.SetActivation(activations.Sigmoid{})
	return n
}

// Sizes returns the input, hidden and output layer sizes.
func (n *Network) Sizes() (input, hidden, output int) {
	return n.inputNodes, n.hiddenNodes, n.outputNodes
}

// LearningRate returns the current learning rate.
func (n *Network) LearningRate() float64 { return n.lr }

// SetLearningRate replaces the learning rate. Non-positive values are
// accepted as is.
func (n *Network) SetLearningRate(lr float64) {
	n.lr = lr
}

// Activation returns the attached activation, or nil if the network was
// loaded with an unrecognized tag.
func (n *Network) Activation() activations.Activation { return n.act }

// SetActivation replaces the activation function used by both layers.
func (n *Network) SetActivation(act activations.Activation) {
	n.act = act
	n.actName = ""
	if act != nil {
		n.actName = act.Name()
	}
}

// Weights returns copies of the input-hidden weights, hidden-output weights,
// hidden bias and output bias.
func (n *Network) Weights() (weightsIH, weightsHO, biasH, biasO matrix.Matrix) {
	return n.weightsIH.Clone(), n.weightsHO.Clone(), n.biasH.Clone(), n.biasO.Clone()
}

func isColumn(m matrix.Matrix, rows int) bool {
	return m.Rows() == rows && m.Cols() == 1
}

// layer computes act(w × x + b).
func layer(w, x, b matrix.Matrix, act activations.Activation) (matrix.Matrix, error) {
	z, err := matrix.Multiply(w, x)
	if err != nil {
		return matrix.Matrix{}, err
	}
	z, err = matrix.Add(z, b)
	if err != nil {
		return matrix.Matrix{}, err
	}
	z.Map(act.Activate)
	return z, nil
}

// forward returns the activated hidden and output layers.
func (n *Network) forward(inputs matrix.Matrix) (hidden, output matrix.Matrix, err error) {
	if n.act == nil {
		return hidden, output, fmt.Errorf("net: forward: %w: %q", activations.ErrUnrecognizedActivation, n.actName)
	}
	if hidden, err = layer(n.weightsIH, inputs, n.biasH, n.act); err != nil {
		return hidden, output, fmt.Errorf("net: hidden layer: %w", err)
	}
	if output, err = layer(n.weightsHO, hidden, n.biasO, n.act); err != nil {
		return hidden, output, fmt.Errorf("net: output layer: %w", err)
	}
	return hidden, output, nil
}

// Predict runs a forward pass on an input×1 column and returns the
// output×1 column. The network is not modified.
func (n *Network) Predict(inputs matrix.Matrix) (matrix.Matrix, error) {
	if !isColumn(inputs, n.inputNodes) {
		return matrix.Matrix{}, fmt.Errorf("%w: got %dx%d, want %dx1", ErrInvalidInputShape, inputs.Rows(), inputs.Cols(), n.inputNodes)
	}
	_, output, err := n.forward(inputs)
	return output, err
}

// Train performs one step of backpropagation on a single example and
// updates the weights and biases in place.
//
// Inputs are validated before the forward pass and targets after it, so a
// call with both shapes wrong reports ErrInvalidInputShape.
func (n *Network) Train(inputs, targets matrix.Matrix) error {
	if !isColumn(inputs, n.inputNodes) {
		return fmt.Errorf("%w: got %dx%d, want %dx1", ErrInvalidInputShape, inputs.Rows(), inputs.Cols(), n.inputNodes)
	}
	hidden, outputs, err := n.forward(inputs)
	if err != nil {
		return err
	}
	if !isColumn(targets, n.outputNodes) {
		return fmt.Errorf("%w: got %dx%d, want %dx1", ErrInvalidTargetShape, targets.Rows(), targets.Cols(), n.outputNodes)
	}

	outputErrors, err := matrix.Sub(targets, outputs)
	if err != nil {
		return err
	}

	gradients, err := matrix.Multiply(matrix.Mapped(outputs, n.act.Derivative), outputErrors)
	if err != nil {
		return err
	}
	gradients = matrix.Scale(gradients, n.lr)

	deltasHO, err := matrix.Multiply(gradients, matrix.Transpose(hidden))
	if err != nil {
		return err
	}
	weightsHO, err := matrix.Add(n.weightsHO, deltasHO)
	if err != nil {
		return err
	}
	biasO, err := matrix.Add(n.biasO, gradients)
	if err != nil {
		return err
	}

	// The hidden error flows back through the already updated weights.
	hiddenErrors, err := matrix.Multiply(matrix.Transpose(weightsHO), outputErrors)
	if err != nil {
		return err
	}
	hiddenGradients, err := matrix.Multiply(matrix.Mapped(hidden, n.act.Derivative), hiddenErrors)
	if err != nil {
		return err
	}
	hiddenGradients = matrix.Scale(hiddenGradients, n.lr)

	deltasIH, err := matrix.Multiply(hiddenGradients, matrix.Transpose(inputs))
	if err != nil {
		return err
	}
	weightsIH, err := matrix.Add(n.weightsIH, deltasIH)
	if err != nil {
		return err
	}
	biasH, err := matrix.Add(n.biasH, hiddenGradients)
	if err != nil {
		return err
	}

	n.weightsHO, n.biasO = weightsHO, biasO
	n.weightsIH, n.biasH = weightsIH, biasH
	return nil
}

// Loss returns the mean squared error between Predict(inputs) and targets.
func (n *Network) Loss(inputs, targets matrix.Matrix) (float64, error) {
	output, err := n.Predict(inputs)
	if err != nil {
		return 0, err
	}
	if !isColumn(targets, n.outputNodes) {
		return 0, fmt.Errorf("%w: got %dx%d, want %dx1", ErrInvalidTargetShape, targets.Rows(), targets.Cols(), n.outputNodes)
	}
	diff, err := matrix.Sub(targets, output)
	if err != nil {
		return 0, err
	}
	d := diff.RawData()
	if len(d) == 0 {
		return 0, nil
	}
	return floats.Dot(d, d) / float64(len(d)), nil
}

// Save writes the network to filename in the text model format.
func (n *Network) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := n.Encode(file); err != nil {
		return err
	}
	return file.Close()
}

// Encode writes the layer sizes, the four parameter matrices and the
// activation tag to w.
func (n *Network) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d %d\n", n.inputNodes, n.hiddenNodes, n.outputNodes); err != nil {
		return fmt.Errorf("failed to encode layer sizes: %w", err)
	}
	for _, m := range []matrix.Matrix{n.weightsIH, n.weightsHO, n.biasH, n.biasO} {
		if _, err := m.WriteTo(bw); err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}
	}
	if _, err := bw.WriteString(n.actName); err != nil {
		return fmt.Errorf("failed to encode activation: %w", err)
	}
	return bw.Flush()
}

// Load reads a network from filename.
func Load(filename string) (*Network, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads a network written by Encode.
//
// An activation tag outside the built-in set, or no tag at all, does not
// fail the decode: the network comes back without a usable activation and
// every forward pass reports activations.ErrUnrecognizedActivation until
// SetActivation is called.
func Decode(r io.Reader) (*Network, error) {
	sc := matrix.NewScanner(r)

	var sizes [3]int
	for i := range sizes {
		v, err := sc.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: layer sizes: %w", ErrMalformedModel, err)
		}
		sizes[i] = v
	}
	input, hidden, output := sizes[0], sizes[1], sizes[2]

	params := []struct {
		name       string
		rows, cols int
	}{
		{"input-hidden weights", hidden, input},
		{"hidden-output weights", output, hidden},
		{"hidden bias", hidden, 1},
		{"output bias", output, 1},
	}
	for _, p := range params {
		if err := matrix.CheckSize(p.rows, p.cols); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedModel, p.name, err)
		}
	}

	blocks := make([]matrix.Matrix, len(params))
	for i, p := range params {
		m, err := sc.MatrixShaped(p.rows, p.cols)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedModel, p.name, err)
		}
		blocks[i] = m
	}

	n := &Network{
		inputNodes:  input,
		hiddenNodes: hidden,
		outputNodes: output,
		weightsIH:   blocks[0],
		weightsHO:   blocks[1],
		biasH:       blocks[2],
		biasO:       blocks[3],
	}
	n.SetLearningRate(DefaultLearningRate)

	tag, err := sc.Token()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: activation: %w", ErrMalformedModel, err)
	}
	act, err := activations.Lookup(tag)
	if err != nil {
		n.act = nil
		n.actName = tag
		return n, nil
	}
	n.SetActivation(act)
	return n, nil
}
