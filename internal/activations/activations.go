// Package activations provides the name-tagged activation functions a
// network can attach and persist.
package activations

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnrecognizedActivation is returned for a tag outside the built-in set.
var ErrUnrecognizedActivation = errors.New("activations: unrecognized activation")

// Activation is an activation function with derivative.
type Activation interface {
	// Name is the tag written to persisted models.
	Name() string

	// Activate computes y = f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) expressed in terms of y = f(x).
	// It must be given the activated output, not the pre-activation sum.
	Derivative(y float64) float64
}

// Sigmoid activation function.
type Sigmoid struct{}

// Name returns "sigmoid".
func (s Sigmoid) Name() string { return "sigmoid" }

// Activate computes 1 / (1 + e^-x)
func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Derivative computes y * (1 - y)
func (s Sigmoid) Derivative(y float64) float64 {
	return y * (1 - y)
}

// Tanh activation function.
type Tanh struct{}

// Name returns "tanh".
func (t Tanh) Name() string { return "tanh" }

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - y^2
func (t Tanh) Derivative(y float64) float64 {
	return 1 - y*y
}

// Builtins lists the activations that survive a save/load round trip.
var Builtins = []Activation{Sigmoid{}, Tanh{}}

// Lookup returns the built-in activation tagged name.
func Lookup(name string) (Activation, error) {
	for _, a := range Builtins {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedActivation, name)
}
