package net

import (
	"fmt"
	"io"
)

// Fit trains the network online, one example at a time, for the given
// number of epochs. After each epoch the mean loss over d is reported to
// the callbacks. Training ends early when a Stopper callback asks for it.
// It returns the loss of the last completed epoch.
func (n *Network) Fit(d *Dataset, epochs int, callbacks ...Callback) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	for _, cb := range callbacks {
		cb.OnTrainBegin(n)
	}
	defer func() {
		for _, cb := range callbacks {
			cb.OnTrainEnd(n)
		}
	}()

	var loss float64
	for epoch := 0; epoch < epochs; epoch++ {
		for _, cb := range callbacks {
			cb.OnEpochBegin(epoch, n)
		}

		for i := range d.Inputs {
			if err := n.Train(d.Inputs[i], d.Targets[i]); err != nil {
				return loss, fmt.Errorf("epoch %d, example %d: %w", epoch, i, err)
			}
		}

		var err error
		if loss, err = n.Evaluate(d); err != nil {
			return loss, err
		}

		stop := false
		for _, cb := range callbacks {
			cb.OnEpochEnd(epoch, loss, n)
			if s, ok := cb.(Stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if stop {
			break
		}
	}
	return loss, nil
}

// Evaluate calculates the average loss on a dataset.
func (n *Network) Evaluate(d *Dataset) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	if d.Len() == 0 {
		return 0, nil
	}
	var total float64
	for i := range d.Inputs {
		l, err := n.Loss(d.Inputs[i], d.Targets[i])
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		total += l
	}
	return total / float64(d.Len()), nil
}

// Summary prints a summary of the network architecture.
func (n *Network) Summary(w io.Writer) {
	act := n.actName
	if n.act == nil {
		act += " (unavailable)"
	}
	fmt.Fprintln(w, "Model: Network")
	fmt.Fprintln(w, "_________________________________________________________________")
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer", "Output Shape", "Param #")
	fmt.Fprintln(w, "=================================================================")
	hiddenParams := n.hiddenNodes*n.inputNodes + n.hiddenNodes
	outputParams := n.outputNodes*n.hiddenNodes + n.outputNodes
	fmt.Fprintf(w, "%-25s %-20s %-10d\n", "input", fmt.Sprintf("(%d, 1)", n.inputNodes), 0)
	fmt.Fprintf(w, "%-25s %-20s %-10d\n", "hidden", fmt.Sprintf("(%d, 1)", n.hiddenNodes), hiddenParams)
	fmt.Fprintf(w, "%-25s %-20s %-10d\n", "output", fmt.Sprintf("(%d, 1)", n.outputNodes), outputParams)
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "Total params: %d\n", hiddenParams+outputParams)
	fmt.Fprintf(w, "Activation: %s, learning rate: %g\n", act, n.lr)
	fmt.Fprintln(w, "_________________________________________________________________")
}
