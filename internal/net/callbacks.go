package net

import (
	"log"
	"math"
)

// Callback defines the interface for training callbacks used by Fit.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, loss float64, n *Network)
}

// Stopper is implemented by callbacks that can end training early.
type Stopper interface {
	ShouldStop() bool
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network) {}
func (c BaseCallback) OnTrainEnd(n *Network) {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network) {}
func (c BaseCallback) OnEpochEnd(epoch int, loss float64, n *Network) {}

// EarlyStopping stops training when the epoch loss has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64

	bestLoss     float64
	numBadEpochs int
	Stopped      bool
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestLoss:  math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnEpochEnd(epoch int, loss float64, n *Network) {
	if loss < c.bestLoss-c.Threshold {
		c.bestLoss = loss
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		log.Printf("early stopping at epoch %d: loss %.6f did not improve for %d epochs", epoch, loss, c.Patience)
		c.Stopped = true
	}
}

// ShouldStop reports whether patience ran out.
func (c *EarlyStopping) ShouldStop() bool { return c.Stopped }

// ModelCheckpoint saves the network after every epoch that improves on the
// best loss so far.
type ModelCheckpoint struct {
	BaseCallback
	Filename string

	bestLoss float64
}

func NewModelCheckpoint(filename string) *ModelCheckpoint {
	return &ModelCheckpoint{
		Filename: filename,
		bestLoss: math.MaxFloat64,
	}
}

func (c *ModelCheckpoint) OnEpochEnd(epoch int, loss float64, n *Network) {
	if loss >= c.bestLoss {
		return
	}
	c.bestLoss = loss
	if err := n.Save(c.Filename); err != nil {
		log.Printf("error saving checkpoint: %v", err)
		return
	}
	log.Printf("checkpoint saved: loss %.6f is new best", loss)
}

// Logger logs training progress every Interval epochs.
type Logger struct {
	BaseCallback
	Interval int
	// Out defaults to the standard logger.
	Out *log.Logger
}

func (c Logger) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.Interval <= 0 || epoch%c.Interval != 0 {
		return
	}
	out := c.Out
	if out == nil {
		out = log.Default()
	}
	out.Printf("epoch %d: loss = %.6f", epoch, loss)
}
