package net

import (
	"bytes"
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/toynn/internal/matrix"
)

// recorder records callback invocations.
type recorder struct {
	BaseCallback
	events []string
	losses []float64
}

func (r *recorder) OnTrainBegin(n *Network) { r.events = append(r.events, "begin") }
func (r *recorder) OnTrainEnd(n *Network) { r.events = append(r.events, "end") }
func (r *recorder) OnEpochBegin(epoch int, n *Network) { r.events = append(r.events, "epoch") }
func (r *recorder) OnEpochEnd(epoch int, loss float64, n *Network) {
	r.losses = append(r.losses, loss)
}

func orDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(
		[][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		[][]float64{{0}, {1}, {1}, {1}},
	)
	require.NoError(t, err)
	return d
}

func TestFitCallbacks(t *testing.T) {
	n := New(2, 2, 1, seeded(21))
	rec := &recorder{}

	loss, err := n.Fit(orDataset(t), 3, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"begin", "epoch", "epoch", "epoch", "end"}, rec.events)
	require.Len(t, rec.losses, 3)
	assert.Equal(t, rec.losses[2], loss)
}

func TestFitShapeError(t *testing.T) {
	n := New(3, 2, 1, seeded(21))
	rec := &recorder{}

	_, err := n.Fit(orDataset(t), 5, rec)
	assert.ErrorIs(t, err, ErrInvalidInputShape)
	assert.Equal(t, "end", rec.events[len(rec.events)-1], "OnTrainEnd runs on failure")
}

func TestEarlyStopping(t *testing.T) {
	n := New(2, 2, 1, seeded(22))
	n.SetLearningRate(0) // the loss never moves
	stopper := NewEarlyStopping(2, 0)
	rec := &recorder{}

	_, err := n.Fit(orDataset(t), 100, stopper, rec)
	require.NoError(t, err)

	assert.True(t, stopper.ShouldStop())
	assert.Len(t, rec.losses, 3)
}

func TestModelCheckpoint(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "best.txt")
	n := New(2, 3, 1, seeded(23))
	n.SetLearningRate(0.5)

	_, err := n.Fit(orDataset(t), 20, NewModelCheckpoint(filename))
	require.NoError(t, err)

	loaded, err := Load(filename)
	require.NoError(t, err)
	in, hidden, out := loaded.Sizes()
	assert.Equal(t, []int{2, 3, 1}, []int{in, hidden, out})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger{Interval: 2, Out: log.New(&buf, "", 0)}
	n := New(2, 2, 1, seeded(24))

	_, err := n.Fit(orDataset(t), 5, logger)
	require.NoError(t, err)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 3, lines, buf.String()) // epochs 0, 2, 4
	assert.Contains(t, buf.String(), "epoch 4: loss = ")
}

func TestCSVLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "log.csv")

	logger := NewCSVLogger(filename, false)
	n := New(2, 2, 1, seeded(25))

	logger.OnTrainBegin(n)
	logger.OnEpochEnd(0, 0.5, n)
	logger.OnEpochEnd(1, 0.4, n)
	logger.OnTrainEnd(n)

	file, err := os.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3) // header + 2 epochs
	assert.Equal(t, []string{"epoch", "loss", "learning_rate", "time_seconds"}, records[0])
	assert.Equal(t, []string{"0", "0.500000", "0.1"}, records[1][:3])
}

func TestLoadCSV(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.csv")
	content := "f1,f2,t1,f3,t2\n1.0,2.0,0.0,3.0,1.0\n4.0,5.0,1.0,6.0,0.0\n"
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))

	d, err := LoadCSV(filename, []int{4, 2}, true)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	assert.True(t, matrix.Equal(matrix.NewColumn(1, 2, 3), d.Inputs[0]))
	assert.True(t, matrix.Equal(matrix.NewColumn(4, 5, 6), d.Inputs[1]))
	assert.True(t, matrix.Equal(matrix.NewColumn(1, 0), d.Targets[0]))
	assert.True(t, matrix.Equal(matrix.NewColumn(0, 1), d.Targets[1]))

	_, err = LoadCSV(filename, []int{9}, true)
	assert.Error(t, err)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDatasetNormalization(t *testing.T) {
	d, err := NewDataset(
		[][]float64{{10, 0, 7}, {20, 5, 7}, {30, 10, 7}},
		[][]float64{{0}, {0}, {0}},
	)
	require.NoError(t, err)

	require.NoError(t, d.Normalize())

	want := [][]float64{{0, 0, 0}, {0.5, 0.5, 0}, {1, 1, 0}}
	for i := range want {
		assert.True(t, matrix.Equal(matrix.NewColumn(want[i]...), d.Inputs[i]), "row %d: %v", i, d.Inputs[i].RawData())
	}
}

func TestDatasetSplit(t *testing.T) {
	d := orDataset(t)

	train, test := d.Split(0.75)
	assert.Equal(t, 3, train.Len())
	assert.Equal(t, 1, test.Len())

	train, test = d.Split(0)
	assert.Equal(t, 0, train.Len())
	assert.Equal(t, 4, test.Len())

	_, err := NewDataset([][]float64{{1}}, nil)
	assert.Error(t, err)
}

func TestDatasetNormalizationRagged(t *testing.T) {
	d := &Dataset{
		Inputs:  []matrix.Matrix{matrix.NewColumn(1, 2), matrix.NewColumn(3)},
		Targets: []matrix.Matrix{matrix.NewColumn(0), matrix.NewColumn(1)},
	}

	assert.Error(t, d.Normalize())
	assert.True(t, matrix.Equal(matrix.NewColumn(1, 2), d.Inputs[0]), "inputs untouched")
}

func TestFitMismatchedDataset(t *testing.T) {
	n := New(2, 2, 1, seeded(26))
	d := &Dataset{
		Inputs:  []matrix.Matrix{matrix.NewColumn(0, 1), matrix.NewColumn(1, 0)},
		Targets: []matrix.Matrix{matrix.NewColumn(1)},
	}
	rec := &recorder{}

	_, err := n.Fit(d, 3, rec)
	assert.Error(t, err)
	assert.Empty(t, rec.events)

	_, err = n.Evaluate(d)
	assert.Error(t, err)
}
