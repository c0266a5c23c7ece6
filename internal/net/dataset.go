package net

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/FlavioCFOliveira/toynn/internal/matrix"
)

// Dataset is a list of single-example input/target column vectors.
type Dataset struct {
	Inputs  []matrix.Matrix
	Targets []matrix.Matrix
}

// NewDataset builds a Dataset from parallel slices of raw input and target
// values, turning each row into a column vector.
func NewDataset(inputs, targets [][]float64) (*Dataset, error) {
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("dataset has %d inputs but %d targets", len(inputs), len(targets))
	}
	d := &Dataset{
		Inputs:  make([]matrix.Matrix, len(inputs)),
		Targets: make([]matrix.Matrix, len(targets)),
	}
	for i := range inputs {
		d.Inputs[i] = matrix.NewColumn(inputs[i]...)
		d.Targets[i] = matrix.NewColumn(targets[i]...)
	}
	return d, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.Inputs) }

func (d *Dataset) validate() error {
	if len(d.Inputs) != len(d.Targets) {
		return fmt.Errorf("dataset has %d inputs but %d targets", len(d.Inputs), len(d.Targets))
	}
	return nil
}

// LoadCSV loads data from a CSV file.
// targetCols specifies the indices of columns to be used as targets, in
// that order. All other columns are used as inputs.
// hasHeader skips the first line if true.
func LoadCSV(filename string, targetCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}
	if len(records) <= startRow {
		return nil, fmt.Errorf("csv file has no data rows")
	}

	numCols := len(records[0])
	isTargetCol := make(map[int]bool)
	for _, col := range targetCols {
		if col < 0 || col >= numCols {
			return nil, fmt.Errorf("target column %d out of range for %d columns", col, numCols)
		}
		isTargetCol[col] = true
	}

	inputs := make([][]float64, 0, len(records)-startRow)
	targets := make([][]float64, 0, len(records)-startRow)

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, fmt.Errorf("inconsistent number of columns at row %d", i)
		}

		inputRow := make([]float64, 0, numCols-len(isTargetCol))
		values := make([]float64, numCols)
		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i, j, err)
			}
			values[j] = val
			if !isTargetCol[j] {
				inputRow = append(inputRow, val)
			}
		}

		targetRow := make([]float64, 0, len(targetCols))
		for _, col := range targetCols {
			targetRow = append(targetRow, values[col])
		}

		inputs = append(inputs, inputRow)
		targets = append(targets, targetRow)
	}

	return NewDataset(inputs, targets)
}

// Normalize performs min-max normalization of every input feature into
// [0, 1]. Constant features become 0. All inputs must be columns of the
// same length; otherwise d is left untouched and an error is returned.
func (d *Dataset) Normalize() error {
	if len(d.Inputs) == 0 {
		return nil
	}

	numFeatures := d.Inputs[0].Rows()
	for k, in := range d.Inputs {
		if in.Rows() != numFeatures || in.Cols() != 1 {
			return fmt.Errorf("input %d is %dx%d, want %dx1", k, in.Rows(), in.Cols(), numFeatures)
		}
	}
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	for i := range lo {
		lo[i] = d.Inputs[0].At(i, 0)
		hi[i] = lo[i]
	}

	for _, in := range d.Inputs {
		for i := 0; i < numFeatures; i++ {
			v := in.At(i, 0)
			lo[i] = min(lo[i], v)
			hi[i] = max(hi[i], v)
		}
	}

	for k := range d.Inputs {
		for i := 0; i < numFeatures; i++ {
			diff := hi[i] - lo[i]
			v := 0.0
			if diff != 0 {
				v = (d.Inputs[k].At(i, 0) - lo[i]) / diff
			}
			d.Inputs[k].Set(i, 0, v)
		}
	}
	return nil
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test).
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	splitIdx := int(float64(len(d.Inputs)) * ratio)

	train := &Dataset{
		Inputs:  d.Inputs[:splitIdx],
		Targets: d.Targets[:splitIdx],
	}
	test := &Dataset{
		Inputs:  d.Inputs[splitIdx:],
		Targets: d.Targets[splitIdx:],
	}
	return train, test
}
