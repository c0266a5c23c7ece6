package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteTo writes m as "<rows> <cols>" followed by one line per row of
// space-separated values. Values use the shortest representation that
// parses back to the same float64.
func (m Matrix) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	c, err := fmt.Fprintf(bw, "%d %d\n", m.rows, m.cols)
	n += int64(c)
	if err != nil {
		return n, err
	}

	buf := make([]byte, 0, 32)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			buf = buf[:0]
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, m.data[i*m.cols+j], 'g', -1, 64)
			c, err = bw.Write(buf)
			n += int64(c)
			if err != nil {
				return n, err
			}
		}
		if err = bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Scanner reads whitespace-delimited tokens from a text stream, so that
// matrix blocks can be embedded in larger documents.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Scanner{sc: sc}
}

// Token returns the next whitespace-delimited token.
// It returns io.ErrUnexpectedEOF when the stream is exhausted.
func (s *Scanner) Token() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return s.sc.Text(), nil
}

// Int reads the next token as a non-negative integer.
func (s *Scanner) Int() (int, error) {
	tok, err := s.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad size %q", ErrMalformed, tok)
	}
	return v, nil
}

// Float reads the next token as a float64.
func (s *Scanner) Float() (float64, error) {
	tok, err := s.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad value %q", ErrMalformed, tok)
	}
	return v, nil
}

// MaxElements bounds the number of elements a decoded block may declare.
const MaxElements = 1 << 24

// CheckSize reports whether a rows×cols block fits within MaxElements.
func CheckSize(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrMalformed, rows, cols)
	}
	if rows != 0 && cols > MaxElements/rows {
		return fmt.Errorf("%w: %dx%d exceeds %d elements", ErrMalformed, rows, cols, MaxElements)
	}
	return nil
}

func (s *Scanner) header() (rows, cols int, err error) {
	if rows, err = s.Int(); err != nil {
		return 0, 0, err
	}
	if cols, err = s.Int(); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// Matrix reads one block written by Matrix.WriteTo.
func (s *Scanner) Matrix() (Matrix, error) {
	rows, cols, err := s.header()
	if err != nil {
		return Matrix{}, err
	}
	if err := CheckSize(rows, cols); err != nil {
		return Matrix{}, err
	}
	return s.elements(rows, cols)
}

// MatrixShaped reads one block and fails before allocating unless its
// header declares exactly rows×cols.
func (s *Scanner) MatrixShaped(rows, cols int) (Matrix, error) {
	r, c, err := s.header()
	if err != nil {
		return Matrix{}, err
	}
	if r != rows || c != cols {
		return Matrix{}, fmt.Errorf("%w: block is %dx%d, want %dx%d", ErrMalformed, r, c, rows, cols)
	}
	if err := CheckSize(rows, cols); err != nil {
		return Matrix{}, err
	}
	return s.elements(rows, cols)
}

func (s *Scanner) elements(rows, cols int) (Matrix, error) {
	var err error
	m := New(rows, cols)
	for i := range m.data {
		if m.data[i], err = s.Float(); err != nil {
			return Matrix{}, fmt.Errorf("element %d of %dx%d: %w", i, rows, cols, err)
		}
	}
	return m, nil
}

// Read decodes a single matrix block from r.
func Read(r io.Reader) (Matrix, error) {
	return NewScanner(r).Matrix()
}
