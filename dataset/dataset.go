package dataset

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a matrix has no rows or no columns.
var ErrEmpty = errors.New("dataset: empty matrix")

// Matrix is a dense row-major matrix of Rows feature vectors with Dim
// components each.
type Matrix struct {
	Data []float64
	Rows int
	Dim  int
}

// Row returns the i-th feature vector. The returned slice aliases the
// matrix storage.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Dim : (i+1)*m.Dim]
}

// FromRows flattens a slice of equally sized feature vectors into a
// Matrix. The input rows are copied.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}

	dim := len(rows[0])
	data := make([]float64, 0, len(rows)*dim)

	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("dataset: row %d has %d features, want %d", i, len(row), dim)
		}
		data = append(data, row...)
	}

	return &Matrix{Data: data, Rows: len(rows), Dim: dim}, nil
}
