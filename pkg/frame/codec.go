package frame

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

type frameRecord struct {
	Index   []time.Time
	Columns []string
	// Cells is the gonum binary encoding of the dense matrix, empty when the
	// frame has no rows or no columns.
	Cells []byte
}

// GobEncode implements gob.GobEncoder so frames can be embedded in snapshots.
func (f *Frame) GobEncode() ([]byte, error) {
	rec := frameRecord{Index: f.index, Columns: f.columns, Cells: nil}

	if f.data != nil {
		cells, err := f.data.MarshalBinary()
		if err != nil {
			return nil, err
		}

		rec.Cells = cells
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (f *Frame) GobDecode(data []byte) error {
	var rec frameRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return err
	}

	var cells *mat.Dense

	if len(rec.Cells) > 0 {
		cells = &mat.Dense{}
		if err := cells.UnmarshalBinary(rec.Cells); err != nil {
			return err
		}

		if r, c := cells.Dims(); r != len(rec.Index) || c != len(rec.Columns) {
			return fmt.Errorf("frame cells are %d×%d, labels are %d×%d", r, c, len(rec.Index), len(rec.Columns))
		}
	} else if len(rec.Index) > 0 && len(rec.Columns) > 0 {
		return fmt.Errorf("frame with %d×%d labels has no cells", len(rec.Index), len(rec.Columns))
	}

	values := make([][]float64, len(rec.Columns))
	for c := range values {
		if cells == nil {
			values[c] = []float64{}
		} else {
			values[c] = mat.Col(nil, c, cells)
		}
	}

	decoded, err := New(rec.Index, rec.Columns, values)
	if err != nil {
		return err
	}

	*f = *decoded

	return nil
}
