// Package frame implements a date-indexed table of float64 columns keyed by
// instrument identifier.
//
// A Frame has an ascending, duplicate-free date index and an ordered set of
// unique column names. Cells live in a gonum dense matrix with one row per
// date and one column per instrument. Missing cells are NaN. Every operation
// returns a new Frame; a Frame is never modified after it is built.
//
// Join semantics:
//   - FromSeries builds a frame by outer join: the index is the sorted union
//     of every series' dates, dates a series lacks become NaN.
//   - Combine and Mul align the other frame on the receiver's labels: cells
//     whose date or column is missing from the other frame become NaN.
//
// Fill semantics:
//   - ForwardFill carries the last non-NaN value down each column. Leading
//     NaNs stay NaN; there is no backward fill.
package frame

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Series is a single dated column used to build a Frame.
type Series struct {
	Index  []time.Time
	Values []float64
}

// Frame is an immutable date × column table.
type Frame struct {
	index   []time.Time
	columns []string
	pos     map[string]int
	rows    map[int64]int
	// data is len(index) × len(columns), nil when either is zero.
	data *mat.Dense
}

// New builds a frame from column-major values. The index must be strictly
// ascending and columns unique; values must be len(columns) × len(index).
func New(index []time.Time, columns []string, values [][]float64) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("index must be strictly ascending: %s at position %d", index[i].Format(time.DateOnly), i)
		}
	}

	if len(values) != len(columns) {
		return nil, fmt.Errorf("got %d value columns for %d column names", len(values), len(columns))
	}

	for c, col := range values {
		if len(col) != len(index) {
			return nil, fmt.Errorf("column %s has %d values, index has %d", columns[c], len(col), len(index))
		}
	}

	data := newDense(len(index), len(columns))
	if data != nil {
		for c, col := range values {
			data.SetCol(c, col)
		}
	}

	f := build(slices.Clone(index), slices.Clone(columns), data)
	if len(f.pos) != len(columns) {
		return nil, fmt.Errorf("duplicate column names in %v", columns)
	}

	return f, nil
}

// FromSeries outer-joins the named series into a frame whose columns follow
// the given order. A column without a series is entirely NaN. When a series
// repeats a date, the last value wins.
func FromSeries(columns []string, series map[string]Series) *Frame {
	seen := make(map[int64]time.Time)

	for _, name := range columns {
		for _, t := range series[name].Index {
			seen[t.UnixNano()] = t
		}
	}

	index := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		index = append(index, t)
	}

	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	out := empty(index, uniqueColumns(columns))
	for c, name := range out.columns {
		s, ok := series[name]
		if !ok {
			continue
		}

		for i, t := range s.Index {
			if i >= len(s.Values) {
				break
			}

			out.data.Set(out.rows[t.UnixNano()], c, s.Values[i])
		}
	}

	return out
}

// empty returns a frame with the given labels where every cell is NaN.
func empty(index []time.Time, columns []string) *Frame {
	var data *mat.Dense
	if len(index) > 0 && len(columns) > 0 {
		data = mat.NewDense(len(index), len(columns), nanSlice(len(index)*len(columns)))
	}

	return build(slices.Clone(index), slices.Clone(columns), data)
}

// newDense returns a zeroed r × c matrix, or nil when it would be empty.
func newDense(r int, c int) *mat.Dense {
	if r == 0 || c == 0 {
		return nil
	}

	return mat.NewDense(r, c, nil)
}

func build(index []time.Time, columns []string, data *mat.Dense) *Frame {
	f := &Frame{
		index:   index,
		columns: columns,
		pos:     make(map[string]int, len(columns)),
		rows:    make(map[int64]int, len(index)),
		data:    data,
	}

	for i, name := range columns {
		f.pos[name] = i
	}

	for i, t := range index {
		f.rows[t.UnixNano()] = i
	}

	return f
}

// Index returns a copy of the date index.
func (f *Frame) Index() []time.Time {
	return slices.Clone(f.index)
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.columns)
}

// HasColumn reports whether the frame has the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.pos[name]

	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.pos[name]
	if !ok {
		return nil, false
	}

	return f.col(c), true
}

func (f *Frame) col(c int) []float64 {
	if f.data == nil {
		return []float64{}
	}

	return mat.Col(nil, c, f.data)
}

// At returns the cell at the given row position and column name, NaN when the
// column does not exist.
func (f *Frame) At(row int, name string) float64 {
	c, ok := f.pos[name]
	if !ok || row < 0 || row >= len(f.index) {
		return math.NaN()
	}

	return f.data.At(row, c)
}

// NullCountByColumn returns the number of NaN cells per column, in column order.
func (f *Frame) NullCountByColumn() []int {
	counts := make([]int, len(f.columns))
	for c := range counts {
		counts[c] = floats.Count(math.IsNaN, f.col(c))
	}

	return counts
}

// NullCountByRow returns the number of NaN cells per row, in index order.
func (f *Frame) NullCountByRow() []int {
	counts := make([]int, len(f.index))
	if f.data == nil {
		return counts
	}

	for r := range counts {
		counts[r] = floats.Count(math.IsNaN, f.data.RawRowView(r))
	}

	return counts
}

// HasGap reports whether any column has a NaN after its first non-NaN value.
// A forward-filled frame has none; its leading NaNs are not gaps.
func (f *Frame) HasGap() bool {
	for c := range f.columns {
		started := false

		for _, v := range f.col(c) {
			switch {
			case !math.IsNaN(v):
				started = true
			case started:
				return true
			}
		}
	}

	return false
}

// DropColumns returns the frame without the named columns. Unknown names are ignored.
func (f *Frame) DropColumns(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	keep := make([]string, 0, len(f.columns))
	for _, name := range f.columns {
		if _, ok := drop[name]; !ok {
			keep = append(keep, name)
		}
	}

	return f.selectColumns(keep)
}

func (f *Frame) selectColumns(names []string) *Frame {
	data := newDense(len(f.index), len(names))
	if data != nil {
		for i, name := range names {
			data.SetCol(i, f.col(f.pos[name]))
		}
	}

	return build(slices.Clone(f.index), slices.Clone(names), data)
}

// DropDates returns the frame without the given dates. Dates not in the index are ignored.
func (f *Frame) DropDates(dates []time.Time) *Frame {
	drop := make(map[int64]struct{}, len(dates))
	for _, t := range dates {
		drop[t.UnixNano()] = struct{}{}
	}

	return f.filterRows(func(r int) bool {
		_, ok := drop[f.index[r].UnixNano()]

		return !ok
	})
}

// DropHead returns the frame without its first n rows.
func (f *Frame) DropHead(n int) *Frame {
	return f.filterRows(func(r int) bool { return r >= n })
}

func (f *Frame) filterRows(keep func(r int) bool) *Frame {
	index := make([]time.Time, 0, len(f.index))
	rows := make([]int, 0, len(f.index))

	for r := range f.index {
		if keep(r) {
			index = append(index, f.index[r])
			rows = append(rows, r)
		}
	}

	data := newDense(len(rows), len(f.columns))
	if data != nil {
		for i, r := range rows {
			data.SetRow(i, f.data.RawRowView(r))
		}
	}

	return build(index, slices.Clone(f.columns), data)
}

// ForwardFill carries the last non-NaN value of each column forward.
func (f *Frame) ForwardFill() *Frame {
	data := newDense(len(f.index), len(f.columns))
	if data == nil {
		return build(slices.Clone(f.index), slices.Clone(f.columns), nil)
	}

	for c := range f.columns {
		col := f.col(c)
		last := math.NaN()

		for r, v := range col {
			if math.IsNaN(v) {
				col[r] = last
			} else {
				last = v
			}
		}

		data.SetCol(c, col)
	}

	return build(slices.Clone(f.index), slices.Clone(f.columns), data)
}

// aligned returns other's cells on the receiver's labels, NaN where other
// lacks the date or the column.
func (f *Frame) aligned(other *Frame) *mat.Dense {
	out := empty(f.index, f.columns).data
	if out == nil {
		return nil
	}

	for c, name := range f.columns {
		oc, ok := other.pos[name]
		if !ok {
			continue
		}

		for r, t := range f.index {
			if or, ok := other.rows[t.UnixNano()]; ok {
				out.Set(r, c, other.data.At(or, oc))
			}
		}
	}

	return out
}

// Combine applies fn cell by cell to the receiver and other, aligned on the
// receiver's dates and columns. Cells missing from other are passed as NaN.
func (f *Frame) Combine(other *Frame, fn func(a, b float64) float64) *Frame {
	b := f.aligned(other)
	if b == nil {
		return build(slices.Clone(f.index), slices.Clone(f.columns), nil)
	}

	data := newDense(len(f.index), len(f.columns))
	data.Apply(func(r, c int, a float64) float64 { return fn(a, b.At(r, c)) }, f.data)

	return build(slices.Clone(f.index), slices.Clone(f.columns), data)
}

// Mul multiplies two frames cell by cell; see Combine for alignment.
func (f *Frame) Mul(other *Frame) *Frame {
	b := f.aligned(other)
	if b == nil {
		return build(slices.Clone(f.index), slices.Clone(f.columns), nil)
	}

	data := newDense(len(f.index), len(f.columns))
	data.MulElem(f.data, b)

	return build(slices.Clone(f.index), slices.Clone(f.columns), data)
}

// PctChange returns (x[t] - x[t-1]) / x[t-1] per column. The first row is NaN.
func (f *Frame) PctChange() *Frame {
	out := empty(f.index, f.columns)
	if len(f.index) < 2 {
		return out
	}

	for c := range f.columns {
		x := f.col(c)
		change := make([]float64, len(x))
		change[0] = math.NaN()

		floats.SubTo(change[1:], x[1:], x[:len(x)-1])
		floats.Div(change[1:], x[:len(x)-1])

		out.data.SetCol(c, change)
	}

	return out
}

// WithColumn returns the frame with the named column replaced, or appended
// when it does not exist. values must have one entry per row.
func (f *Frame) WithColumn(name string, values []float64) (*Frame, error) {
	if len(values) != len(f.index) {
		return nil, fmt.Errorf("column %s has %d values, index has %d", name, len(values), len(f.index))
	}

	columns := slices.Clone(f.columns)
	target, ok := f.pos[name]

	if !ok {
		columns = append(columns, name)
		target = len(columns) - 1
	}

	data := newDense(len(f.index), len(columns))
	if data == nil {
		return build(slices.Clone(f.index), columns, nil), nil
	}

	for c := range f.columns {
		if c != target {
			data.SetCol(c, f.col(c))
		}
	}

	data.SetCol(target, values)

	return build(slices.Clone(f.index), columns, data), nil
}

// SameLabels reports whether both frames have identical indexes and columns.
func (f *Frame) SameLabels(other *Frame) bool {
	if !slices.Equal(f.columns, other.columns) || len(f.index) != len(other.index) {
		return false
	}

	for i := range f.index {
		if !f.index[i].Equal(other.index[i]) {
			return false
		}
	}

	return true
}

// Equal reports whether both frames have identical labels and cells,
// treating NaN as equal to NaN.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}

	if !f.SameLabels(other) {
		return false
	}

	if f.data == nil {
		return true
	}

	for r := range f.index {
		if !floats.Same(f.data.RawRowView(r), other.data.RawRowView(r)) {
			return false
		}
	}

	return true
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}

	return s
}

func uniqueColumns(columns []string) []string {
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, 0, len(columns))

	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}
