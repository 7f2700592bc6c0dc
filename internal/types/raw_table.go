package types

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Field names a RawTable may carry. Sources fill whichever subset they have.
const (
	FieldOpen      = "Open"
	FieldHigh      = "High"
	FieldLow       = "Low"
	FieldClose     = "Close"
	FieldAdjClose  = "Adj. Close"
	FieldValue     = "Value"
	FieldVolume    = "Volume"
	FieldAdjVolume = "Adj. Volume"
)

// RawTable is the unaligned daily history of one instrument as returned by a
// data source. Every field slice is parallel to Dates; NaN marks a missing cell.
type RawTable struct {
	Symbol string
	Dates  []time.Time
	Fields map[string][]float64
}

// NewRawTable returns an empty table for symbol.
func NewRawTable(symbol string) RawTable {
	return RawTable{
		Symbol: symbol,
		Dates:  nil,
		Fields: make(map[string][]float64),
	}
}

// RawTableFromMarketData converts bars into a table with Open, High, Low,
// Close and Volume fields. Bars are keyed by calendar date and sorted; when two
// bars share a date the later one wins.
func RawTableFromMarketData(symbol string, bars []MarketData) RawTable {
	byDate := make(map[time.Time]MarketData, len(bars))
	for _, bar := range bars {
		byDate[CalendarDate(bar.Time)] = bar
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := NewRawTable(symbol)
	table.Dates = dates

	for _, name := range []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume} {
		table.Fields[name] = make([]float64, len(dates))
	}

	for i, d := range dates {
		bar := byDate[d]
		table.Fields[FieldOpen][i] = bar.Open
		table.Fields[FieldHigh][i] = bar.High
		table.Fields[FieldLow][i] = bar.Low
		table.Fields[FieldClose][i] = bar.Close
		table.Fields[FieldVolume][i] = bar.Volume
	}

	return table
}

// Len returns the number of dated rows.
func (t RawTable) Len() int {
	return len(t.Dates)
}

// Field returns the named field.
func (t RawTable) Field(name string) ([]float64, bool) {
	values, ok := t.Fields[name]

	return values, ok
}

// FirstField returns the first of the candidate fields the table carries.
func (t RawTable) FirstField(candidates ...string) (string, []float64, bool) {
	for _, name := range candidates {
		if values, ok := t.Fields[name]; ok {
			return name, values, true
		}
	}

	return "", nil, false
}

// Series returns a field as a frame series.
func (t RawTable) Series(values []float64) frame.Series {
	return frame.Series{Index: t.Dates, Values: values}
}

// FieldNames returns the carried field names, sorted.
func (t RawTable) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Validate checks that every field is parallel to Dates and dates are strictly ascending.
func (t RawTable) Validate() error {
	for i := 1; i < len(t.Dates); i++ {
		if !t.Dates[i].After(t.Dates[i-1]) {
			return fmt.Errorf("%s: dates not strictly ascending at row %d", t.Symbol, i)
		}
	}

	for name, values := range t.Fields {
		if len(values) != len(t.Dates) {
			return fmt.Errorf("%s: field %q has %d values for %d dates", t.Symbol, name, len(values), len(t.Dates))
		}
	}

	return nil
}
