package pipeline

import (
	"math"

	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Field fallbacks, first available wins.
var (
	PriceFields  = []string{types.FieldAdjClose, types.FieldClose, types.FieldValue}
	OpenFields   = []string{types.FieldOpen}
	CloseFields  = []string{types.FieldClose}
	VolumeFields = []string{types.FieldAdjVolume, types.FieldVolume}
)

// Extracted holds the outer-joined matrices built from raw tables.
type Extracted struct {
	Prices  *frame.Frame
	Opens   *frame.Frame
	Closes  *frame.Frame
	Volumes *frame.Frame
	Sigmas  *frame.Frame
}

// Extract builds price, open, close, volume and sigma matrices from tables.
// Columns are the tickers of order that have a table, in order; the index is
// the union of their dates. A table lacking every candidate of a series
// contributes an all-NaN column to it.
func Extract(tables map[string]types.RawTable, order []string) Extracted {
	columns := make([]string, 0, len(order))
	for _, ticker := range dedupe(order) {
		if _, ok := tables[ticker]; ok {
			columns = append(columns, ticker)
		}
	}

	prices := buildMatrix(tables, columns, PriceFields)
	opens := reindex(buildMatrix(tables, columns, OpenFields), prices)
	closes := reindex(buildMatrix(tables, columns, CloseFields), prices)

	return Extracted{
		Prices:  prices,
		Opens:   opens,
		Closes:  closes,
		Volumes: reindex(buildMatrix(tables, columns, VolumeFields), prices),
		Sigmas:  Sigma(opens, closes),
	}
}

func buildMatrix(tables map[string]types.RawTable, columns []string, candidates []string) *frame.Frame {
	series := make(map[string]frame.Series, len(columns))

	for _, ticker := range columns {
		table := tables[ticker]

		_, values, ok := table.FirstField(candidates...)
		if !ok {
			// keep the dates so the column joins as all-NaN
			values = make([]float64, table.Len())
			for i := range values {
				values[i] = math.NaN()
			}
		}

		series[ticker] = table.Series(values)
	}

	return frame.FromSeries(columns, series)
}

// reindex puts m on the labels of like. Every matrix is built over the same
// tables, so the indexes already agree; this only guards against drift.
func reindex(m *frame.Frame, like *frame.Frame) *frame.Frame {
	if m.SameLabels(like) {
		return m
	}

	return like.Combine(m, func(_, b float64) float64 { return b })
}

// Sigma returns |ln(open) - ln(close)| cell by cell. Non-positive or missing
// inputs give NaN.
func Sigma(opens *frame.Frame, closes *frame.Frame) *frame.Frame {
	return opens.Combine(closes, func(o, c float64) float64 {
		if !(o > 0) || !(c > 0) {
			return math.NaN()
		}

		return math.Abs(math.Log(o) - math.Log(c))
	})
}
