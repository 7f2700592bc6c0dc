package writer

import (
	"github.com/rxtech-lab/argo-alpha/internal/types"
)

// FieldColumn pairs a RawTable field with its archive column.
type FieldColumn struct {
	Field  string
	Column string
}

// FieldColumns lists, in archive order, every RawTable field the archive stores.
var FieldColumns = []FieldColumn{
	{Field: types.FieldOpen, Column: "open"},
	{Field: types.FieldHigh, Column: "high"},
	{Field: types.FieldLow, Column: "low"},
	{Field: types.FieldClose, Column: "close"},
	{Field: types.FieldAdjClose, Column: "adj_close"},
	{Field: types.FieldValue, Column: "value"},
	{Field: types.FieldVolume, Column: "volume"},
	{Field: types.FieldAdjVolume, Column: "adj_volume"},
}

// MarketDataWriter defines the interface for archiving raw tables to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// WriteTable persists every row of a raw table. Missing fields and NaN cells are stored as NULL.
	WriteTable(table types.RawTable) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
