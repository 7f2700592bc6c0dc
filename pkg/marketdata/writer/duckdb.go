package writer

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
)

// DuckDBWriter implements the MarketDataWriter interface for DuckDB.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string // Parquet file the archive is exported to
}

// NewDuckDBWriter creates a new DuckDBWriter.
// outputPath specifies the Parquet file the archive will be exported to.
func NewDuckDBWriter(outputPath string) MarketDataWriter {
	return &DuckDBWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		outputPath: outputPath,
	}
}

func createTableSQL() string {
	columns := []string{"id TEXT", "time TIMESTAMP", "symbol TEXT"}
	for _, fc := range FieldColumns {
		columns = append(columns, fc.Column+" DOUBLE")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS market_data (%s)", strings.Join(columns, ", "))
}

func insertSQL() string {
	columns := []string{"id", "time", "symbol"}
	for _, fc := range FieldColumns {
		columns = append(columns, fc.Column)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	return fmt.Sprintf("INSERT INTO market_data (%s) VALUES (%s)", strings.Join(columns, ", "), placeholders)
}

// Initialize sets up the DuckDB writer.
// It opens an in-memory database, creates the archive table,
// begins a transaction, and prepares the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open DuckDB connection", err)
	}

	if _, err = w.db.Exec(createTableSQL()); err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(insertSQL())
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// WriteTable inserts every dated row of table using the prepared statement.
func (w *DuckDBWriter) WriteTable(table types.RawTable) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or statement is nil")
	}

	if err := table.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "refusing to write malformed table", err)
	}

	args := make([]any, 3+len(FieldColumns))

	for row, date := range table.Dates {
		args[0] = uuid.New().String()
		args[1] = date
		args[2] = table.Symbol

		for i, fc := range FieldColumns {
			args[3+i] = nullable(table.Fields[fc.Field], row)
		}

		if _, err := w.stmt.Exec(args...); err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to insert %s row %d", table.Symbol, row)
		}
	}

	return nil
}

// nullable maps a missing field or NaN cell to SQL NULL.
func nullable(values []float64, row int) sql.NullFloat64 {
	if values == nil || math.IsNaN(values[row]) {
		return sql.NullFloat64{Float64: 0, Valid: false}
	}

	return sql.NullFloat64{Float64: values[row], Valid: true}
}

// Finalize commits the transaction and exports the data to a Parquet file.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	_, err = w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (FORMAT PARQUET)`, w.outputPath))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export to Parquet", err)
	}

	return w.outputPath, nil
}

// Close cleans up resources used by the writer, including closing the statement
// and the database connection. An unfinished transaction is rolled back.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "errors occurred during close:\n- "+strings.Join(closeErrors, "\n- "))
	}

	return nil
}

// GetOutputPath returns the configured output file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}
