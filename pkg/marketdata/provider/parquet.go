package provider

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/writer"
)

// ArchivePath returns the parquet file holding ticker's archive under dataPath.
func ArchivePath(dataPath string, ticker string) string {
	return filepath.Join(dataPath, ticker+".parquet")
}

// ParquetSource serves tickers from a directory of parquet archives written by
// writer.DuckDBWriter, one file per ticker.
type ParquetSource struct {
	db       *sql.DB
	sq       squirrel.StatementBuilderType
	dataPath string
}

func NewParquetSource(dataPath string) (*ParquetSource, error) {
	if dataPath == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "dataPath is required")
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}

	return &ParquetSource{
		db:       db,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		dataPath: dataPath,
	}, nil
}

// Fetch reads ticker's rows between startDate and endDate from its archive.
// Columns that are NULL on every returned row are left out of the table.
func (s *ParquetSource) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (optional.Option[types.RawTable], error) {
	path := ArchivePath(s.dataPath, ticker)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return optional.None[types.RawTable](), nil
	}

	columns := []string{"time"}
	for _, fc := range writer.FieldColumns {
		columns = append(columns, fc.Column)
	}

	query, args, err := s.sq.
		Select(columns...).
		From(fmt.Sprintf("read_parquet('%s')", path)).
		Where(squirrel.Eq{"symbol": ticker}).
		Where(squirrel.GtOrEq{"time": startDate}).
		Where(squirrel.LtOrEq{"time": endDate}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return optional.None[types.RawTable](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build archive query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return optional.None[types.RawTable](), errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query archive %s", path)
	}
	defer rows.Close()

	table := types.NewRawTable(ticker)
	values := make([][]float64, len(writer.FieldColumns))
	present := make([]bool, len(writer.FieldColumns))

	cells := make([]sql.NullFloat64, len(writer.FieldColumns))
	dest := make([]any, 1+len(cells))

	var ts time.Time

	dest[0] = &ts
	for i := range cells {
		dest[1+i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return optional.None[types.RawTable](), errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan archive row for %s", ticker)
		}

		table.Dates = append(table.Dates, types.CalendarDate(ts))

		for i, cell := range cells {
			v := math.NaN()
			if cell.Valid {
				v = cell.Float64
				present[i] = true
			}

			values[i] = append(values[i], v)
		}
	}

	if err := rows.Err(); err != nil {
		return optional.None[types.RawTable](), errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read archive %s", path)
	}

	if table.Len() == 0 {
		return optional.None[types.RawTable](), nil
	}

	for i, fc := range writer.FieldColumns {
		if present[i] {
			table.Fields[fc.Field] = values[i]
		}
	}

	return optional.Some(table), nil
}

// Close releases the DuckDB connection.
func (s *ParquetSource) Close() error {
	return s.db.Close()
}
