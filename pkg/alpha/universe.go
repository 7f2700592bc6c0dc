package alpha

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Universe is the ordered, duplicate-free list of instruments of a model and
// its risk-free symbol.
type Universe struct {
	Tickers        []string
	RiskFreeSymbol string
}

// Symbols returns the tickers to fetch: the instruments in order, followed by
// the risk-free symbol when the list does not already hold it.
func (u Universe) Symbols() []string {
	symbols := slices.Clone(u.Tickers)
	if !slices.Contains(symbols, u.RiskFreeSymbol) {
		symbols = append(symbols, u.RiskFreeSymbol)
	}

	return symbols
}

// ResolveUniverse builds the universe from a literal list or a reference table.
func ResolveUniverse(config UniverseConfig) (Universe, error) {
	if config.RiskFreeSymbol == "" {
		return Universe{}, errors.New(errors.ErrCodeInvalidConfiguration, "universe requires a risk_free_symbol")
	}

	var (
		tickers []string
		err     error
	)

	switch {
	case len(config.List) > 0 && config.Path != "":
		return Universe{}, errors.New(errors.ErrCodeInvalidConfiguration, "universe takes either list or path, not both")
	case len(config.List) > 0:
		tickers = config.List
	case config.Path != "":
		tickers, err = readTickerColumn(config.Path, config.TickerCol, config.Sheet)
		if err != nil {
			return Universe{}, err
		}
	default:
		return Universe{}, errors.New(errors.ErrCodeInvalidConfiguration,
			"universe must be a list with risk_free_symbol or a path with ticker_col and risk_free_symbol")
	}

	tickers = normalizeTickers(tickers)
	if len(tickers) == 0 {
		return Universe{}, errors.New(errors.ErrCodeInvalidConfiguration, "universe is empty")
	}

	return Universe{Tickers: tickers, RiskFreeSymbol: config.RiskFreeSymbol}, nil
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))

	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true
		out = append(out, t)
	}

	return out
}

func readTickerColumn(path string, column string, sheet string) ([]string, error) {
	if column == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "universe path requires ticker_col")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelColumn(path, column, sheet)
	case ".csv", ".tsv", ".txt":
		return readCSVColumn(path, column)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported universe file %s, expected csv or xlsx", path)
	}
}

// readCSVColumn lets DuckDB sniff the delimiter and header of the file.
func readCSVColumn(path string, column string) ([]string, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to open duckdb", err)
	}
	defer db.Close()

	query, args, err := squirrel.
		Select(fmt.Sprintf(`"%s"`, strings.ReplaceAll(column, `"`, `""`))).
		From(fmt.Sprintf("read_csv_auto('%s', header = true, all_varchar = true)", strings.ReplaceAll(path, "'", "''"))).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to build universe query", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read column %s of %s", column, path)
	}
	defer rows.Close()

	var tickers []string

	for rows.Next() {
		var ticker sql.NullString
		if err := rows.Scan(&ticker); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read universe %s", path)
		}

		if ticker.Valid {
			tickers = append(tickers, ticker.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read universe %s", path)
	}

	return tickers, nil
}

func readExcelColumn(path string, column string, sheet string) ([]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to open universe %s", path)
	}
	defer book.Close()

	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "universe %s has no sheets", path)
		}

		sheet = sheets[0]
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read sheet %s of %s", sheet, path)
	}

	if len(rows) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "sheet %s of %s is empty", sheet, path)
	}

	col := slices.IndexFunc(rows[0], func(name string) bool {
		return strings.TrimSpace(name) == column
	})
	if col < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "column %s not found in %s", column, path)
	}

	tickers := make([]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		// excelize trims trailing empty cells
		if col < len(row) {
			tickers = append(tickers, row[col])
		}
	}

	return tickers, nil
}
