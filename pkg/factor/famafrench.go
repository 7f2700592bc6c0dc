package factor

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zip"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
	"go.uber.org/zap"
)

const (
	// DefaultFamaFrenchBaseURL is the Kenneth R. French data library.
	DefaultFamaFrenchBaseURL = "https://mba.tuck.dartmouth.edu/pages/faculty/ken.french/ftp"

	// DefaultFactorSet is used when no factor set is configured.
	DefaultFactorSet = "North_America_5_Factors_Daily"

	dailyDateLayout = "20060102"
)

// the library marks missing observations with these sentinels
var missingSentinels = []float64{-99.99, -999}

// FamaFrench downloads zipped CSV factor sets from the French data library.
type FamaFrench struct {
	http   *resty.Client
	logger *logger.Logger
}

// NewFamaFrench creates a FamaFrench source. An empty baseURL uses the public library.
func NewFamaFrench(baseURL string, log *logger.Logger) *FamaFrench {
	if baseURL == "" {
		baseURL = DefaultFamaFrenchBaseURL
	}

	return NewFamaFrenchWithHTTP(resty.New().SetBaseURL(baseURL).SetTimeout(60*time.Second), log)
}

// NewFamaFrenchWithHTTP creates a FamaFrench source over an existing resty client.
func NewFamaFrenchWithHTTP(client *resty.Client, log *logger.Logger) *FamaFrench {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &FamaFrench{
		http:   client,
		logger: log,
	}
}

// FetchFactorSet downloads <name>_CSV.zip and returns its daily section. Values
// are percentages, as published.
func (f *FamaFrench) FetchFactorSet(ctx context.Context, name string, start time.Time, end time.Time) (*frame.Frame, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "factor set name is required")
	}

	resp, err := f.http.R().
		SetContext(ctx).
		SetPathParam("file", name+"_CSV.zip").
		Get("/{file}")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFactorFetchFailed, err, "failed to download factor set %s", name)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeFactorFetchFailed, "factor library returned %s for %s", resp.Status(), name)
	}

	data, err := unzipFirst(resp.Body())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFactorParseFailed, err, "failed to unzip factor set %s", name)
	}

	factors, err := ParseDailyCSV(data, start, end)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Fetched factor set",
		zap.String("name", name),
		zap.Strings("factors", factors.Columns()),
		zap.Int("rows", factors.Len()),
	)

	return factors, nil
}

func unzipFirst(archive []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(rc)
		_ = rc.Close()

		return data, err
	}

	return nil, io.ErrUnexpectedEOF
}

// ParseDailyCSV reads the first YYYYMMDD section of a French library CSV. The
// section starts at a header row with an empty first cell and ends at the
// first row whose first cell is not a date. Rows outside [start, end] are
// skipped.
func ParseDailyCSV(data []byte, start time.Time, end time.Time) (*frame.Frame, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	from, to := types.CalendarDate(start), types.CalendarDate(end)

	var (
		header  []string
		index   []time.Time
		columns [][]float64
		rows    int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFactorParseFailed, "malformed factor csv", err)
		}

		first := strings.TrimSpace(record[0])

		if header == nil {
			if len(record) > 1 && first == "" {
				header = trimAll(record[1:])
				columns = make([][]float64, len(header))
			}

			continue
		}

		date, err := time.Parse(dailyDateLayout, first)
		if err != nil || len(first) != len(dailyDateLayout) {
			break
		}

		rows++

		if len(record)-1 != len(header) {
			return nil, errors.Newf(errors.ErrCodeFactorParseFailed, "row %s has %d values, header has %d", first, len(record)-1, len(header))
		}

		if date.Before(from) || date.After(to) {
			continue
		}

		for c, cell := range record[1:] {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeFactorParseFailed, err, "invalid factor value %q on %s", cell, first)
			}

			if isMissing(value) {
				value = math.NaN()
			}

			columns[c] = append(columns[c], value)
		}

		index = append(index, date)
	}

	if rows == 0 {
		return nil, errors.New(errors.ErrCodeFactorParseFailed, "factor csv has no daily section")
	}

	factors, err := frame.New(index, header, columns)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFactorParseFailed, "invalid factor table", err)
	}

	return factors, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}

	return out
}

func isMissing(value float64) bool {
	for _, sentinel := range missingSentinels {
		if value == sentinel {
			return true
		}
	}

	return false
}
