package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
)

const (
	// DefaultFREDBaseURL is the public FRED API endpoint.
	DefaultFREDBaseURL = "https://api.stlouisfed.org/fred"

	fredDateLayout = "2006-01-02"
	// fred reports a missing observation as a single dot.
	fredMissingValue = "."
)

// DefaultFREDSeries maps well-known tickers to FRED series ids.
var DefaultFREDSeries = map[string]string{
	"USDOLLAR": "DTB3",
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredObservationsResponse struct {
	Observations []fredObservation `json:"observations"`
}

type fredErrorResponse struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// FREDClient loads economic series from the St. Louis Fed API into the Value field.
type FREDClient struct {
	http   *resty.Client
	apiKey string
	series map[string]string
}

func NewFREDClient(apiKey string, baseURL string, series map[string]string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	if baseURL == "" {
		baseURL = DefaultFREDBaseURL
	}

	return NewFREDClientWithHTTP(resty.New().SetBaseURL(baseURL).SetTimeout(30*time.Second), apiKey, series), nil
}

// NewFREDClientWithHTTP creates a FREDClient over an existing resty client.
func NewFREDClientWithHTTP(client *resty.Client, apiKey string, series map[string]string) *FREDClient {
	mapping := make(map[string]string, len(DefaultFREDSeries)+len(series))
	for k, v := range DefaultFREDSeries {
		mapping[k] = v
	}

	for k, v := range series {
		mapping[k] = v
	}

	return &FREDClient{
		http:   client,
		apiKey: apiKey,
		series: mapping,
	}
}

// SeriesID returns the FRED series id used for ticker. Unmapped tickers are used verbatim.
func (c *FREDClient) SeriesID(ticker string) string {
	if id, ok := c.series[ticker]; ok {
		return id
	}

	return ticker
}

// Fetch downloads the observations of ticker's series between startDate and endDate.
func (c *FREDClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (optional.Option[types.RawTable], error) {
	var body fredObservationsResponse

	var apiErr fredErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"series_id":         c.SeriesID(ticker),
			"api_key":           c.apiKey,
			"file_type":         "json",
			"observation_start": startDate.Format(fredDateLayout),
			"observation_end":   endDate.Format(fredDateLayout),
		}).
		SetResult(&body).
		SetError(&apiErr).
		Get("/series/observations")
	if err != nil {
		return optional.None[types.RawTable](), errors.Wrap(errors.ErrCodeMarketDataFetchFailed,
			fmt.Sprintf("failed to fetch FRED series for %s", ticker), err)
	}

	// fred answers an unknown series with 400 Bad Request
	if resp.StatusCode() == http.StatusBadRequest {
		return optional.None[types.RawTable](), nil
	}

	if resp.IsError() {
		return optional.None[types.RawTable](), errors.Newf(errors.ErrCodeMarketDataFetchFailed,
			"FRED returned %s for %s: %s", resp.Status(), ticker, apiErr.ErrorMessage)
	}

	if len(body.Observations) == 0 {
		return optional.None[types.RawTable](), nil
	}

	table, err := observationsToTable(ticker, body.Observations)
	if err != nil {
		return optional.None[types.RawTable](), err
	}

	return optional.Some(table), nil
}

func observationsToTable(ticker string, observations []fredObservation) (types.RawTable, error) {
	bars := make([]types.MarketData, 0, len(observations))

	for _, obs := range observations {
		date, err := time.Parse(fredDateLayout, obs.Date)
		if err != nil {
			return types.RawTable{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid FRED date %q for %s", obs.Date, ticker)
		}

		value := math.NaN()
		if obs.Value != fredMissingValue {
			value, err = strconv.ParseFloat(obs.Value, 64)
			if err != nil {
				return types.RawTable{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid FRED value %q for %s", obs.Value, ticker)
			}
		}

		bars = append(bars, types.MarketData{Symbol: ticker, Time: date, Close: value})
	}

	merged := types.RawTableFromMarketData(ticker, bars)

	table := types.NewRawTable(ticker)
	table.Dates = merged.Dates
	table.Fields[types.FieldValue] = merged.Fields[types.FieldClose]

	return table, nil
}
