package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderFRED    ProviderType = "fred"
	ProviderParquet ProviderType = "parquet"
)

// AllProviders lists the provider types accepted in configuration.
var AllProviders = []any{
	string(ProviderPolygon),
	string(ProviderBinance),
	string(ProviderFRED),
	string(ProviderParquet),
}

type Provider interface {
	// Fetch returns the daily history of ticker between startDate and endDate
	// inclusive, keyed by calendar date.
	// None means the source has no data for ticker; that is not an error.
	// example:
	// Fetch(ctx, "AAPL", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC))
	Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (optional.Option[types.RawTable], error)
}

// Config selects and configures a provider.
type Config struct {
	Type ProviderType
	// APIKey authenticates against polygon and fred.
	APIKey string
	// BaseURL overrides the fred endpoint.
	BaseURL string
	// DataPath is the parquet archive directory for the parquet provider.
	DataPath string
	// Series maps tickers to fred series ids, e.g. USDOLLAR -> DTB3.
	Series map[string]string
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(config Config) (Provider, error) {
	switch config.Type {
	case ProviderPolygon:
		return NewPolygonClient(config.APIKey)
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderFRED:
		return NewFREDClient(config.APIKey, config.BaseURL, config.Series)
	case ProviderParquet:
		source, err := NewParquetSource(config.DataPath)
		if err != nil {
			return nil, err
		}

		return source, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", config.Type)
	}
}
