package marketdata

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType provider.ProviderType `validate:"required,oneof=polygon binance fred"`
	DataPath     string                `validate:"required"`
	APIKey       string                `validate:"required_if=ProviderType polygon,required_if=ProviderType fred"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Tickers   []string  `validate:"required,min=1,dive,required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// OnDownloadProgress reports that current of total tickers have been processed.
type OnDownloadProgress func(current int, total int, message string)

// DownloadResult summarizes a download.
type DownloadResult struct {
	// Archived maps each written ticker to its parquet file.
	Archived map[string]string
	// Missing lists tickers the provider had no data for.
	Missing []string
}

// Client is the market data client responsible for downloading data from
// providers and archiving it as one parquet file per ticker.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress OnDownloadProgress
	logger     *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(provider.Config{
		Type:     config.ProviderType,
		APIKey:   config.APIKey,
		BaseURL:  "",
		DataPath: "",
		Series:   nil,
	})
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(config, marketProvider, onProgress, log), nil
}

// NewClientWithProvider creates a client over an existing provider.
func NewClientWithProvider(config ClientConfig, p provider.Provider, onProgress OnDownloadProgress, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:   p,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
		logger:     log,
	}
}

// Download fetches every ticker and archives it under the configured data path.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (DownloadResult, error) {
	result := DownloadResult{Archived: make(map[string]string), Missing: nil}

	if err := c.validate.Struct(params); err != nil {
		return result, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	for i, ticker := range params.Tickers {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		table, err := c.provider.Fetch(ctx, ticker, params.StartDate, params.EndDate)
		if err != nil {
			return result, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "download of %s failed", ticker)
		}

		if table.IsNone() {
			c.logger.Warn("No data for ticker", zap.String("ticker", ticker))
			result.Missing = append(result.Missing, ticker)
		} else {
			path, err := ArchiveTable(c.config.DataPath, table.Unwrap())
			if err != nil {
				return result, err
			}

			result.Archived[ticker] = path
		}

		if c.onProgress != nil {
			c.onProgress(i+1, len(params.Tickers), ticker)
		}
	}

	return result, nil
}

// ArchiveTable writes table to its parquet archive under dataPath, replacing
// any previous archive of the same ticker.
func ArchiveTable(dataPath string, table types.RawTable) (string, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data path %s", dataPath)
	}

	duckdbWriter := writer.NewDuckDBWriter(provider.ArchivePath(dataPath, table.Symbol))

	if err := duckdbWriter.Initialize(); err != nil {
		return "", err
	}
	defer duckdbWriter.Close()

	if err := duckdbWriter.WriteTable(table); err != nil {
		return "", err
	}

	return duckdbWriter.Finalize()
}
