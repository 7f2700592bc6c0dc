package marketdata

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider"
)

// DateLayout is the calendar date format used by download configurations.
const DateLayout = "2006-01-02"

// DownloadConfig describes a batch download into the parquet archive.
type DownloadConfig struct {
	Provider  string   `json:"provider" jsonschema:"title=Provider,description=Market data provider,required,enum=polygon,enum=binance,enum=fred" validate:"required,oneof=polygon binance fred"`
	Tickers   []string `json:"tickers" jsonschema:"title=Tickers,description=Symbols to download (e.g. SPY or BTCUSDT),required,minItems=1" validate:"required,min=1,dive,required"`
	StartDate string   `json:"startDate" jsonschema:"title=Start Date,description=First calendar date,format=date,required" validate:"required"`
	EndDate   string   `json:"endDate" jsonschema:"title=End Date,description=Last calendar date,format=date,required" validate:"required"`
	ApiKey    string   `json:"apiKey,omitempty" jsonschema:"title=API Key,description=API key for polygon and fred" validate:"required_if=Provider polygon,required_if=Provider fred"`
}

// Validate validates the DownloadConfig fields and date order.
func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid startDate format, expected YYYY-MM-DD", err)
	}

	end, err := time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid endDate format, expected YYYY-MM-DD", err)
	}

	if !end.After(start) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "endDate %s must be after startDate %s", c.EndDate, c.StartDate)
	}

	return nil
}

// ToDownloadParams converts a DownloadConfig to DownloadParams.
func (c *DownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse startDate", err)
	}

	endDate, err := time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse endDate", err)
	}

	return DownloadParams{
		Tickers:   c.Tickers,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// ToClientConfig converts a DownloadConfig to ClientConfig.
func (c *DownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType: provider.ProviderType(c.Provider),
		DataPath:     dataPath,
		APIKey:       c.ApiKey,
	}
}

// ParseDownloadConfig parses JSON into a DownloadConfig.
func ParseDownloadConfig(jsonConfig string) (*DownloadConfig, error) {
	var config DownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
