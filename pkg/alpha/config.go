package alpha

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-alpha/internal/pipeline"
	"github.com/rxtech-lab/argo-alpha/internal/snapshot"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/factor"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar date format used in configuration files.
const DateLayout = "2006-01-02"

// Config is the configuration of an alpha model. It is read from YAML with an
// optional top-level "alpha" key.
type Config struct {
	Name       string                  `yaml:"name" json:"name" jsonschema:"title=Name,description=Model name used in snapshot file names,required" validate:"required,excludesall=/\\"`
	Model      ModelConfig             `yaml:"model" json:"model" jsonschema:"title=Model,required"`
	Universe   UniverseConfig          `yaml:"universe" json:"universe" jsonschema:"title=Universe,required"`
	DataSource DataSourceConfig        `yaml:"data_source" json:"data_source" jsonschema:"title=Data source"`
	Factors    FactorConfig            `yaml:"factors" json:"factors" jsonschema:"title=Factors"`
	Fetch      FetchConfig             `yaml:"fetch" json:"fetch" jsonschema:"title=Fetch"`
	Filters    pipeline.Thresholds     `yaml:"filters" json:"filters" jsonschema:"title=Quality filters"`
	RiskFree   pipeline.RiskFreeParams `yaml:"risk_free" json:"risk_free" jsonschema:"title=Risk-free compounding"`
}

// ModelConfig holds the data directory and the date range of the dataset.
type ModelConfig struct {
	DataDir   string `yaml:"data_dir" json:"data_dir" jsonschema:"title=Data directory,description=Where snapshots are written,required" validate:"required"`
	StartDate string `yaml:"start_date" json:"start_date" jsonschema:"title=Start date,format=date,required" validate:"required,datetime=2006-01-02"`
	EndDate   string `yaml:"end_date" json:"end_date" jsonschema:"title=End date,format=date,required" validate:"required,datetime=2006-01-02"`
	// Params is passed through to model implementations.
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"title=Model parameters"`
}

// UniverseConfig is either a literal list or a column of a CSV or XLSX file.
type UniverseConfig struct {
	List           []string `yaml:"list,omitempty" json:"list,omitempty" jsonschema:"title=Tickers" validate:"required_without=Path,excluded_with=Path,dive,required"`
	Path           string   `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"title=Reference table,description=CSV or XLSX file holding the tickers" validate:"required_without=List"`
	TickerCol      string   `yaml:"ticker_col,omitempty" json:"ticker_col,omitempty" jsonschema:"title=Ticker column" validate:"required_with=Path"`
	Sheet          string   `yaml:"sheet,omitempty" json:"sheet,omitempty" jsonschema:"title=Sheet,description=XLSX sheet name (first sheet when empty)"`
	RiskFreeSymbol string   `yaml:"risk_free_symbol" json:"risk_free_symbol" jsonschema:"title=Risk-free symbol,required" validate:"required"`
}

// DataSourceConfig selects where instrument and risk-free histories come from.
type DataSourceConfig struct {
	Provider         string `yaml:"provider" json:"provider" jsonschema:"title=Provider,enum=polygon,enum=binance,enum=fred,enum=parquet,default=polygon" validate:"required,oneof=polygon binance fred parquet"`
	RiskFreeProvider string `yaml:"risk_free_provider,omitempty" json:"risk_free_provider,omitempty" jsonschema:"title=Risk-free provider,enum=polygon,enum=binance,enum=fred,enum=parquet" validate:"omitempty,oneof=polygon binance fred parquet"`
	// APIKeyEnv names the environment variable holding the provider API key.
	APIKeyEnv         string `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty" jsonschema:"title=API key variable"`
	RiskFreeAPIKeyEnv string `yaml:"risk_free_api_key_env,omitempty" json:"risk_free_api_key_env,omitempty" jsonschema:"title=Risk-free API key variable"`
	// ArchiveDir is read by the parquet provider. Defaults to the data directory.
	ArchiveDir string `yaml:"archive_dir,omitempty" json:"archive_dir,omitempty" jsonschema:"title=Parquet archive directory"`
}

// FactorConfig names the factor set merged into the dataset.
type FactorConfig struct {
	Name    string `yaml:"name" json:"name" jsonschema:"title=Factor set,default=North_America_5_Factors_Daily"`
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"title=Factor library URL"`
	Skip    bool   `yaml:"skip,omitempty" json:"skip,omitempty" jsonschema:"title=Skip factors"`
}

// FetchConfig tunes the per-ticker download loop.
type FetchConfig struct {
	Concurrency       int     `yaml:"concurrency" json:"concurrency" jsonschema:"title=Concurrency,default=1" validate:"gte=0"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" jsonschema:"title=Requests per second,description=0 disables the limit" validate:"gte=0"`
}

// DefaultConfig returns a configuration with every optional section set to
// its default. ParseConfig decodes over it.
func DefaultConfig() Config {
	return Config{
		Name:     "",
		Model:    ModelConfig{DataDir: "", StartDate: "", EndDate: "", Params: nil},
		Universe: UniverseConfig{List: nil, Path: "", TickerCol: "", Sheet: "", RiskFreeSymbol: ""},
		DataSource: DataSourceConfig{
			Provider:          "polygon",
			RiskFreeProvider:  "",
			APIKeyEnv:         "",
			RiskFreeAPIKeyEnv: "",
			ArchiveDir:        "",
		},
		Factors:  FactorConfig{Name: factor.DefaultFactorSet, BaseURL: "", Skip: false},
		Fetch:    FetchConfig{Concurrency: 1, RequestsPerSecond: 0},
		Filters:  pipeline.DefaultThresholds(),
		RiskFree: pipeline.DefaultRiskFreeParams(),
	}
}

// ParseConfig decodes YAML into a validated Config. The document may be the
// configuration itself or hold it under an "alpha" key.
func ParseConfig(data []byte) (Config, error) {
	var root struct {
		Alpha *yaml.Node `yaml:"alpha"`
	}

	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	config := DefaultConfig()

	var err error
	if root.Alpha != nil {
		err = root.Alpha.Decode(&config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}

	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decode config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return ParseConfig(data)
}

// Validate checks struct constraints and the date range.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	start, end, err := c.Model.Dates()
	if err != nil {
		return err
	}

	if !end.After(start) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "end_date %s must be after start_date %s", c.Model.EndDate, c.Model.StartDate)
	}

	return nil
}

// Dates parses the start and end dates as midnight UTC.
func (m ModelConfig) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, m.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid start_date, expected YYYY-MM-DD", err)
	}

	end, err := time.Parse(DateLayout, m.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid end_date, expected YYYY-MM-DD", err)
	}

	return start, end, nil
}

// APIKey returns the value of the configured API key variable.
func (d DataSourceConfig) APIKey() string {
	if d.APIKeyEnv == "" {
		return ""
	}

	return os.Getenv(d.APIKeyEnv)
}

// RiskFreeAPIKey returns the risk-free provider key, falling back to APIKey.
func (d DataSourceConfig) RiskFreeAPIKey() string {
	if d.RiskFreeAPIKeyEnv == "" {
		return d.APIKey()
	}

	return os.Getenv(d.RiskFreeAPIKeyEnv)
}

// Echo returns the settings a snapshot must match to be reused.
func (c Config) Echo(universe Universe) snapshot.ConfigEcho {
	start, end, _ := c.Model.Dates()

	factorSet := c.Factors.Name
	if c.Factors.Skip {
		factorSet = ""
	}

	return snapshot.ConfigEcho{
		Name:           c.Name,
		Universe:       universe.Symbols(),
		RiskFreeSymbol: universe.RiskFreeSymbol,
		StartDate:      start,
		EndDate:        end,
		FactorSet:      factorSet,
		Provider:       c.DataSource.Provider,
	}
}

// PipelineConfig returns the pipeline settings of this model.
func (c Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		RiskFreeSymbol: c.Universe.RiskFreeSymbol,
		RiskFree:       c.RiskFree,
		Thresholds:     c.Filters,
	}
}
