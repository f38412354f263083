package marketdata

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
)

// DownloadConfig describes one download job. Dates accept RFC3339 or YYYY-MM-DD.
type DownloadConfig struct {
	Provider  provider.ProviderType `json:"provider" yaml:"provider" jsonschema:"title=Provider,enum=binance,enum=polygon,default=binance" validate:"required,oneof=binance polygon"`
	Ticker    string                `json:"ticker" yaml:"ticker" jsonschema:"title=Ticker,description=The trading symbol to download data for (e.g. BTCUSDT or X:BTCUSD),required" validate:"required"`
	StartDate string                `json:"startDate" yaml:"start_date" jsonschema:"title=Start Date,required" validate:"required"`
	EndDate   string                `json:"endDate" yaml:"end_date" jsonschema:"title=End Date,required" validate:"required"`
	Interval  string                `json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Bar interval,required,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d" validate:"required,oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d"`
	ApiKey    string                `json:"apiKey,omitempty" yaml:"api_key" jsonschema:"title=API Key,description=Polygon.io API key" validate:"required_if=Provider polygon"`
	DataPath  string                `json:"dataPath" yaml:"data_path" jsonschema:"title=Data Path,description=Directory for the parquet file,default=data" validate:"required"`
}

// Validate checks required fields, the interval and both dates.
func (c *DownloadConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid download config", err)
	}

	start, err := parseDate(c.StartDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid start date", err)
	}

	end, err := parseDate(c.EndDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid end date", err)
	}

	if !end.After(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end date %s must be after start date %s", c.EndDate, c.StartDate)
	}

	return nil
}

// ToDownloadParams converts a validated config to DownloadParams.
func (c *DownloadConfig) ToDownloadParams() (DownloadParams, error) {
	if err := c.Validate(); err != nil {
		return DownloadParams{}, err
	}

	start, _ := parseDate(c.StartDate)
	end, _ := parseDate(c.EndDate)

	return DownloadParams{
		Ticker:    c.Ticker,
		StartDate: start,
		EndDate:   end,
		Interval:  provider.Interval(c.Interval),
	}, nil
}

// ToClientConfig converts the config to a ClientConfig writing parquet through DuckDB.
func (c *DownloadConfig) ToClientConfig() ClientConfig {
	return ClientConfig{
		ProviderType:  c.Provider,
		WriterType:    WriterDuckDB,
		DataPath:      c.DataPath,
		PolygonApiKey: c.ApiKey,
	}
}

// ParseDownloadConfig decodes and validates a YAML download config.
func ParseDownloadConfig(data []byte) (*DownloadConfig, error) {
	config := DownloadConfig{Provider: provider.ProviderBinance, Interval: "1h", DataPath: "data"}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse download config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadDownloadConfig reads a YAML download config file.
func LoadDownloadConfig(path string) (*DownloadConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read download config %s", path)
	}

	return ParseDownloadConfig(data)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	return time.Parse(time.DateOnly, value)
}
