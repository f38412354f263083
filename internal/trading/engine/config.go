package engine

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// Default configuration values.
const (
	DefaultSymbol       = "BTCUSDT"
	DefaultInterval     = "1h"
	DefaultLookback     = 500
	DefaultPollInterval = time.Hour
	DefaultErrorBackoff = 60 * time.Second
	DefaultTradeAmount  = 100.0
)

// LiveTradingEngineConfig holds the configuration for the live polling loop.
type LiveTradingEngineConfig struct {
	// Symbol is the traded pair, e.g. BTCUSDT
	Symbol string `json:"symbol" yaml:"symbol" validate:"required" jsonschema:"title=Symbol,description=Traded symbol,default=BTCUSDT"`

	// Interval is the bar interval requested from the fetcher
	Interval string `json:"interval" yaml:"interval" validate:"required,oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d" jsonschema:"title=Interval,description=Bar interval,default=1h,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d"`

	// Lookback is the number of bars fetched every tick. Must cover the indicator warm-up.
	Lookback int `json:"lookback" yaml:"lookback" validate:"gte=1,lte=1000" jsonschema:"title=Lookback,description=Bars fetched per tick,minimum=1,maximum=1000,default=500"`

	// Mode has no default and must be set explicitly.
	Mode types.OperatingMode `json:"mode" yaml:"mode" validate:"required,oneof=simulation live" jsonschema:"title=Mode,description=simulation keeps decisions advisory and live forwards orders,enum=simulation,enum=live,required"`

	// PollInterval is the sleep between ticks.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" validate:"gt=0" jsonschema:"title=Poll Interval,description=Sleep between ticks,default=1h"`

	// ErrorBackoff is the sleep after a failed tick.
	ErrorBackoff time.Duration `json:"error_backoff" yaml:"error_backoff" validate:"gt=0" jsonschema:"title=Error Backoff,description=Sleep after a failed tick,default=60s"`

	// TradeAmount is the quote amount spent on every entry in live mode.
	TradeAmount float64 `json:"trade_amount" yaml:"trade_amount" validate:"gt=0" jsonschema:"title=Trade Amount,description=Quote amount spent per entry,exclusiveMinimum=0,default=100"`

	// Params are the strategy parameters shared with the backtest.
	Params types.StrategyParams `json:"params" yaml:"params" jsonschema:"title=Strategy Parameters"`
}

// DefaultLiveTradingEngineConfig returns the defaults of every field except Mode.
func DefaultLiveTradingEngineConfig() LiveTradingEngineConfig {
	return LiveTradingEngineConfig{
		Symbol:       DefaultSymbol,
		Interval:     DefaultInterval,
		Lookback:     DefaultLookback,
		Mode:         "",
		PollInterval: DefaultPollInterval,
		ErrorBackoff: DefaultErrorBackoff,
		TradeAmount:  DefaultTradeAmount,
		Params:       types.DefaultStrategyParams(),
	}
}

// Validate checks the configuration, including that one fetch covers the warm-up.
func (c LiveTradingEngineConfig) Validate() error {
	if _, err := types.ParseOperatingMode(string(c.Mode)); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid live trading config", err)
	}

	if err := c.Params.Validate(); err != nil {
		return err
	}

	if required := c.Params.RequiredBars(); c.Lookback < required {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"lookback %d is shorter than the %d bars the indicators need", c.Lookback, required)
	}

	return nil
}

// ParseConfig decodes YAML over DefaultLiveTradingEngineConfig and validates the result.
func ParseConfig(data []byte) (LiveTradingEngineConfig, error) {
	config := DefaultLiveTradingEngineConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return LiveTradingEngineConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse live trading config", err)
	}

	if err := config.Validate(); err != nil {
		return LiveTradingEngineConfig{}, err
	}

	return config, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (LiveTradingEngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LiveTradingEngineConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read live trading config %s", path)
	}

	return ParseConfig(data)
}

// GetConfigSchema returns the JSON schema for LiveTradingEngineConfig.
func GetConfigSchema() (string, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|ms|s|m|h))+$`,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&LiveTradingEngineConfig{}) //nolint:exhaustruct // Empty config for schema generation
	schema.Title = "live-trading-engine-config"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
