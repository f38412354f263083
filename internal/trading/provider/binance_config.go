package tradingprovider

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// BinanceProviderConfig contains configuration for Binance trading.
type BinanceProviderConfig struct {
	ApiKey    string `json:"apiKey" yaml:"api_key" jsonschema:"title=API Key,description=Binance API key" validate:"required"`
	SecretKey string `json:"secretKey" yaml:"secret_key" jsonschema:"title=Secret Key,description=Binance API secret key" validate:"required"`
	BaseURL   string `json:"baseUrl,omitempty" yaml:"base_url" jsonschema:"title=Base URL,description=Overrides the Binance REST endpoint" validate:"omitempty,url"`
}

// Validate validates the BinanceProviderConfig struct.
func (c *BinanceProviderConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance provider config", err)
	}

	return nil
}

// parseBinanceConfig parses a JSON configuration string into a BinanceProviderConfig.
func parseBinanceConfig(jsonConfig string) (*BinanceProviderConfig, error) {
	var config BinanceProviderConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse binance config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
