package tradingprovider

import (
	"encoding/json"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/trading/engine"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type ProviderType string

const (
	ProviderPaper          ProviderType = "paper"
	ProviderBinanceTestnet ProviderType = "binance-testnet"
	ProviderBinanceLive    ProviderType = "binance-live"
)

type ProviderInfo struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	IsPaperTrading bool   `json:"isPaperTrading"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPaper: {
		Name:           string(ProviderPaper),
		DisplayName:    "Paper",
		Description:    "Fills orders locally at the decision price without touching an exchange",
		IsPaperTrading: true,
	},
	ProviderBinanceTestnet: {
		Name:           string(ProviderBinanceTestnet),
		DisplayName:    "Binance Testnet",
		Description:    "Binance testnet for trading without real funds",
		IsPaperTrading: true,
	},
	ProviderBinanceLive: {
		Name:           string(ProviderBinanceLive),
		DisplayName:    "Binance Live",
		Description:    "Binance live environment for real-funds spot trading",
		IsPaperTrading: false,
	},
}

// GetSupportedProviders returns the registered provider names, sorted.
func GetSupportedProviders() []string {
	providers := lo.Map(lo.Keys(providerRegistry), func(providerType ProviderType, _ int) string {
		return string(providerType)
	})
	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific execution provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported execution provider: %s", providerName)
	}

	return info, nil
}

// GetProviderConfigSchema returns the JSON schema for a provider's configuration.
func GetProviderConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPaper:
		return toJSONSchema(PaperProviderConfig{})
	case ProviderBinanceTestnet, ProviderBinanceLive:
		return toJSONSchema(BinanceProviderConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported execution provider: %s", providerName)
	}
}

// ParseProviderConfig parses a JSON configuration string for the given provider.
func ParseProviderConfig(providerName string, jsonConfig string) (any, error) {
	switch ProviderType(providerName) {
	case ProviderPaper:
		return parsePaperConfig(jsonConfig)
	case ProviderBinanceTestnet, ProviderBinanceLive:
		return parseBinanceConfig(jsonConfig)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported execution provider: %s", providerName)
	}
}

// NewExecutionProvider creates the execution collaborator for the live loop.
func NewExecutionProvider(providerType ProviderType, config any, log *logger.Logger) (engine.ExecutionProvider, error) {
	switch providerType {
	case ProviderPaper:
		cfg, ok := config.(*PaperProviderConfig)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "invalid config type for paper provider")
		}

		return NewPaperExecutionProvider(*cfg, log), nil
	case ProviderBinanceTestnet:
		cfg, ok := config.(*BinanceProviderConfig)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "invalid config type for binance testnet provider")
		}

		return NewBinanceExecutionProvider(*cfg, true, log), nil
	case ProviderBinanceLive:
		cfg, ok := config.(*BinanceProviderConfig)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "invalid config type for binance live provider")
		}

		return NewBinanceExecutionProvider(*cfg, false, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported execution provider: %s", providerType)
	}
}

func toJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
