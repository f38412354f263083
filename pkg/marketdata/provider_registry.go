package marketdata

import (
	"encoding/json"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "Aggregates for stocks and crypto pairs (X:BTCUSD style tickers)",
		RequiresAuth: true,
	},
	provider.ProviderBinance: {
		Name:         string(provider.ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Public spot klines for cryptocurrency pairs",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the supported provider names, sorted.
func GetSupportedProviders() []string {
	providers := lo.Map(lo.Keys(providerRegistry), func(p provider.ProviderType, _ int) string {
		return string(p)
	})
	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema of DownloadConfig.
func GetDownloadConfigSchema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	//nolint:exhaustruct // Empty struct is intentional for schema generation
	schema := r.Reflect(DownloadConfig{})
	schema.Title = "download-config"

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
