package provider

import (
	"context"
	"time"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer used by Download.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download writes every bar between startDate and endDate through the configured writer.
	// The context can be used to cancel the download operation.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval Interval, onProgress OnDownloadProgress) (path string, err error)
	// FetchLatest returns up to limit of the most recent closed bars, ascending by time.
	// A bar whose interval has not ended yet is never returned.
	FetchLatest(ctx context.Context, symbol string, interval string, limit int) (types.BarSeries, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// Polygon requires an API key string as config. Binance accepts an optional base URL string.
func NewMarketDataProvider(providerType ProviderType, config any, log *logger.Logger) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		baseURL, _ := config.(string)

		return NewBinanceClientWithBaseURL(baseURL, log), nil
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// closedBars drops bars whose interval ends after now and keeps the last limit of the rest.
func closedBars(series types.BarSeries, interval Interval, now time.Time, limit int) types.BarSeries {
	end := len(series)
	for end > 0 && series[end-1].Time.Add(interval.Duration()).After(now) {
		end--
	}

	start := max(0, end-limit)

	return series[start:end]
}

func emitProgress(onProgress OnDownloadProgress, current, total float64, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}
