package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	WriterType    WriterType            `validate:"required,oneof=duckdb"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker    string            `validate:"required"`
	StartDate time.Time         `validate:"required"`
	EndDate   time.Time         `validate:"required,gtfield=StartDate"`
	Interval  provider.Interval `validate:"required"`
}

// Client downloads bars from a provider and stores them with a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var providerConfig any
	if config.ProviderType == provider.ProviderPolygon {
		providerConfig = config.PolygonApiKey
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, providerConfig, log)
	if err != nil {
		return nil, err
	}

	return newClientWithProvider(config, marketProvider, onProgress, log), nil
}

func newClientWithProvider(config ClientConfig, marketProvider provider.Provider, onProgress provider.OnDownloadProgress, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
		log:        log,
	}
}

// Download fetches the requested bars and returns the path of the stored file.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if _, err := provider.ParseInterval(string(params.Interval)); err != nil {
		return "", err
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	defer func() {
		if err := marketWriter.Close(); err != nil {
			c.log.Warn("Failed to close writer", zap.Error(err))
		}
	}()

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, params.Interval, c.onProgress)
	if err != nil {
		return "", err
	}

	return path, nil
}

// OutputFileName is TICKER_START_END_INTERVAL.parquet.
func OutputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_%s.parquet",
		params.Ticker,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"),
		params.Interval)
}

// setupWriter initializes the appropriate market data writer based on configuration.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data path %s", c.config.DataPath)
		}

		return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, OutputFileName(params)), c.log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}
