package provider

import (
	"context"
	"fmt"
	"slices"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

// PolygonAggsIterator is the subset of the polygon iterator the client uses.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the polygon aggregates endpoint for testing.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type realPolygonAPIClient struct {
	client *polygon.Client
}

func (r *realPolygonAPIClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return r.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	api    PolygonAPIClient
	writer writer.MarketDataWriter
	now    func() time.Time
	log    *logger.Logger
}

func NewPolygonClient(apiKey string, log *logger.Logger) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon apiKey is required")
	}

	return NewPolygonClientWithAPI(&realPolygonAPIClient{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonClientWithAPI creates a client over a custom API, used by tests.
func NewPolygonClientWithAPI(api PolygonAPIClient, log *logger.Logger) *PolygonClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonClient{
		api:    api,
		writer: nil,
		now:    time.Now,
		log:    log.Named("polygon"),
	}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// FetchLatest implements Provider. Aggregates are requested newest first, so the
// window only needs to be wide enough to contain limit bars.
func (c *PolygonClient) FetchLatest(ctx context.Context, symbol string, interval string, limit int) (types.BarSeries, error) {
	parsed, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must be positive, got %d", limit)
	}

	now := c.now()
	// three times the span leaves room for weekends and market closures
	from := now.Add(-3 * time.Duration(limit+1) * parsed.Duration())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: parsed.Multiplier(),
		Timespan:   parsed.Timespan(),
		From:       models.Millis(from),
		To:         models.Millis(now),
	}.WithOrder(models.Desc).WithLimit(limit + 1)

	series, err := c.collect(ctx, symbol, c.api.ListAggs(ctx, params))
	if err != nil {
		return nil, err
	}

	slices.Reverse(series)

	series = closedBars(series, parsed, now, limit)

	c.log.Debug("Fetched aggregates",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("closed", len(series)),
	)

	return series, nil
}

// Download implements Provider.
func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval Interval, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "no writer configured for PolygonClient. Call ConfigWriter first")
	}

	if _, err := ParseInterval(string(interval)); err != nil {
		return "", err
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil {
			c.log.Warn("Failed to close writer", zap.Error(cerr))
		}
	}()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	series, err := c.collect(ctx, ticker, c.api.ListAggs(ctx, params))
	if err != nil {
		return "", err
	}

	series = closedBars(series, interval, c.now(), len(series))
	total := float64(len(series))

	for i, bar := range series {
		if err := c.writer.Write(bar); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
		}

		if (i+1)%1000 == 0 || i == len(series)-1 {
			emitProgress(onProgress, float64(i+1), total, fmt.Sprintf("Downloading %s", ticker))
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	c.log.Info("Finished downloading", zap.String("ticker", ticker), zap.Int("bars", len(series)), zap.String("path", outputPath))

	return outputPath, nil
}

func (c *PolygonClient) collect(ctx context.Context, symbol string, iter PolygonAggsIterator) (types.BarSeries, error) {
	series := make(types.BarSeries, 0)

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agg := iter.Item()
		series = append(series, types.Bar{
			Symbol: symbol,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", err)
	}

	return series, nil
}
