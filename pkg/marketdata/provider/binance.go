package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

// BinanceMaxKlines is the largest page the klines endpoint returns.
const BinanceMaxKlines = 1000

// BinanceKlinesService abstracts the klines endpoint for testing.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient abstracts the Binance client for testing.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type realBinanceAPIClient struct {
	client *binance.Client
}

func (r *realBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &realBinanceKlinesService{service: r.client.NewKlinesService()}
}

type realBinanceKlinesService struct {
	service *binance.KlinesService
}

func (s *realBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *realBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realBinanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

// BinanceClient reads public spot klines. No API key is needed.
type BinanceClient struct {
	api    BinanceAPIClient
	writer writer.MarketDataWriter
	now    func() time.Time
	log    *logger.Logger
}

func NewBinanceClient(log *logger.Logger) *BinanceClient {
	return NewBinanceClientWithBaseURL("", log)
}

// NewBinanceClientWithBaseURL points the client at another REST endpoint, such as a
// regional mirror or a local test server. An empty baseURL keeps the default.
func NewBinanceClientWithBaseURL(baseURL string, log *logger.Logger) *BinanceClient {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return NewBinanceClientWithAPI(&realBinanceAPIClient{client: client}, log)
}

// NewBinanceClientWithAPI creates a client over a custom API, used by tests.
func NewBinanceClientWithAPI(api BinanceAPIClient, log *logger.Logger) *BinanceClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceClient{
		api:    api,
		writer: nil,
		now:    time.Now,
		log:    log.Named("binance"),
	}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// FetchLatest implements Provider. One extra kline is requested so that dropping the
// still-open one leaves limit closed bars.
func (c *BinanceClient) FetchLatest(ctx context.Context, symbol string, interval string, limit int) (types.BarSeries, error) {
	parsed, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must be positive, got %d", limit)
	}

	klines, err := c.api.NewKlinesService().
		Symbol(symbol).
		Interval(string(parsed)).
		Limit(min(limit+1, BinanceMaxKlines)).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s %s klines from Binance", symbol, interval)
	}

	series, err := convertKlines(symbol, klines)
	if err != nil {
		return nil, err
	}

	series = closedBars(series, parsed, c.now(), limit)

	c.log.Debug("Fetched klines",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("received", len(klines)),
		zap.Int("closed", len(series)),
	)

	return series, nil
}

// Download implements Provider, paging through the klines endpoint.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval Interval, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "writer is not configured")
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

	endTimeMillis := min(endDate.UnixMilli(), c.now().UnixMilli())
	currentStartTime := startDate.UnixMilli()
	total := float64(endTimeMillis - currentStartTime)
	written := 0

	for currentStartTime < endTimeMillis {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		klines, err := c.api.NewKlinesService().
			Symbol(ticker).
			Interval(string(interval)).
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Limit(BinanceMaxKlines).
			Do(ctx)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err)
		}

		if len(klines) == 0 {
			break
		}

		series, err := convertKlines(ticker, klines)
		if err != nil {
			return "", err
		}

		for _, bar := range closedBars(series, interval, c.now(), len(series)) {
			if err := c.writer.Write(bar); err != nil {
				return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
			}

			written++
		}

		currentStartTime = klines[len(klines)-1].CloseTime + 1

		emitProgress(onProgress, float64(currentStartTime-startDate.UnixMilli()), total, fmt.Sprintf("Downloading %s klines from Binance", ticker))

		if len(klines) < BinanceMaxKlines {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	c.log.Info("Finished downloading", zap.String("ticker", ticker), zap.Int("bars", written), zap.String("path", outputPath))

	return outputPath, nil
}

// convertKlines turns Binance klines into bars stamped with their open time.
func convertKlines(symbol string, klines []*binance.Kline) (types.BarSeries, error) {
	series := make(types.BarSeries, 0, len(klines))

	for _, k := range klines {
		values := make([]float64, 5)

		for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q at %d", raw, k.OpenTime)
			}

			values[i] = value
		}

		series = append(series, types.Bar{
			Symbol: symbol,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	return series, nil
}
