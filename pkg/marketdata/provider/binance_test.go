package provider

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
	coderr "github.com/coinify-labs/coinify-bot/pkg/errors"
)

// mockWriter is a simple mock implementation of MarketDataWriter for testing.
type mockWriter struct {
	initialized       bool
	initializeErr     error
	writeErr          error
	finalizeErr       error
	outputPath        string
	writtenData       []types.Bar
	finalizeCallCount int
	closeCallCount    int
}

func (m *mockWriter) Initialize() error {
	if m.initializeErr != nil {
		return m.initializeErr
	}

	m.initialized = true

	return nil
}

func (m *mockWriter) Write(bar types.Bar) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.writtenData = append(m.writtenData, bar)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	m.finalizeCallCount++
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCallCount++

	return nil
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

// mockBinanceAPIClient serves one page of klines per call.
type mockBinanceAPIClient struct {
	klinesPerCall [][]*binance.Kline
	errorsPerCall []error
	requests      []*mockBinanceKlinesService
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	service := &mockBinanceKlinesService{client: m, call: len(m.requests)}
	m.requests = append(m.requests, service)

	return service
}

type mockBinanceKlinesService struct {
	client   *mockBinanceAPIClient
	call     int
	symbol   string
	interval string
	start    int64
	end      int64
	limit    int
}

func (s *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.symbol = symbol
	return s
}

func (s *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.interval = interval
	return s
}

func (s *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.start = startTime
	return s
}

func (s *mockBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.end = endTime
	return s
}

func (s *mockBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.limit = limit
	return s
}

func (s *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	if s.call < len(s.client.errorsPerCall) && s.client.errorsPerCall[s.call] != nil {
		return nil, s.client.errorsPerCall[s.call]
	}

	if s.call < len(s.client.klinesPerCall) {
		return s.client.klinesPerCall[s.call], nil
	}

	return nil, nil
}

// hourlyKlines builds count hourly klines from start with closes rising from 100.
func hourlyKlines(start time.Time, count int) []*binance.Kline {
	klines := make([]*binance.Kline, 0, count)

	for i := 0; i < count; i++ {
		open := start.Add(time.Duration(i) * time.Hour)
		price := strconv.FormatFloat(100+float64(i), 'f', -1, 64)
		klines = append(klines, &binance.Kline{
			OpenTime:  open.UnixMilli(),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    "1.5",
			CloseTime: open.Add(time.Hour).UnixMilli() - 1,
		})
	}

	return klines
}

type BinanceClientTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *BinanceClientTestSuite) clientAt(api BinanceAPIClient, now time.Time) *BinanceClient {
	client := NewBinanceClientWithAPI(api, nil)
	client.now = func() time.Time { return now }

	return client
}

func (suite *BinanceClientTestSuite) TestFetchLatestDropsOpenKline() {
	// 6 klines, the last one opened at 05:00 and is still open at 05:30
	api := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{hourlyKlines(suite.start, 6)}}
	client := suite.clientAt(api, suite.start.Add(5*time.Hour+30*time.Minute))

	series, err := client.FetchLatest(context.Background(), "BTCUSDT", "1h", 5)
	suite.Require().NoError(err)
	suite.Require().Len(series, 5)

	suite.Equal("BTCUSDT", api.requests[0].symbol)
	suite.Equal("1h", api.requests[0].interval)
	suite.Equal(6, api.requests[0].limit)

	suite.True(suite.start.Equal(series[0].Time))
	suite.Equal(104.0, series[4].Close)
	suite.Equal(1.5, series[4].Volume)
	suite.NoError(series.Validate())
}

func (suite *BinanceClientTestSuite) TestFetchLatestTrimsToLimit() {
	api := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{hourlyKlines(suite.start, 6)}}
	client := suite.clientAt(api, suite.start.Add(24*time.Hour))

	series, err := client.FetchLatest(context.Background(), "BTCUSDT", "1h", 3)
	suite.Require().NoError(err)
	suite.Require().Len(series, 3)
	suite.Equal(103.0, series[0].Close)
	suite.Equal(105.0, series[2].Close)
}

func (suite *BinanceClientTestSuite) TestFetchLatestCapsRequest() {
	api := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{hourlyKlines(suite.start, 2)}}
	client := suite.clientAt(api, suite.start.Add(24*time.Hour))

	_, err := client.FetchLatest(context.Background(), "BTCUSDT", "1h", 1000)
	suite.Require().NoError(err)
	suite.Equal(BinanceMaxKlines, api.requests[0].limit)
}

func (suite *BinanceClientTestSuite) TestFetchLatestErrors() {
	api := &mockBinanceAPIClient{errorsPerCall: []error{errors.New("429 too many requests")}}
	client := suite.clientAt(api, suite.start)

	_, err := client.FetchLatest(context.Background(), "BTCUSDT", "1h", 5)
	suite.True(coderr.HasCode(err, coderr.ErrCodeMarketDataFetchFailed))

	_, err = client.FetchLatest(context.Background(), "BTCUSDT", "7m", 5)
	suite.True(coderr.HasCode(err, coderr.ErrCodeInvalidParameter))

	_, err = client.FetchLatest(context.Background(), "BTCUSDT", "1h", 0)
	suite.True(coderr.HasCode(err, coderr.ErrCodeInvalidParameter))

	garbled := hourlyKlines(suite.start, 1)
	garbled[0].Close = "n/a"
	client = suite.clientAt(&mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{garbled}}, suite.start.Add(24*time.Hour))

	_, err = client.FetchLatest(context.Background(), "BTCUSDT", "1h", 5)
	suite.True(coderr.HasCode(err, coderr.ErrCodeMarketDataParseFailed))
}

func (suite *BinanceClientTestSuite) TestDownloadPaginates() {
	klines := hourlyKlines(suite.start, BinanceMaxKlines+10)
	api := &mockBinanceAPIClient{klinesPerCall: [][]*binance.Kline{klines[:BinanceMaxKlines], klines[BinanceMaxKlines:]}}
	w := &mockWriter{outputPath: "/tmp/btc.parquet"}

	client := suite.clientAt(api, suite.start.Add(2000*time.Hour))
	client.ConfigWriter(w)

	var progress []float64

	path, err := client.Download(context.Background(), "BTCUSDT", suite.start, suite.start.Add(1500*time.Hour), IntervalOneHour,
		func(current float64, _ float64, _ string) {
			progress = append(progress, current)
		})
	suite.Require().NoError(err)

	suite.Equal("/tmp/btc.parquet", path)
	suite.True(w.initialized)
	suite.Len(w.writtenData, BinanceMaxKlines+10)
	suite.Equal(1, w.finalizeCallCount)
	suite.Equal(1, w.closeCallCount)
	suite.Len(progress, 2)

	suite.Require().Len(api.requests, 2)
	suite.Equal(suite.start.UnixMilli(), api.requests[0].start)
	suite.Equal(klines[BinanceMaxKlines-1].CloseTime+1, api.requests[1].start)
}

func (suite *BinanceClientTestSuite) TestDownloadWithoutWriter() {
	client := suite.clientAt(&mockBinanceAPIClient{}, suite.start)

	_, err := client.Download(context.Background(), "BTCUSDT", suite.start, suite.start.Add(time.Hour), IntervalOneHour, nil)
	suite.True(coderr.HasCode(err, coderr.ErrCodeInvalidConfiguration))
}

func (suite *BinanceClientTestSuite) TestDownloadFetchErrorClosesWriter() {
	api := &mockBinanceAPIClient{errorsPerCall: []error{errors.New("boom")}}
	w := &mockWriter{}

	client := suite.clientAt(api, suite.start.Add(48*time.Hour))
	client.ConfigWriter(w)

	_, err := client.Download(context.Background(), "BTCUSDT", suite.start, suite.start.Add(24*time.Hour), IntervalOneHour, nil)
	suite.True(coderr.HasCode(err, coderr.ErrCodeMarketDataFetchFailed))
	suite.Equal(0, w.finalizeCallCount)
	suite.Equal(1, w.closeCallCount)
}

func (suite *BinanceClientTestSuite) TestDownloadCancelled() {
	w := &mockWriter{}
	client := suite.clientAt(&mockBinanceAPIClient{}, suite.start.Add(48*time.Hour))
	client.ConfigWriter(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Download(ctx, "BTCUSDT", suite.start, suite.start.Add(24*time.Hour), IntervalOneHour, nil)
	suite.ErrorIs(err, context.Canceled)
}
