package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/datasource"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

// fakeProvider writes a fixed hourly series through the configured writer.
type fakeProvider struct {
	writer writer.MarketDataWriter
	bars   int
	err    error
}

func (f *fakeProvider) ConfigWriter(w writer.MarketDataWriter) {
	f.writer = w
}

func (f *fakeProvider) Download(ctx context.Context, ticker string, startDate time.Time, _ time.Time, interval provider.Interval, onProgress provider.OnDownloadProgress) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	if err := f.writer.Initialize(); err != nil {
		return "", err
	}

	for i := 0; i < f.bars; i++ {
		if err := f.writer.Write(types.Bar{
			Symbol: ticker,
			Time:   startDate.Add(time.Duration(i) * interval.Duration()),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100 + float64(i),
			Volume: 1,
		}); err != nil {
			return "", err
		}
	}

	onProgress(float64(f.bars), float64(f.bars), "done")

	return f.writer.Finalize()
}

func (f *fakeProvider) FetchLatest(_ context.Context, _ string, _ string, _ int) (types.BarSeries, error) {
	return nil, nil
}

type ClientTestSuite struct {
	suite.Suite
	dataPath string
	params   DownloadParams
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.dataPath = filepath.Join(suite.T().TempDir(), "data")
	suite.params = DownloadParams{
		Ticker:    "BTCUSDT",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:  provider.IntervalOneHour,
	}
}

func (suite *ClientTestSuite) config() ClientConfig {
	return ClientConfig{
		ProviderType: provider.ProviderBinance,
		WriterType:   WriterDuckDB,
		DataPath:     suite.dataPath,
	}
}

func (suite *ClientTestSuite) TestDownloadWritesReadableParquet() {
	var progress []float64

	client := newClientWithProvider(suite.config(), &fakeProvider{bars: 24}, func(current float64, _ float64, _ string) {
		progress = append(progress, current)
	}, nil)

	path, err := client.Download(context.Background(), suite.params)
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(suite.dataPath, "BTCUSDT_2024-01-01_2024-01-02_1h.parquet"), path)
	suite.FileExists(path)
	suite.Equal([]float64{24}, progress)

	ds, err := datasource.NewDataSource(":memory:", nil)
	suite.Require().NoError(err)

	defer ds.Close()

	suite.Require().NoError(ds.Initialize(path))

	series, err := ds.LoadSeries(datasource.SeriesQuery{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Len(series, 24)
	suite.Equal(123.0, series[23].Close)
}

func (suite *ClientTestSuite) TestDownloadProviderError() {
	client := newClientWithProvider(suite.config(), &fakeProvider{err: errors.New(errors.ErrCodeMarketDataFetchFailed, "boom")}, nil, nil)

	_, err := client.Download(context.Background(), suite.params)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

func (suite *ClientTestSuite) TestDownloadParamsValidation() {
	client := newClientWithProvider(suite.config(), &fakeProvider{}, nil, nil)

	testCases := []struct {
		name   string
		modify func(*DownloadParams)
		code   errors.ErrorCode
	}{
		{name: "missing ticker", modify: func(p *DownloadParams) { p.Ticker = "" }, code: errors.ErrCodeInvalidParameter},
		{name: "end before start", modify: func(p *DownloadParams) { p.EndDate = p.StartDate.Add(-time.Hour) }, code: errors.ErrCodeInvalidParameter},
		{name: "unknown interval", modify: func(p *DownloadParams) { p.Interval = "1w" }, code: errors.ErrCodeInvalidParameter},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			params := suite.params
			tc.modify(&params)

			_, err := client.Download(context.Background(), params)
			suite.True(errors.HasCode(err, tc.code), "got %v", err)
		})
	}

	_, err := os.Stat(suite.dataPath)
	suite.True(os.IsNotExist(err))
}

func (suite *ClientTestSuite) TestNewClient() {
	client, err := NewClient(suite.config(), nil, nil)
	suite.Require().NoError(err)
	suite.IsType(&provider.BinanceClient{}, client.provider)

	config := suite.config()
	config.ProviderType = provider.ProviderPolygon
	config.PolygonApiKey = "key"

	client, err = NewClient(config, nil, nil)
	suite.Require().NoError(err)
	suite.IsType(&provider.PolygonClient{}, client.provider)
}

func (suite *ClientTestSuite) TestClientConfigValidation() {
	testCases := []struct {
		name   string
		modify func(*ClientConfig)
	}{
		{name: "polygon without key", modify: func(c *ClientConfig) { c.ProviderType = provider.ProviderPolygon }},
		{name: "unknown provider", modify: func(c *ClientConfig) { c.ProviderType = "kraken" }},
		{name: "unknown writer", modify: func(c *ClientConfig) { c.WriterType = "csv" }},
		{name: "missing data path", modify: func(c *ClientConfig) { c.DataPath = "" }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			config := suite.config()
			tc.modify(&config)

			_, err := NewClient(config, nil, nil)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
		})
	}
}
