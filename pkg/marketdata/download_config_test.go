package marketdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func (suite *DownloadConfigTestSuite) TestParseDefaults() {
	config, err := ParseDownloadConfig([]byte(`
ticker: BTCUSDT
start_date: 2024-01-01
end_date: 2024-03-01T12:00:00Z
`))
	suite.Require().NoError(err)

	suite.Equal(provider.ProviderBinance, config.Provider)
	suite.Equal("1h", config.Interval)
	suite.Equal("data", config.DataPath)

	params, err := config.ToDownloadParams()
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), params.StartDate)
	suite.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), params.EndDate)
	suite.Equal(provider.IntervalOneHour, params.Interval)

	clientConfig := config.ToClientConfig()
	suite.Equal(WriterDuckDB, clientConfig.WriterType)
	suite.Equal(provider.ProviderBinance, clientConfig.ProviderType)
}

func (suite *DownloadConfigTestSuite) TestPolygonNeedsKey() {
	_, err := ParseDownloadConfig([]byte("provider: polygon\nticker: X:BTCUSD\nstart_date: 2024-01-01\nend_date: 2024-02-01\n"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	config, err := ParseDownloadConfig([]byte("provider: polygon\nticker: X:BTCUSD\nstart_date: 2024-01-01\nend_date: 2024-02-01\napi_key: secret\n"))
	suite.Require().NoError(err)
	suite.Equal("secret", config.ToClientConfig().PolygonApiKey)
}

func (suite *DownloadConfigTestSuite) TestValidationErrors() {
	testCases := []struct {
		name string
		yaml string
	}{
		{name: "bad start", yaml: "ticker: A\nstart_date: yesterday\nend_date: 2024-02-01"},
		{name: "bad end", yaml: "ticker: A\nstart_date: 2024-01-01\nend_date: 02/01/2024"},
		{name: "end before start", yaml: "ticker: A\nstart_date: 2024-02-01\nend_date: 2024-01-01"},
		{name: "bad interval", yaml: "ticker: A\nstart_date: 2024-01-01\nend_date: 2024-02-01\ninterval: 1w"},
		{name: "missing ticker", yaml: "start_date: 2024-01-01\nend_date: 2024-02-01"},
		{name: "malformed", yaml: "ticker: [A"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ParseDownloadConfig([]byte(tc.yaml))
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
		})
	}
}

func (suite *DownloadConfigTestSuite) TestLoadDownloadConfig() {
	path := filepath.Join(suite.T().TempDir(), "download.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("ticker: ETHUSDT\nstart_date: 2024-01-01\nend_date: 2024-01-05\ninterval: 4h\n"), 0644))

	config, err := LoadDownloadConfig(path)
	suite.Require().NoError(err)
	suite.Equal("ETHUSDT", config.Ticker)
	suite.Equal("4h", config.Interval)

	_, err = LoadDownloadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
