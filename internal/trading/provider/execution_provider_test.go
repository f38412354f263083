package tradingprovider

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type ExecutionProviderRegistryTestSuite struct {
	suite.Suite
}

func TestExecutionProviderRegistrySuite(t *testing.T) {
	suite.Run(t, new(ExecutionProviderRegistryTestSuite))
}

func (suite *ExecutionProviderRegistryTestSuite) TestGetSupportedProviders() {
	suite.Equal([]string{"binance-live", "binance-testnet", "paper"}, GetSupportedProviders())
}

func (suite *ExecutionProviderRegistryTestSuite) TestGetProviderInfo() {
	info, err := GetProviderInfo("binance-testnet")
	suite.Require().NoError(err)
	suite.True(info.IsPaperTrading)
	suite.Equal("Binance Testnet", info.DisplayName)

	info, err = GetProviderInfo("binance-live")
	suite.Require().NoError(err)
	suite.False(info.IsPaperTrading)

	_, err = GetProviderInfo("kraken")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *ExecutionProviderRegistryTestSuite) TestGetProviderConfigSchema() {
	schema, err := GetProviderConfigSchema("binance-live")
	suite.Require().NoError(err)
	suite.Contains(schema, "apiKey")
	suite.Contains(schema, "secretKey")

	schema, err = GetProviderConfigSchema("paper")
	suite.Require().NoError(err)
	suite.Contains(schema, "broker")

	_, err = GetProviderConfigSchema("kraken")
	suite.Error(err)
}

func (suite *ExecutionProviderRegistryTestSuite) TestNewExecutionProvider() {
	config, err := ParseProviderConfig("paper", `{"broker":"binance_spot"}`)
	suite.Require().NoError(err)

	provider, err := NewExecutionProvider(ProviderPaper, config, nil)
	suite.Require().NoError(err)
	suite.IsType(&PaperExecutionProvider{}, provider)

	config, err = ParseProviderConfig("binance-live", `{"apiKey":"key","secretKey":"secret"}`)
	suite.Require().NoError(err)

	provider, err = NewExecutionProvider(ProviderBinanceLive, config, nil)
	suite.Require().NoError(err)
	suite.IsType(&BinanceExecutionProvider{}, provider)
}

func (suite *ExecutionProviderRegistryTestSuite) TestNewExecutionProviderErrors() {
	_, err := NewExecutionProvider(ProviderPaper, &BinanceProviderConfig{}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewExecutionProvider(ProviderBinanceLive, &PaperProviderConfig{}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewExecutionProvider("kraken", nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))

	_, err = ParseProviderConfig("kraken", "{}")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}
