package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ResultTestSuite struct {
	suite.Suite
	tempDir string
}

func TestResultSuite(t *testing.T) {
	suite.Run(t, new(ResultTestSuite))
}

func (suite *ResultTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *ResultTestSuite) TestWinRate() {
	suite.Equal(0.0, WinRate(0, 0))
	suite.Equal(50.0, WinRate(1, 2))
	suite.Equal(100.0, WinRate(3, 3))
}

func (suite *ResultTestSuite) TestIsProfitable() {
	suite.True(BacktestResult{InitialBalance: 1000, FinalBalance: 1000.01}.IsProfitable())
	suite.False(BacktestResult{InitialBalance: 1000, FinalBalance: 1000}.IsProfitable())
}

func (suite *ResultTestSuite) TestOutcomeForReturn() {
	suite.Equal(TradeOutcomeWin, OutcomeForReturn(0.01))
	suite.Equal(TradeOutcomeLoss, OutcomeForReturn(0))
	suite.Equal(TradeOutcomeLoss, OutcomeForReturn(-0.2))
}

func (suite *ResultTestSuite) TestWriteResults() {
	result := BacktestResult{
		ID:             "run-1",
		Symbol:         "BTCUSDT",
		Params:         DefaultStrategyParams(),
		InitialBalance: 1000,
		FinalBalance:   1100,
		TradeCount:     1,
		Wins:           1,
		WinRate:        100,
		Trades: []TradeRecord{
			{EntryPrice: 100, ExitPrice: 110, RealizedReturn: 0.1, Outcome: TradeOutcomeWin},
		},
	}

	path := filepath.Join(suite.tempDir, "result.yaml")
	suite.Require().NoError(WriteResults(path, result))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded BacktestResult
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))
	suite.Equal(result.FinalBalance, decoded.FinalBalance)
	suite.Equal(21, decoded.Params.EMASlow)
	suite.Equal(TradeOutcomeWin, decoded.Trades[0].Outcome)
}

func (suite *ResultTestSuite) TestWriteResultsInvalidPath() {
	err := WriteResults(filepath.Join(suite.tempDir, "missing", "result.yaml"), BacktestResult{})
	suite.Error(err)
}

func (suite *ResultTestSuite) TestParseOperatingMode() {
	mode, err := ParseOperatingMode("simulation")
	suite.NoError(err)
	suite.Equal(ModeSimulation, mode)

	mode, err = ParseOperatingMode("live")
	suite.NoError(err)
	suite.Equal(ModeLive, mode)

	_, err = ParseOperatingMode("")
	suite.Error(err)

	_, err = ParseOperatingMode("paper")
	suite.Error(err)
}

func (suite *ResultTestSuite) TestPosition() {
	position := FlatPosition()
	suite.False(position.IsLong())

	position.State = PositionLong
	suite.True(position.IsLong())
}
