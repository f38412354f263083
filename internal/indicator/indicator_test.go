package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/mocks"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type EngineTestSuite struct {
	suite.Suite
	engine Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine()
}

func (suite *EngineTestSuite) series(closes []float64) types.BarSeries {
	return mocks.SeriesFromCloses(mocks.DefaultConfig(), closes)
}

func (suite *EngineTestSuite) TestConstantSeries() {
	params := types.DefaultStrategyParams()
	series := suite.series(mocks.ConstantCloses(250, 100))

	frames, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)
	suite.Len(frames, 250-params.WarmUp())

	for _, frame := range frames {
		suite.Equal(100.0, frame.RSI)
		suite.Equal(frame.Middle, frame.Upper)
		suite.Equal(frame.Middle, frame.Lower)
		suite.Equal(100.0, frame.Middle)
		suite.Equal(100.0, frame.SMALong)
		suite.Equal(0.0, frame.MACD)
		suite.Equal(0.0, frame.MACDSignal)
	}
}

func (suite *EngineTestSuite) TestLinearSeriesMACDAboveSignal() {
	params := types.DefaultStrategyParams()
	params.SMALong = 30
	series := suite.series(mocks.LinearCloses(120, 100, 219))

	frames, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(frames)

	for _, frame := range frames {
		suite.Greater(frame.EMAFast, frame.EMASlow, "at %s", frame.Time)
		suite.Greater(frame.MACD, frame.MACDSignal, "at %s", frame.Time)
		suite.Greater(frame.Close, frame.SMALong)
		suite.Equal(100.0, frame.RSI)
	}
}

func (suite *EngineTestSuite) TestAlignment() {
	params := types.DefaultStrategyParams()
	series := mocks.NewDataGenerator(7).Generate(mocks.DefaultConfig())

	frames, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)
	suite.Require().Len(frames, len(series)-params.WarmUp())

	for i, frame := range frames {
		suite.Equal(series[params.WarmUp()+i], frame.Bar)
		suite.GreaterOrEqual(frame.Upper, frame.Middle)
		suite.LessOrEqual(frame.Lower, frame.Middle)
		suite.GreaterOrEqual(frame.RSI, 0.0)
		suite.LessOrEqual(frame.RSI, 100.0)
	}
}

func (suite *EngineTestSuite) TestMinimumLengthYieldsOneFrame() {
	params := types.DefaultStrategyParams()
	series := suite.series(mocks.LinearCloses(params.RequiredBars(), 100, 300))

	frames, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)
	suite.Len(frames, 1)
	suite.Equal(series[len(series)-1].Time, frames[0].Time)
}

func (suite *EngineTestSuite) TestDeterministicAndInputUntouched() {
	params := types.DefaultStrategyParams()
	series := mocks.NewDataGenerator(42).Generate(mocks.DefaultConfig())
	snapshot := append(types.BarSeries(nil), series...)

	first, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)

	second, err := suite.engine.Compute(series, params)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.Equal(snapshot, series)
}

func (suite *EngineTestSuite) TestInsufficientData() {
	params := types.DefaultStrategyParams()
	series := suite.series(mocks.ConstantCloses(params.WarmUp(), 100))

	_, err := suite.engine.Compute(series, params)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(200, insufficient.Required)
	suite.Equal(199, insufficient.Actual)
	suite.Equal("BTCUSDT", insufficient.Symbol)
}

func (suite *EngineTestSuite) TestRejectsInvalidInput() {
	valid := suite.series(mocks.ConstantCloses(250, 100))

	badParams := types.DefaultStrategyParams()
	badParams.EMAFast = badParams.EMASlow

	_, err := suite.engine.Compute(valid, badParams)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidEMASpans))

	unsorted := append(types.BarSeries(nil), valid...)
	unsorted[10], unsorted[11] = unsorted[11], unsorted[10]

	_, err = suite.engine.Compute(unsorted, types.DefaultStrategyParams())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}
