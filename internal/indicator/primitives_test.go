package indicator

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type PrimitivesTestSuite struct {
	suite.Suite
}

func TestPrimitivesSuite(t *testing.T) {
	suite.Run(t, new(PrimitivesTestSuite))
}

func (suite *PrimitivesTestSuite) assertSeries(expected []optional.Option[float64], actual []optional.Option[float64]) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if expected[i].IsNone() {
			suite.True(actual[i].IsNone(), "index %d should be undefined", i)

			continue
		}

		suite.Require().True(actual[i].IsSome(), "index %d should be defined", i)
		suite.InDelta(expected[i].Unwrap(), actual[i].Unwrap(), 1e-9, "index %d", i)
	}
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

func some(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func (suite *PrimitivesTestSuite) TestSMA() {
	testCases := []struct {
		name     string
		values   []float64
		window   int
		expected []optional.Option[float64]
	}{
		{"window 3", []float64{1, 2, 3, 4, 5}, 3, []optional.Option[float64]{none(), none(), some(2), some(3), some(4)}},
		{"window 1", []float64{4, 8}, 1, []optional.Option[float64]{some(4), some(8)}},
		{"window longer than input", []float64{1, 2}, 3, []optional.Option[float64]{none(), none()}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.assertSeries(tc.expected, SMA(tc.values, tc.window))
		})
	}
}

func (suite *PrimitivesTestSuite) TestRollingStdIsSampleStd() {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	std := RollingStd(values, len(values))

	suite.True(std[6].IsNone())
	suite.InDelta(math.Sqrt(32.0/7.0), std[7].Unwrap(), 1e-12)
}

func (suite *PrimitivesTestSuite) TestFlatWindowIsExact() {
	values := []float64{0.1, 0.1, 0.1, 0.1, 0.1}

	std := RollingStd(values, 5)
	suite.Equal(0.0, std[4].Unwrap())

	sma := SMA(values, 5)
	suite.Equal(0.1, sma[4].Unwrap())

	bands := BollingerBands(values, 5, 2)
	suite.Equal(0.1, bands.Middle[4].Unwrap())
	suite.Equal(0.1, bands.Upper[4].Unwrap())
	suite.Equal(0.1, bands.Lower[4].Unwrap())
}

func (suite *PrimitivesTestSuite) TestBollingerBands() {
	values := []float64{1, 2, 3, 4}
	bands := BollingerBands(values, 3, 2)

	suite.True(bands.Upper[1].IsNone())
	suite.True(bands.Lower[1].IsNone())

	// window {2,3,4}: mean 3, sample std 1
	suite.InDelta(3.0, bands.Middle[3].Unwrap(), 1e-12)
	suite.InDelta(5.0, bands.Upper[3].Unwrap(), 1e-12)
	suite.InDelta(1.0, bands.Lower[3].Unwrap(), 1e-12)
}

func (suite *PrimitivesTestSuite) TestEMA() {
	suite.assertSeries(
		[]optional.Option[float64]{none(), some(5.0 / 3.0), some(23.0 / 9.0)},
		EMA([]float64{1, 2, 3}, 2),
	)

	// alpha is 1 for span 1, so the EMA is the input itself
	suite.assertSeries(
		[]optional.Option[float64]{some(3), some(1), some(2)},
		EMA([]float64{3, 1, 2}, 1),
	)
}

func (suite *PrimitivesTestSuite) TestEMASeedsAfterLeadingGap() {
	values := []optional.Option[float64]{none(), none(), some(4), some(6), some(8)}

	suite.assertSeries(
		[]optional.Option[float64]{none(), none(), none(), some(4 + 2.0/3.0*2), some(4 + 2.0/3.0*2 + 2.0/3.0*(8-(4+2.0/3.0*2)))},
		emaOf(values, 2),
	)
}

func (suite *PrimitivesTestSuite) TestRSI() {
	testCases := []struct {
		name     string
		closes   []float64
		period   int
		expected []optional.Option[float64]
	}{
		{
			name:     "alternating moves",
			closes:   []float64{1, 2, 1, 2, 1},
			period:   2,
			expected: []optional.Option[float64]{none(), none(), some(50), some(75), some(37.5)},
		},
		{
			name:     "no losses clamps to 100",
			closes:   []float64{1, 2, 3, 4},
			period:   2,
			expected: []optional.Option[float64]{none(), none(), some(100), some(100)},
		},
		{
			name:     "flat prices clamp to 100",
			closes:   []float64{5, 5, 5, 5},
			period:   3,
			expected: []optional.Option[float64]{none(), none(), none(), some(100)},
		},
		{
			name:     "only losses",
			closes:   []float64{4, 3, 2, 1},
			period:   2,
			expected: []optional.Option[float64]{none(), none(), some(0), some(0)},
		},
		{
			name:     "too short",
			closes:   []float64{1, 2},
			period:   2,
			expected: []optional.Option[float64]{none(), none()},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.assertSeries(tc.expected, RSI(tc.closes, tc.period))
		})
	}
}

func (suite *PrimitivesTestSuite) TestMACDWarmUp() {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	series := MACD(closes, 3, 5, 9)

	suite.True(series.EMAFast[1].IsNone())
	suite.True(series.EMAFast[2].IsSome())
	suite.True(series.MACD[3].IsNone())
	suite.True(series.MACD[4].IsSome())
	suite.True(series.Signal[11].IsNone())
	suite.True(series.Signal[12].IsSome())

	for i := 4; i < len(closes); i++ {
		suite.InDelta(series.EMAFast[i].Unwrap()-series.EMASlow[i].Unwrap(), series.MACD[i].Unwrap(), 1e-12)
	}
}
