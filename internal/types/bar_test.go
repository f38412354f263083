package types

import (
	"math"
	"testing"
	"time"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BarTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func (suite *BarTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *BarTestSuite) bar(offset int, closePrice float64) Bar {
	return Bar{
		Symbol: "BTCUSDT",
		Time:   suite.start.Add(time.Duration(offset) * time.Hour),
		Open:   closePrice,
		High:   closePrice,
		Low:    closePrice,
		Close:  closePrice,
		Volume: 1,
	}
}

func (suite *BarTestSuite) TestValidBar() {
	suite.NoError(suite.bar(0, 100).Validate())
}

func (suite *BarTestSuite) TestInvalidBars() {
	testCases := []struct {
		name   string
		mutate func(b *Bar)
	}{
		{"zero close", func(b *Bar) { b.Close = 0 }},
		{"negative open", func(b *Bar) { b.Open = -1 }},
		{"NaN high", func(b *Bar) { b.High = math.NaN() }},
		{"infinite low", func(b *Bar) { b.Low = math.Inf(1) }},
		{"negative volume", func(b *Bar) { b.Volume = -5 }},
		{"NaN volume", func(b *Bar) { b.Volume = math.NaN() }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			b := suite.bar(0, 100)
			tc.mutate(&b)

			err := b.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
		})
	}
}

func (suite *BarTestSuite) TestZeroVolumeIsValid() {
	b := suite.bar(0, 100)
	b.Volume = 0
	suite.NoError(b.Validate())
}

func (suite *BarTestSuite) TestSeriesOrdering() {
	valid := BarSeries{suite.bar(0, 1), suite.bar(1, 2), suite.bar(2, 3)}
	suite.NoError(valid.Validate())

	duplicate := BarSeries{suite.bar(0, 1), suite.bar(1, 2), suite.bar(1, 3)}
	err := duplicate.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
	suite.Contains(err.Error(), "duplicate")

	unsorted := BarSeries{suite.bar(0, 1), suite.bar(2, 2), suite.bar(1, 3)}
	err = unsorted.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
	suite.Contains(err.Error(), "not ascending")
}

func (suite *BarTestSuite) TestSeriesWithInvalidBar() {
	series := BarSeries{suite.bar(0, 1), suite.bar(1, 0)}
	err := series.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
	suite.Contains(err.Error(), "index 1")
}

func (suite *BarTestSuite) TestEmptySeriesIsValid() {
	suite.NoError(BarSeries{}.Validate())

	_, ok := BarSeries{}.Last()
	suite.False(ok)
}

func (suite *BarTestSuite) TestClosesAndLast() {
	series := BarSeries{suite.bar(0, 1), suite.bar(1, 2), suite.bar(2, 3)}
	suite.Equal([]float64{1, 2, 3}, series.Closes())

	last, ok := series.Last()
	suite.True(ok)
	suite.Equal(3.0, last.Close)
}
