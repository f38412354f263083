package provider

import (
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type IntervalTestSuite struct {
	suite.Suite
}

func TestIntervalSuite(t *testing.T) {
	suite.Run(t, new(IntervalTestSuite))
}

func (suite *IntervalTestSuite) TestPolygonMapping() {
	testCases := []struct {
		interval   string
		duration   time.Duration
		multiplier int
		timespan   models.Timespan
	}{
		{"1m", time.Minute, 1, models.Minute},
		{"15m", 15 * time.Minute, 15, models.Minute},
		{"1h", time.Hour, 1, models.Hour},
		{"4h", 4 * time.Hour, 4, models.Hour},
		{"12h", 12 * time.Hour, 12, models.Hour},
		{"1d", 24 * time.Hour, 1, models.Day},
	}

	for _, tc := range testCases {
		suite.Run(tc.interval, func() {
			interval, err := ParseInterval(tc.interval)
			suite.Require().NoError(err)

			suite.Equal(tc.duration, interval.Duration())
			suite.Equal(tc.multiplier, interval.Multiplier())
			suite.Equal(tc.timespan, interval.Timespan())
		})
	}
}

func (suite *IntervalTestSuite) TestParseIntervalRejectsUnknown() {
	for _, value := range []string{"", "7m", "1w", "1M", "hour"} {
		_, err := ParseInterval(value)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter), value)
	}
}

func (suite *IntervalTestSuite) TestClosedBars() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.BarSeries, 0, 4)

	for i := 0; i < 4; i++ {
		series = append(series, types.Bar{Time: start.Add(time.Duration(i) * time.Hour), Close: float64(i)})
	}

	// the bar opened at 03:00 closes exactly at 04:00
	suite.Len(closedBars(series, IntervalOneHour, start.Add(4*time.Hour), 10), 4)
	suite.Len(closedBars(series, IntervalOneHour, start.Add(4*time.Hour-time.Second), 10), 3)

	trimmed := closedBars(series, IntervalOneHour, start.Add(4*time.Hour), 2)
	suite.Equal(2.0, trimmed[0].Close)
	suite.Equal(3.0, trimmed[1].Close)

	suite.Empty(closedBars(series, IntervalOneHour, start, 10))
}

func (suite *IntervalTestSuite) TestNewMarketDataProvider() {
	p, err := NewMarketDataProvider(ProviderBinance, nil, nil)
	suite.Require().NoError(err)
	suite.IsType(&BinanceClient{}, p)

	p, err = NewMarketDataProvider(ProviderPolygon, "key", nil)
	suite.Require().NoError(err)
	suite.IsType(&PolygonClient{}, p)

	_, err = NewMarketDataProvider(ProviderPolygon, 42, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewMarketDataProvider("kraken", nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}
