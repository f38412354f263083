package mocks

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DataGeneratorTestSuite struct {
	suite.Suite
}

func TestDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(DataGeneratorTestSuite))
}

func (suite *DataGeneratorTestSuite) TestGenerateProducesValidSeries() {
	config := DefaultConfig()
	config.Count = 500

	series := NewDataGenerator(42).Generate(config)

	suite.Len(series, 500)
	suite.NoError(series.Validate())

	for i := 1; i < len(series); i++ {
		suite.Equal(config.Interval, series[i].Time.Sub(series[i-1].Time))
		suite.GreaterOrEqual(series[i].High, series[i].Low)
	}
}

func (suite *DataGeneratorTestSuite) TestReproducibility() {
	config := DefaultConfig()
	config.Count = 50

	first := NewDataGenerator(42).Generate(config)
	second := NewDataGenerator(42).Generate(config)
	other := NewDataGenerator(123).Generate(config)

	suite.Equal(first, second)
	suite.NotEqual(first.Closes(), other.Closes())
}

func (suite *DataGeneratorTestSuite) TestStepCloses() {
	suite.Equal([]float64{100, 103, 101, 104, 102}, StepCloses(100, 5, 3, -2))
	suite.Equal([]float64{7, 7, 7}, ConstantCloses(3, 7))
	suite.Nil(StepCloses(1, 0, 1))
}

func (suite *DataGeneratorTestSuite) TestContinueCloses() {
	closes := ContinueCloses([]float64{100, 103}, 2, -3, 2)
	suite.Equal([]float64{100, 103, 100, 102}, closes)
}

func (suite *DataGeneratorTestSuite) TestLinearCloses() {
	closes := LinearCloses(301, 100, 400)
	suite.Len(closes, 301)
	suite.Equal(100.0, closes[0])
	suite.InDelta(400.0, closes[300], 1e-9)
	suite.InDelta(101.0, closes[1], 1e-9)
}

func (suite *DataGeneratorTestSuite) TestSeriesFromCloses() {
	series := SeriesFromCloses(DefaultConfig(), []float64{10, 12, 11})
	suite.NoError(series.Validate())
	suite.Equal(10.0, series[1].Open)
	suite.Equal(12.0, series[1].High)
	suite.Equal(10.0, series[1].Low)
}
