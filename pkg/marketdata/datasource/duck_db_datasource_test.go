package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/writer"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	ds    DataSource
	start time.Time
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	ds, err := NewDataSource(":memory:", nil)
	suite.Require().NoError(err)

	suite.ds = ds
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.ds.Close())
}

// writeParquet stores count hourly bars per symbol, closes rising from 100.
func (suite *DuckDBDataSourceTestSuite) writeParquet(count int, symbols ...string) string {
	path := filepath.Join(suite.T().TempDir(), "bars.parquet")
	w := writer.NewDuckDBWriter(path, nil)
	suite.Require().NoError(w.Initialize())

	for _, symbol := range symbols {
		for i := 0; i < count; i++ {
			closePrice := 100 + float64(i)
			suite.Require().NoError(w.Write(types.Bar{
				Symbol: symbol,
				Time:   suite.start.Add(time.Duration(i) * time.Hour),
				Open:   closePrice,
				High:   closePrice + 1,
				Low:    closePrice - 1,
				Close:  closePrice,
				Volume: 5,
			}))
		}
	}

	_, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Require().NoError(w.Close())

	return path
}

func (suite *DuckDBDataSourceTestSuite) TestLoadSeriesFromParquet() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeParquet(24, "BTCUSDT")))

	series, err := suite.ds.LoadSeries(SeriesQuery{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Require().Len(series, 24)
	suite.NoError(series.Validate())

	suite.True(suite.start.Equal(series[0].Time))
	suite.Equal(100.0, series[0].Close)
	suite.Equal(123.0, series[23].Close)
}

func (suite *DuckDBDataSourceTestSuite) TestLoadSeriesWithBounds() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeParquet(24, "BTCUSDT")))

	series, err := suite.ds.LoadSeries(SeriesQuery{
		Symbol: "BTCUSDT",
		Start:  optional.Some(suite.start.Add(2 * time.Hour)),
		End:    optional.Some(suite.start.Add(5 * time.Hour)),
	})
	suite.Require().NoError(err)
	suite.Require().Len(series, 4)
	suite.Equal(102.0, series[0].Close)
	suite.Equal(105.0, series[3].Close)

	count, err := suite.ds.Count(optional.Some(suite.start.Add(20*time.Hour)), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(4, count)
}

func (suite *DuckDBDataSourceTestSuite) TestMultipleSymbols() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeParquet(3, "ETHUSDT", "BTCUSDT")))

	symbols, err := suite.ds.GetAllSymbols()
	suite.Require().NoError(err)
	suite.Equal([]string{"BTCUSDT", "ETHUSDT"}, symbols)

	_, err = suite.ds.LoadSeries(SeriesQuery{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	series, err := suite.ds.LoadSeries(SeriesQuery{Symbol: "ETHUSDT"})
	suite.Require().NoError(err)
	suite.Len(series, 3)
	suite.Equal("ETHUSDT", series[0].Symbol)

	count, err := suite.ds.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(6, count)
}

func (suite *DuckDBDataSourceTestSuite) TestReadLastBar() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeParquet(5, "BTCUSDT")))

	bar, err := suite.ds.ReadLastBar("BTCUSDT")
	suite.Require().NoError(err)
	suite.Equal(104.0, bar.Close)
	suite.True(suite.start.Add(4 * time.Hour).Equal(bar.Time))

	_, err = suite.ds.ReadLastBar("DOGEUSDT")
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *DuckDBDataSourceTestSuite) TestLoadSeriesFromCSV() {
	path := filepath.Join(suite.T().TempDir(), "bars.csv")
	content := "time,symbol,open,high,low,close,volume\n" +
		"2024-01-01 00:00:00,BTCUSDT,100,101,99,100.5,3\n" +
		"2024-01-01 01:00:00,BTCUSDT,100.5,102,100,101.5,4\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	suite.Require().NoError(suite.ds.Initialize(path))

	series, err := suite.ds.LoadSeries(SeriesQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(series, 2)
	suite.Equal(101.5, series[1].Close)
	suite.True(suite.start.Add(time.Hour).Equal(series[1].Time))
}

func (suite *DuckDBDataSourceTestSuite) TestEmptySelection() {
	suite.Require().NoError(suite.ds.Initialize(suite.writeParquet(3, "BTCUSDT")))

	_, err := suite.ds.LoadSeries(SeriesQuery{Symbol: "BTCUSDT", Start: optional.Some(suite.start.Add(48 * time.Hour))})
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeErrors() {
	err := suite.ds.Initialize("bars.json")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	err = suite.ds.Initialize(filepath.Join(suite.T().TempDir(), "missing.parquet"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *DuckDBDataSourceTestSuite) TestLoadFile() {
	path := suite.writeParquet(6, "ETHUSDT")

	series, err := LoadFile(path, SeriesQuery{Symbol: "ETHUSDT"}, nil)
	suite.Require().NoError(err)
	suite.Len(series, 6)

	_, err = LoadFile(path, SeriesQuery{Symbol: "BTCUSDT"}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))

	_, err = LoadFile("bars.txt", SeriesQuery{}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
