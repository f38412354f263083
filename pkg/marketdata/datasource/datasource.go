package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// SeriesQuery selects the bars LoadSeries returns. Empty Symbol means the file holds one symbol.
type SeriesQuery struct {
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
}

// DataSource reads stored bars for backtests and optimizer runs.
type DataSource interface {
	// Initialize exposes the parquet or csv file at path as the market_data view.
	Initialize(path string) error
	// LoadSeries returns the selected bars ascending by time.
	LoadSeries(query SeriesQuery) (types.BarSeries, error)
	// Count returns the number of rows between the optional bounds.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// GetAllSymbols returns the distinct symbols in the file, sorted.
	GetAllSymbols() ([]string, error)
	// ReadLastBar returns the most recent bar for symbol.
	ReadLastBar(symbol string) (types.Bar, error)
	// Close closes the data source and releases any resources
	Close() error
}

// LoadFile reads one series from a parquet or csv file through an in-memory data source.
func LoadFile(path string, query SeriesQuery, log *logger.Logger) (series types.BarSeries, err error) {
	source, err := NewDataSource("", log)
	if err != nil {
		return nil, err
	}

	defer func() {
		err = errors.Join(err, source.Close())
	}()

	if err := source.Initialize(path); err != nil {
		return nil, err
	}

	return source.LoadSeries(query)
}
