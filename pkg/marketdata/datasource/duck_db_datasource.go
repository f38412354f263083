package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

var barColumns = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path. An empty path keeps it in memory.
// This is distinct from Initialize() which loads bars into the database.
func NewDataSource(path string, log *logger.Logger) (DataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log.Named("datasource"),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		reader = "read_parquet"
	case ".csv":
		reader = "read_csv_auto"
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported bar file %s (expected .parquet or .csv)", path)
	}

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel has no CREATE VIEW and table functions take no bind parameters
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT CAST(time AS TIMESTAMP) AS time, CAST(symbol AS VARCHAR) AS symbol,
			CAST(open AS DOUBLE) AS open, CAST(high AS DOUBLE) AS high, CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close, CAST(volume AS DOUBLE) AS volume
		FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open bar file %s", path)
	}

	return nil
}

// LoadSeries implements DataSource.
func (d *DuckDBDataSource) LoadSeries(query SeriesQuery) (types.BarSeries, error) {
	conditions := squirrel.And{}

	if query.Symbol != "" {
		conditions = append(conditions, squirrel.Eq{"symbol": query.Symbol})
	}

	if query.Start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": query.Start.Unwrap()})
	}

	if query.End.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": query.End.Unwrap()})
	}

	builder := d.sq.Select(barColumns...).From("market_data").OrderBy("time ASC")
	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	series := make(types.BarSeries, 0)
	symbols := map[string]struct{}{}

	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, err
		}

		symbols[bar.Symbol] = struct{}{}
		series = append(series, bar)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	if len(symbols) > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bar file holds %d symbols, select one", len(symbols))
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no bars found for symbol %q", query.Symbol)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	d.logger.Debug("Loaded series",
		zap.String("symbol", series[0].Symbol),
		zap.Int("bars", len(series)),
		zap.Time("first", series[0].Time),
		zap.Time("last", series[len(series)-1].Time),
	)

	return series, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	builder := d.sq.Select("COUNT(*)").From("market_data")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// GetAllSymbols implements DataSource.
func (d *DuckDBDataSource) GetAllSymbols() ([]string, error) {
	query, args, err := d.sq.Select("DISTINCT symbol").From("market_data").OrderBy("symbol").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// ReadLastBar implements DataSource.
func (d *DuckDBDataSource) ReadLastBar(symbol string) (types.Bar, error) {
	query, args, err := d.sq.
		Select(barColumns...).
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	bar, err := scanBar(d.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Bar{}, errors.Newf(errors.ErrCodeDataNotFound, "no data found for symbol: %s", symbol)
	}

	return bar, err
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBar(row rowScanner) (types.Bar, error) {
	var bar types.Bar

	err := row.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Bar{}, err
	}

	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
	}

	bar.Time = bar.Time.UTC()

	return bar, nil
}
