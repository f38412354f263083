package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// parquetTable keeps one table in an in-memory DuckDB and re-exports it to
// outputPath after every insert, so the file is complete at any point in time.
type parquetTable struct {
	db         *sql.DB
	name       string
	schema     string
	columns    []string
	orderBy    string
	outputPath string
	mu         sync.Mutex
}

func newParquetTable(outputPath, name, schema, orderBy string, columns []string) *parquetTable {
	return &parquetTable{
		name:       name,
		schema:     schema,
		columns:    columns,
		orderBy:    orderBy,
		outputPath: outputPath,
	}
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// initialize creates the table and loads the rows of an existing file at outputPath.
func (t *parquetTable) initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeJournalFailed, "failed to create journal directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalFailed, "failed to open DuckDB connection", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, t.schema)); err != nil {
		db.Close()

		return errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to create %s table", t.name)
	}

	if _, err := os.Stat(t.outputPath); err == nil {
		query := fmt.Sprintf("INSERT INTO %s SELECT * FROM read_parquet(%s)", t.name, quote(t.outputPath))
		if _, err := db.Exec(query); err != nil {
			db.Close()

			return errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to load existing %s", t.outputPath)
		}
	}

	t.db = db

	return nil
}

// insert appends one row, values in column order, then exports the table.
func (t *parquetTable) insert(values ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return errors.Newf(errors.ErrCodeJournalFailed, "%s writer not initialized", t.name)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), placeholders)

	if _, err := t.db.Exec(query, values...); err != nil {
		return errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to insert into %s", t.name)
	}

	return t.export()
}

func (t *parquetTable) export() error {
	query := fmt.Sprintf("COPY (SELECT * FROM %s ORDER BY %s) TO %s (FORMAT PARQUET)", t.name, t.orderBy, quote(t.outputPath))
	if _, err := t.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to export %s", t.outputPath)
	}

	return nil
}

func (t *parquetTable) count() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return 0, errors.Newf(errors.ErrCodeJournalFailed, "%s writer not initialized", t.name)
	}

	var count int
	if err := t.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t.name)).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeJournalFailed, err, "failed to count %s", t.name)
	}

	return count, nil
}

func (t *parquetTable) close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return nil
	}

	err := t.db.Close()
	t.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalFailed, "failed to close database", err)
	}

	return nil
}
