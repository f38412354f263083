// Package journal persists the decisions and trades of a live run as parquet
// files that survive restarts and can be replayed with DuckDB.
package journal

import (
	"time"

	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

const (
	DecisionsFile = "decisions.parquet"
	TradesFile    = "trades.parquet"
)

// Journal writes decisions.parquet, trades.parquet and stats.yaml into the current session folder.
type Journal struct {
	session   *Session
	symbol    string
	decisions *DecisionsWriter
	trades    *TradesWriter
	stats     *StatsTracker
	log       *logger.Logger
}

// NewJournal creates a journal under root for symbol.
func NewJournal(root string, symbol string, log *logger.Logger) *Journal {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Journal{
		session: NewSession(root, log),
		symbol:  symbol,
		log:     log.Named("journal"),
	}
}

// Open starts a new session folder and opens its writers.
func (j *Journal) Open(now time.Time) error {
	if err := j.session.Initialize(now); err != nil {
		return err
	}

	if err := j.openWriters(); err != nil {
		return err
	}

	j.stats = NewStatsTracker(j.symbol, now, j.log)

	return j.stats.Write(j.session, now)
}

// Stats returns the current statistics of the journal, zero before Open.
func (j *Journal) Stats(now time.Time) SessionStats {
	if j.stats == nil {
		return SessionStats{}
	}

	return j.stats.Snapshot(j.session, now)
}

// Session returns the folder layout of the journal.
func (j *Journal) Session() *Session {
	return j.session
}

// Record persists decision, and its trade when the decision closed a position.
// Crossing a date boundary rotates the writers into the new date folder.
func (j *Journal) Record(decision types.Decision) error {
	if j.decisions == nil {
		return errors.New(errors.ErrCodeJournalFailed, "journal not open")
	}

	rotated, err := j.session.HandleDateBoundary(decision.TickTime)
	if err != nil {
		return err
	}

	if rotated {
		if err := j.closeWriters(); err != nil {
			return err
		}

		if err := j.openWriters(); err != nil {
			return err
		}

		j.stats.HandleDateBoundary(j.session.Date())
	}

	if err := j.decisions.Write(decision); err != nil {
		return err
	}

	if decision.Trade != nil {
		if err := j.trades.Write(*decision.Trade); err != nil {
			return err
		}

		j.log.Debug("Trade journaled",
			zap.String("decision_id", decision.ID),
			zap.Float64("realized_return", decision.Trade.RealizedReturn),
		)
	}

	j.stats.RecordDecision(decision)

	return j.stats.Write(j.session, decision.TickTime)
}

// Close closes both writers.
func (j *Journal) Close() error {
	return j.closeWriters()
}

func (j *Journal) openWriters() error {
	decisions := NewDecisionsWriter(j.session.FilePath(DecisionsFile))
	if err := decisions.Initialize(); err != nil {
		return err
	}

	trades := NewTradesWriter(j.session.FilePath(TradesFile), j.symbol)
	if err := trades.Initialize(); err != nil {
		return errors.Join(err, decisions.Close())
	}

	j.decisions = decisions
	j.trades = trades

	return nil
}

func (j *Journal) closeWriters() error {
	var errs []error

	if j.decisions != nil {
		errs = append(errs, j.decisions.Close())
	}

	if j.trades != nil {
		errs = append(errs, j.trades.Close())
	}

	return errors.Join(errs...)
}
