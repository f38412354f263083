package journal

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// StatsFile is written next to the parquet files of every session folder.
const StatsFile = "stats.yaml"

// TradeStats summarizes closed trades over a period.
type TradeStats struct {
	Trades           int     `yaml:"trades"`
	Wins             int     `yaml:"wins"`
	Losses           int     `yaml:"losses"`
	WinRate          float64 `yaml:"win_rate"`
	CumulativeReturn float64 `yaml:"cumulative_return"`
	BestTrade        float64 `yaml:"best_trade"`
	WorstTrade       float64 `yaml:"worst_trade"`
	MaxDrawdown      float64 `yaml:"max_drawdown"`
	AvgHoldingTime   string  `yaml:"avg_holding_time"`
}

// SessionStats is the content of stats.yaml.
type SessionStats struct {
	RunID        string     `yaml:"run_id"`
	Symbol       string     `yaml:"symbol"`
	Date         string     `yaml:"date"`
	SessionStart time.Time  `yaml:"session_start"`
	LastUpdated  time.Time  `yaml:"last_updated"`
	Decisions    int        `yaml:"decisions"`
	Daily        TradeStats `yaml:"daily"`
	Cumulative   TradeStats `yaml:"cumulative"`
}

// accumulator compounds realized returns into an equity curve starting at 1.
type accumulator struct {
	trades   int
	wins     int
	equity   float64
	peak     float64
	best     float64
	worst    float64
	drawdown float64
	holding  time.Duration
}

func newAccumulator() *accumulator {
	return &accumulator{equity: 1, peak: 1}
}

func (a *accumulator) add(trade types.TradeRecord) {
	if a.trades == 0 || trade.RealizedReturn > a.best {
		a.best = trade.RealizedReturn
	}

	if a.trades == 0 || trade.RealizedReturn < a.worst {
		a.worst = trade.RealizedReturn
	}

	a.trades++
	if trade.Outcome == types.TradeOutcomeWin {
		a.wins++
	}

	a.equity *= 1 + trade.RealizedReturn
	a.peak = max(a.peak, a.equity)
	a.drawdown = max(a.drawdown, (a.peak-a.equity)/a.peak)
	a.holding += trade.ExitTime.Sub(trade.EntryTime)
}

func (a *accumulator) stats() TradeStats {
	s := TradeStats{
		Trades:           a.trades,
		Wins:             a.wins,
		Losses:           a.trades - a.wins,
		WinRate:          types.WinRate(a.wins, a.trades),
		CumulativeReturn: a.equity - 1,
		BestTrade:        a.best,
		WorstTrade:       a.worst,
		MaxDrawdown:      a.drawdown,
		AvgHoldingTime:   "0s",
	}

	if a.trades > 0 {
		s.AvgHoldingTime = (a.holding / time.Duration(a.trades)).String()
	}

	return s
}

// StatsTracker keeps daily and cumulative trade statistics of a journal.
// Daily figures reset on every date boundary.
type StatsTracker struct {
	mu           sync.Mutex
	symbol       string
	sessionStart time.Time
	decisions    int
	daily        *accumulator
	cumulative   *accumulator
	log          *logger.Logger
}

// NewStatsTracker creates a tracker for symbol starting at sessionStart.
func NewStatsTracker(symbol string, sessionStart time.Time, log *logger.Logger) *StatsTracker {
	return &StatsTracker{
		symbol:       symbol,
		sessionStart: sessionStart,
		daily:        newAccumulator(),
		cumulative:   newAccumulator(),
		log:          log.Named("stats"),
	}
}

// RecordDecision counts decision and folds its trade, if any, into both periods.
func (s *StatsTracker) RecordDecision(decision types.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decisions++

	if decision.Trade == nil {
		return
	}

	s.daily.add(*decision.Trade)
	s.cumulative.add(*decision.Trade)

	s.log.Debug("Trade recorded",
		zap.Float64("realized_return", decision.Trade.RealizedReturn),
		zap.Int("total_trades", s.cumulative.trades),
	)
}

// HandleDateBoundary resets the daily figures.
func (s *StatsTracker) HandleDateBoundary(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.daily = newAccumulator()

	s.log.Info("Daily stats reset", zap.String("date", date))
}

// Snapshot returns the stats of session as of now.
func (s *StatsTracker) Snapshot(session *Session, now time.Time) SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionStats{
		RunID:        session.RunID(),
		Symbol:       s.symbol,
		Date:         session.Date(),
		SessionStart: s.sessionStart,
		LastUpdated:  now,
		Decisions:    s.decisions,
		Daily:        s.daily.stats(),
		Cumulative:   s.cumulative.stats(),
	}
}

// Write stores the snapshot as stats.yaml in the current session folder.
func (s *StatsTracker) Write(session *Session, now time.Time) error {
	if err := types.WriteResults(session.FilePath(StatsFile), s.Snapshot(session, now)); err != nil {
		return errors.Wrap(errors.ErrCodeJournalFailed, "failed to write stats", err)
	}

	return nil
}
