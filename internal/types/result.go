package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BacktestResult is the immutable summary of one backtest run.
type BacktestResult struct {
	// ID is a unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the replayed series, empty if the bars carry none.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Params the run was configured with.
	Params StrategyParams `yaml:"params" json:"params"`
	// InitialBalance is the balance before the first trade.
	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance"`
	// FinalBalance only reflects closed round trips.
	FinalBalance float64 `yaml:"final_balance" json:"final_balance"`
	// TradeCount equals len(Trades).
	TradeCount int `yaml:"trade_count" json:"trade_count"`
	Wins       int `yaml:"wins" json:"wins"`
	Losses     int `yaml:"losses" json:"losses"`
	// WinRate is wins/trades*100, or 0 without trades.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// TotalReturn is FinalBalance/InitialBalance - 1.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// BarsProcessed is the number of indicator frames replayed.
	BarsProcessed int `yaml:"bars_processed" json:"bars_processed"`
	// OpenPosition is the unrealized position left at the end of the series.
	OpenPosition Position `yaml:"open_position" json:"open_position"`
	// Trades is the ordered trade log.
	Trades []TradeRecord `yaml:"trades" json:"trades"`
}

// IsProfitable reports whether the run ended above its initial balance.
func (r BacktestResult) IsProfitable() bool {
	return r.FinalBalance > r.InitialBalance
}

// WinRate computes wins/trades*100 with the zero-trade convention.
func WinRate(wins, trades int) float64 {
	if trades <= 0 {
		return 0
	}

	return float64(wins) / float64(trades) * 100
}

// WriteResults writes results to path as YAML.
func WriteResults[T any](path string, results T) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results to file: %w", err)
	}

	return nil
}
