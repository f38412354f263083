package engine

import (
	"context"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

// Lifecycle callback types for a backtest run.
// All callbacks with error return can abort the run if they return an error.

// OnRunStartCallback is called once the indicator frames are ready, before the first frame is replayed.
// runID is the identifier the BacktestResult will carry.
type OnRunStartCallback func(runID string, totalFrames int) error

// OnRunEndCallback is called when the run completes (always called via defer).
type OnRunEndCallback func(result types.BacktestResult, err error)

// OnProcessFrameCallback is called for each replayed frame with the decision taken on it.
type OnProcessFrameCallback func(current int, total int, frame types.IndicatorFrame, signal types.Signal) error

// OnTradeCallback is called every time a long position is closed.
type OnTradeCallback func(trade types.TradeRecord) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart     *OnRunStartCallback
	OnRunEnd       *OnRunEndCallback
	OnProcessFrame *OnProcessFrameCallback
	OnTrade        *OnTradeCallback
}

// Engine replays a bar series through the simple signal rule with a single position.
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// Run replays series with params and returns the realized summary.
	// Runs are independent: the engine keeps no state between calls and
	// never modifies series, so one engine may serve concurrent runs.
	Run(ctx context.Context, series types.BarSeries, params types.StrategyParams, callbacks LifecycleCallbacks) (types.BacktestResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
