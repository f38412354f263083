package engine

import (
	"context"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

// MarketDataFetcher returns the most recent closed bars of a symbol, oldest first.
type MarketDataFetcher interface {
	FetchLatest(ctx context.Context, symbol string, interval string, limit int) (types.BarSeries, error)
}

// ExecutionProvider fills market orders forwarded by the loop in live mode.
type ExecutionProvider interface {
	ExecuteOrder(ctx context.Context, order types.ExecuteOrder) (types.ExecutionReport, error)
}

// Lifecycle callback types for the live loop.
// An OnEngineStart error aborts the run. Errors of the per-tick callbacks fail
// that tick only: they reach OnTickError and the loop waits the error backoff.

// OnEngineStartCallback is called once before the first tick.
type OnEngineStartCallback func(symbol string, interval string, mode types.OperatingMode) error

// OnEngineStopCallback is called when the loop exits (always called via defer).
type OnEngineStopCallback func(err error)

// OnDecisionCallback is called for every tick that produced a decision.
type OnDecisionCallback func(decision types.Decision) error

// OnTickErrorCallback is called when a tick failed and the loop keeps going.
type OnTickErrorCallback func(err error)

// OnOrderPlacedCallback is called before an order is forwarded to the execution provider.
type OnOrderPlacedCallback func(order types.ExecuteOrder) error

// OnOrderFilledCallback is called when the execution provider filled an order.
type OnOrderFilledCallback func(order types.ExecuteOrder, report types.ExecutionReport) error

// OnStatusUpdateCallback is called when the loop starts or stops.
type OnStatusUpdateCallback func(status types.EngineStatus) error

// LiveTradingCallbacks holds all lifecycle callback functions for the live loop.
// All fields are pointers - nil means no callback will be invoked.
type LiveTradingCallbacks struct {
	OnEngineStart  *OnEngineStartCallback
	OnEngineStop   *OnEngineStopCallback
	OnDecision     *OnDecisionCallback
	OnTickError    *OnTickErrorCallback
	OnOrderPlaced  *OnOrderPlacedCallback
	OnOrderFilled  *OnOrderFilledCallback
	OnStatusUpdate *OnStatusUpdateCallback
}

// LiveTradingEngine repeats the indicator and signal computation on a fixed cadence
// and tracks a single position.
type LiveTradingEngine interface {
	// Initialize sets up the engine with the given configuration.
	Initialize(config LiveTradingEngineConfig) error

	// SetMarketDataFetcher configures where bars come from.
	SetMarketDataFetcher(fetcher MarketDataFetcher) error

	// SetExecutionProvider configures where orders go. Required in live mode only.
	SetExecutionProvider(provider ExecutionProvider) error

	// Run starts polling.
	// Blocks until ctx is cancelled or OnEngineStart fails.
	Run(ctx context.Context, callbacks LiveTradingCallbacks) error

	// Status returns a snapshot that is safe to read while Run is active.
	Status() types.LiveStatus

	// GetConfigSchema returns the JSON schema for engine configuration.
	GetConfigSchema() (string, error)
}
