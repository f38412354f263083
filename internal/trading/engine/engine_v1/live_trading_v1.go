package engine_v1

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/indicator"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/metrics"
	"github.com/coinify-labs/coinify-bot/internal/signal"
	"github.com/coinify-labs/coinify-bot/internal/trading/engine"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// LiveTradingEngineV1 implements the LiveTradingEngine interface as a polling loop.
// One instance owns one position; it must not be Run concurrently.
type LiveTradingEngineV1 struct {
	config      engine.LiveTradingEngineConfig
	fetcher     engine.MarketDataFetcher
	executor    engine.ExecutionProvider
	indicators  indicator.Engine
	log         *logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	wait        func(ctx context.Context, d time.Duration) error
	initialized bool

	// position state, only touched by the loop goroutine
	position types.Position
	quantity float64

	mu     sync.RWMutex
	status types.LiveStatus
}

// NewLiveTradingEngineV1 creates an engine. log and m may be nil.
func NewLiveTradingEngineV1(log *logger.Logger, m *metrics.Metrics) engine.LiveTradingEngine {
	return newLiveTradingEngineV1(log, m, indicator.NewEngine())
}

// newLiveTradingEngineV1 is used by tests to replace the indicator engine.
func newLiveTradingEngineV1(log *logger.Logger, m *metrics.Metrics, indicators indicator.Engine) *LiveTradingEngineV1 {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &LiveTradingEngineV1{
		config:      engine.LiveTradingEngineConfig{}, //nolint:exhaustruct // initialized via Initialize()
		fetcher:     nil,
		executor:    nil,
		indicators:  indicators,
		log:         log,
		metrics:     m,
		now:         time.Now,
		wait:        sleep,
		initialized: false,
		position:    types.FlatPosition(),
		quantity:    0,
		status:      types.LiveStatus{Status: types.EngineStatusStopped, Position: types.FlatPosition()},
	}
}

// Initialize implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) Initialize(config engine.LiveTradingEngineConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	e.config = config
	e.initialized = true

	e.mu.Lock()
	e.status.Symbol = config.Symbol
	e.status.Interval = config.Interval
	e.status.Mode = config.Mode
	e.mu.Unlock()

	e.log.Info("Live trading engine initialized",
		zap.String("symbol", config.Symbol),
		zap.String("interval", config.Interval),
		zap.String("mode", string(config.Mode)),
		zap.Int("lookback", config.Lookback),
		zap.Duration("poll_interval", config.PollInterval),
	)

	return nil
}

// SetMarketDataFetcher implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) SetMarketDataFetcher(fetcher engine.MarketDataFetcher) error {
	e.fetcher = fetcher

	return nil
}

// SetExecutionProvider implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) SetExecutionProvider(provider engine.ExecutionProvider) error {
	e.executor = provider

	return nil
}

// GetConfigSchema implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) GetConfigSchema() (string, error) {
	return engine.GetConfigSchema()
}

// Status implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) Status() types.LiveStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := e.status
	if status.LastDecision != nil {
		decision := *status.LastDecision
		status.LastDecision = &decision
	}

	return status
}

// Run implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) Run(ctx context.Context, callbacks engine.LiveTradingCallbacks) (runErr error) {
	if err := e.preRunCheck(); err != nil {
		return err
	}

	defer func() {
		e.setStatus(types.EngineStatusStopped)

		if callbacks.OnStatusUpdate != nil {
			_ = (*callbacks.OnStatusUpdate)(types.EngineStatusStopped)
		}

		if callbacks.OnEngineStop != nil {
			(*callbacks.OnEngineStop)(runErr)
		}

		e.log.Info("Live trading engine stopped", zap.Error(runErr))
	}()

	if callbacks.OnEngineStart != nil {
		if err := (*callbacks.OnEngineStart)(e.config.Symbol, e.config.Interval, e.config.Mode); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnEngineStart callback failed", err)
		}
	}

	e.setStatus(types.EngineStatusRunning)

	if callbacks.OnStatusUpdate != nil {
		if err := (*callbacks.OnStatusUpdate)(types.EngineStatusRunning); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnStatusUpdate callback failed", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.config.PollInterval

		// a failed tick, callback failures included, never ends the loop
		if err := e.safeTick(ctx, callbacks); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if !isFetchFailure(err) {
				delay = e.config.ErrorBackoff
			}

			e.recordFailure(err)
			e.log.Error("Tick failed",
				zap.String("symbol", e.config.Symbol),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)

			if callbacks.OnTickError != nil {
				(*callbacks.OnTickError)(err)
			}
		}

		if err := e.wait(ctx, delay); err != nil {
			return err
		}
	}
}

// safeTick runs one tick and converts a panic into an error.
func (e *LiveTradingEngineV1) safeTick(ctx context.Context, callbacks engine.LiveTradingCallbacks) (err error) {
	started := e.now()
	e.metrics.TickStarted()

	defer func() {
		if r := recover(); r != nil {
			e.metrics.PanicRecovered()
			err = errors.Newf(errors.ErrCodeTickPanic, "tick panicked: %v", r)
		}

		e.metrics.ObserveTick(e.now().Sub(started))
	}()

	return e.tick(ctx, started, callbacks)
}

func (e *LiveTradingEngineV1) tick(ctx context.Context, tickTime time.Time, callbacks engine.LiveTradingCallbacks) error {
	e.mu.Lock()
	e.status.Ticks++
	e.status.LastTick = tickTime
	e.mu.Unlock()

	series, err := e.fetcher.FetchLatest(ctx, e.config.Symbol, e.config.Interval, e.config.Lookback)
	if err != nil {
		e.metrics.FetchFailed()

		return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s bars", e.config.Symbol)
	}

	if len(series) == 0 {
		e.metrics.FetchFailed()

		return errors.Newf(errors.ErrCodeMarketDataEmpty, "no %s bars returned", e.config.Symbol)
	}

	frames, err := e.indicators.Compute(series, e.config.Params)
	if err != nil {
		return err
	}

	frame := frames[len(frames)-1]
	decision := types.Decision{
		ID:         uuid.New().String(),
		TickTime:   tickTime,
		BarTime:    frame.Time,
		Symbol:     e.config.Symbol,
		Close:      frame.Close,
		Signal:     signal.Simple(frame, e.config.Params),
		Action:     types.TradeActionNone,
		Confluence: signal.Confluence(frame, e.config.Params),
		BandZone:   signal.BandZone(frame),
		Mode:       e.config.Mode,
		Position:   e.position,
		Trade:      nil,
		Order:      nil,
	}

	var filled types.ExecuteOrder

	switch {
	case decision.Signal == types.SignalBuy && !e.position.IsLong():
		if filled, err = e.openPosition(ctx, frame, &decision, callbacks); err != nil {
			return err
		}
	case decision.Signal == types.SignalSell && e.position.IsLong():
		if filled, err = e.closePosition(ctx, frame, &decision, callbacks); err != nil {
			return err
		}
	}

	decision.Position = e.position
	e.metrics.Decision(decision.Signal)
	e.metrics.SetPosition(e.position)
	e.recordDecision(decision)

	e.log.Info("Decision",
		zap.String("symbol", decision.Symbol),
		zap.Time("bar_time", decision.BarTime),
		zap.Float64("close", decision.Close),
		zap.String("signal", string(decision.Signal)),
		zap.String("action", string(decision.Action)),
		zap.Int("confluence_score", decision.Confluence.Score),
		zap.String("band_zone", string(decision.BandZone)),
		zap.String("position", string(decision.Position.State)),
		zap.String("mode", string(decision.Mode)),
	)

	// the position already moved, so the decision is published even when
	// the fill notification failed
	filledErr := e.notifyFilled(filled, decision.Order, callbacks)

	var decisionErr error
	if callbacks.OnDecision != nil {
		if err := (*callbacks.OnDecision)(decision); err != nil {
			decisionErr = errors.Wrap(errors.ErrCodeCallbackFailed, "OnDecision callback failed", err)
		}
	}

	return errors.Join(filledErr, decisionErr)
}

// openPosition enters a long position at the frame close, or at the fill price in live mode.
func (e *LiveTradingEngineV1) openPosition(ctx context.Context, frame types.IndicatorFrame, decision *types.Decision, callbacks engine.LiveTradingCallbacks) (types.ExecuteOrder, error) {
	entryPrice := frame.Close
	quantity := e.config.TradeAmount / frame.Close

	var (
		order  types.ExecuteOrder
		report types.ExecutionReport
	)

	if e.config.Mode == types.ModeLive {
		order = types.ExecuteOrder{
			ID:          uuid.New().String(),
			Symbol:      e.config.Symbol,
			Side:        types.PurchaseTypeBuy,
			QuoteAmount: e.config.TradeAmount,
			Quantity:    0,
			Price:       frame.Close,
			Reason:      fmt.Sprintf("ema_fast %.4f above ema_slow %.4f", frame.EMAFast, frame.EMASlow),
			CreatedAt:   e.now(),
		}

		var err error

		report, err = e.execute(ctx, order, callbacks)
		if err != nil {
			return types.ExecuteOrder{}, err
		}

		decision.Order = &report
		quantity = report.ExecutedQuantity

		if report.AveragePrice > 0 {
			entryPrice = report.AveragePrice
		}
	}

	e.position = types.Position{
		State:      types.PositionLong,
		EntryPrice: entryPrice,
		EntryTime:  frame.Time,
	}
	e.quantity = quantity
	decision.Action = types.TradeActionOpen

	return order, nil
}

// closePosition exits the long position and records the realized return.
func (e *LiveTradingEngineV1) closePosition(ctx context.Context, frame types.IndicatorFrame, decision *types.Decision, callbacks engine.LiveTradingCallbacks) (types.ExecuteOrder, error) {
	exitPrice := frame.Close

	var (
		order  types.ExecuteOrder
		report types.ExecutionReport
	)

	if e.config.Mode == types.ModeLive {
		order = types.ExecuteOrder{
			ID:          uuid.New().String(),
			Symbol:      e.config.Symbol,
			Side:        types.PurchaseTypeSell,
			QuoteAmount: 0,
			Quantity:    e.quantity,
			Price:       frame.Close,
			Reason:      fmt.Sprintf("ema_fast %.4f below ema_slow %.4f", frame.EMAFast, frame.EMASlow),
			CreatedAt:   e.now(),
		}

		var err error

		report, err = e.execute(ctx, order, callbacks)
		if err != nil {
			return types.ExecuteOrder{}, err
		}

		decision.Order = &report

		if report.AveragePrice > 0 {
			exitPrice = report.AveragePrice
		}
	}

	realized := (exitPrice - e.position.EntryPrice) / e.position.EntryPrice
	trade := types.TradeRecord{
		EntryTime:      e.position.EntryTime,
		ExitTime:       frame.Time,
		EntryPrice:     e.position.EntryPrice,
		ExitPrice:      exitPrice,
		RealizedReturn: realized,
		Outcome:        types.OutcomeForReturn(realized),
	}

	e.position = types.FlatPosition()
	e.quantity = 0
	decision.Action = types.TradeActionClose
	decision.Trade = &trade

	e.mu.Lock()
	e.status.TradeCount++
	if trade.Outcome == types.TradeOutcomeWin {
		e.status.Wins++
	}
	e.mu.Unlock()

	return order, nil
}

func (e *LiveTradingEngineV1) execute(ctx context.Context, order types.ExecuteOrder, callbacks engine.LiveTradingCallbacks) (types.ExecutionReport, error) {
	if callbacks.OnOrderPlaced != nil {
		if err := (*callbacks.OnOrderPlaced)(order); err != nil {
			return types.ExecutionReport{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnOrderPlaced callback failed", err)
		}
	}

	report, err := e.executor.ExecuteOrder(ctx, order)
	e.metrics.Order(order.Side, err)

	if err != nil {
		return types.ExecutionReport{}, errors.Wrapf(errors.ErrCodeOrderFailed, err, "failed to execute %s order %s", order.Side, order.ID)
	}

	e.log.Info("Order filled",
		zap.String("order_id", report.OrderID),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", report.ExecutedQuantity),
		zap.Float64("price", report.AveragePrice),
	)

	return report, nil
}

// notifyFilled runs after the position was updated, so a failing callback
// cannot leave the tracked position behind the venue. No-op without a fill.
func (e *LiveTradingEngineV1) notifyFilled(order types.ExecuteOrder, report *types.ExecutionReport, callbacks engine.LiveTradingCallbacks) error {
	if report == nil || callbacks.OnOrderFilled == nil {
		return nil
	}

	if err := (*callbacks.OnOrderFilled)(order, *report); err != nil {
		return errors.Wrap(errors.ErrCodeCallbackFailed, "OnOrderFilled callback failed", err)
	}

	return nil
}

// preRunCheck validates that all required components are configured before running.
func (e *LiveTradingEngineV1) preRunCheck() error {
	if !e.initialized {
		return errors.New(errors.ErrCodeInvalidConfiguration, "engine not initialized - call Initialize() first")
	}

	if e.fetcher == nil {
		return errors.New(errors.ErrCodeInvalidConfiguration, "market data fetcher not set - call SetMarketDataFetcher() first")
	}

	if e.config.Mode == types.ModeLive && e.executor == nil {
		return errors.New(errors.ErrCodeExecutionNotAllowed, "live mode requires an execution provider - call SetExecutionProvider() first")
	}

	return nil
}

func (e *LiveTradingEngineV1) setStatus(status types.EngineStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.Status = status
}

func (e *LiveTradingEngineV1) recordDecision(decision types.Decision) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.LastDecision = &decision
	e.status.Position = decision.Position
	e.status.LastError = ""
}

func (e *LiveTradingEngineV1) recordFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.Failures++
	e.status.LastError = err.Error()
}

// isFetchFailure reports whether err only means there was nothing to evaluate this tick.
func isFetchFailure(err error) bool {
	return errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed) || errors.HasCode(err, errors.ErrCodeMarketDataEmpty)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
