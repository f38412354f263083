package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine"
	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/coinify-labs/coinify-bot/internal/indicator"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/signal"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type BacktestEngineV1 struct {
	config     BacktestEngineV1Config
	log        *logger.Logger
	indicators indicator.Engine
	fee        commission_fee.CommissionFee
}

// NewBacktestEngineV1 creates an engine with DefaultConfig. Initialize may replace the config.
func NewBacktestEngineV1() engine.Engine {
	config := DefaultConfig()

	return &BacktestEngineV1{
		config:     config,
		log:        logger.NewNopLogger(),
		indicators: indicator.NewEngine(),
		fee:        commission_fee.GetCommissionFeeHandler(config.Broker),
	}
}

// NewBacktestEngineV1WithConfig creates an engine from an already decoded config.
func NewBacktestEngineV1WithConfig(config BacktestEngineV1Config, log *logger.Logger, indicators indicator.Engine) (engine.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if indicators == nil {
		indicators = indicator.NewEngine()
	}

	return &BacktestEngineV1{
		config:     config,
		log:        log,
		indicators: indicators,
		fee:        commission_fee.GetCommissionFeeHandler(config.Broker),
	}, nil
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed := DefaultConfig()
	if err := yaml.Unmarshal([]byte(config), &parsed); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest config", err)
	}

	if err := parsed.Validate(); err != nil {
		return err
	}

	b.config = parsed
	b.fee = commission_fee.GetCommissionFeeHandler(parsed.Broker)

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_balance", parsed.InitialBalance),
		zap.String("broker", string(parsed.Broker)),
	)

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(
	ctx context.Context,
	series types.BarSeries,
	params types.StrategyParams,
	callbacks engine.LifecycleCallbacks,
) (result types.BacktestResult, err error) {
	runID := uuid.New().String()
	state := NewBacktestState(b.config.InitialBalance, b.fee)

	result = types.BacktestResult{
		ID:        runID,
		Timestamp: time.Now(),
		Params:    params,
	}
	state.Summarize(&result)

	if callbacks.OnRunEnd != nil {
		defer func() {
			(*callbacks.OnRunEnd)(result, err)
		}()
	}

	if err = ctx.Err(); err != nil {
		return result, err
	}

	if err = params.Validate(); err != nil {
		return result, err
	}

	if err = series.Validate(); err != nil {
		return result, err
	}

	window := b.window(series)
	if last, ok := window.Last(); ok {
		result.Symbol = last.Symbol
	}

	frames, err := b.indicators.Compute(window, params)
	if err != nil {
		if errors.IsInsufficientDataError(err) {
			// too short to warm up: a run without trades, not a failure
			b.log.Debug("Series shorter than the indicator warm-up",
				zap.String("run_id", runID),
				zap.Int("bars", len(window)),
				zap.Int("required", params.RequiredBars()),
			)

			return result, nil
		}

		return result, errors.Wrap(errors.ErrCodeBacktestFailed, "indicator computation failed", err)
	}

	if callbacks.OnRunStart != nil {
		if err = (*callbacks.OnRunStart)(runID, len(frames)); err != nil {
			return result, errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback failed", err)
		}
	}

	for i, frame := range frames {
		if err = ctx.Err(); err != nil {
			state.Summarize(&result)

			return result, err
		}

		decision := signal.Simple(frame, params)
		trade := state.Apply(frame, decision)

		if callbacks.OnProcessFrame != nil {
			if err = (*callbacks.OnProcessFrame)(i+1, len(frames), frame, decision); err != nil {
				state.Summarize(&result)

				return result, errors.Wrap(errors.ErrCodeCallbackFailed, "process frame callback failed", err)
			}
		}

		if trade.IsSome() {
			closed := trade.Unwrap()
			b.log.Debug("Position closed",
				zap.String("run_id", runID),
				zap.Time("exit_time", closed.ExitTime),
				zap.Float64("realized_return", closed.RealizedReturn),
				zap.String("outcome", string(closed.Outcome)),
			)

			if callbacks.OnTrade != nil {
				if err = (*callbacks.OnTrade)(closed); err != nil {
					state.Summarize(&result)

					return result, errors.Wrap(errors.ErrCodeCallbackFailed, "trade callback failed", err)
				}
			}
		}
	}

	state.Summarize(&result)
	result.BarsProcessed = len(frames)

	return result, nil
}

// window restricts series to the configured time range without copying it.
func (b *BacktestEngineV1) window(series types.BarSeries) types.BarSeries {
	start, end := 0, len(series)

	if b.config.StartTime.IsSome() {
		startTime := b.config.StartTime.Unwrap()
		for start < end && series[start].Time.Before(startTime) {
			start++
		}
	}

	if b.config.EndTime.IsSome() {
		endTime := b.config.EndTime.Unwrap()
		for end > start && series[end-1].Time.After(endTime) {
			end--
		}
	}

	return series[start:end]
}
