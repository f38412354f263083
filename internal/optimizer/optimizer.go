// Package optimizer searches a grid of strategy parameters by running an
// independent backtest per combination and keeping the highest final balance.
package optimizer

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/metrics"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// OnStartCallback is called once the grid is enumerated, before any backtest starts.
type OnStartCallback func(total int, skipped int)

// OnRunCompleteCallback is called after every backtest, successful or not.
// Calls are serialized; completed counts up to total.
type OnRunCompleteCallback func(completed int, total int)

// OnProfitableCallback is called for every combination that ended above its
// initial balance, in enumeration order.
type OnProfitableCallback func(result types.BacktestResult)

// Callbacks are optional; nil fields are not invoked.
type Callbacks struct {
	OnStart       *OnStartCallback
	OnRunComplete *OnRunCompleteCallback
	OnProfitable  *OnProfitableCallback
}

// Report is the outcome of one grid search.
type Report struct {
	Best types.BacktestResult `yaml:"best" json:"best"`
	// Evaluated counts backtests that completed.
	Evaluated int `yaml:"evaluated" json:"evaluated"`
	// Skipped counts combinations rejected by parameter validation.
	Skipped int `yaml:"skipped" json:"skipped"`
	// Failed counts backtests that returned an error.
	Failed int `yaml:"failed" json:"failed"`
	// Results are ranked by final balance, descending; ties keep enumeration order.
	Results []types.BacktestResult `yaml:"results" json:"results"`
	// Profitable lists the results above their initial balance in enumeration order.
	Profitable []types.BacktestResult `yaml:"profitable" json:"profitable"`
}

type Optimizer struct {
	backtest engine.Engine
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewOptimizer creates an optimizer around a backtest engine. The engine must
// support concurrent Run calls. log and m may be nil.
func NewOptimizer(backtest engine.Engine, log *logger.Logger, m *metrics.Metrics) *Optimizer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Optimizer{
		backtest: backtest,
		log:      log,
		metrics:  m,
	}
}

type outcome struct {
	result types.BacktestResult
	err    error
}

// GridSearch backtests every valid combination of grid over series.
// The series is shared read-only by all runs.
func (o *Optimizer) GridSearch(ctx context.Context, series types.BarSeries, grid GridConfig, callbacks Callbacks) (Report, error) {
	if err := grid.Validate(); err != nil {
		return Report{}, err
	}

	if err := series.Validate(); err != nil {
		return Report{}, err
	}

	combinations := grid.Combinations()
	valid := lo.Filter(combinations, func(params types.StrategyParams, _ int) bool {
		return !errors.IsValidationError(params.Validate())
	})
	skipped := len(combinations) - len(valid)

	o.log.Info("Starting grid search",
		zap.Int("combinations", len(combinations)),
		zap.Int("valid", len(valid)),
		zap.Int("skipped", skipped),
		zap.Int("bars", len(series)),
	)

	if callbacks.OnStart != nil {
		(*callbacks.OnStart)(len(valid), skipped)
	}

	var (
		mu        sync.Mutex
		completed int
	)

	sem := make(chan struct{}, grid.WorkerCount())

	outcomes := lop.Map(valid, func(params types.StrategyParams, _ int) outcome {
		sem <- struct{}{}
		defer func() { <-sem }()

		var out outcome
		if err := ctx.Err(); err != nil {
			out.err = err
		} else {
			out.result, out.err = o.backtest.Run(ctx, series, params, engine.LifecycleCallbacks{})
		}

		mu.Lock()
		completed++
		if callbacks.OnRunComplete != nil {
			(*callbacks.OnRunComplete)(completed, len(valid))
		}
		mu.Unlock()

		return out
	})

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Skipped: skipped}
	for i, out := range outcomes {
		if out.err != nil {
			report.Failed++
			o.log.Warn("Backtest failed",
				zap.Int("ema_fast", valid[i].EMAFast),
				zap.Int("ema_slow", valid[i].EMASlow),
				zap.Float64("rsi_oversold", valid[i].RSIOversold),
				zap.Float64("rsi_overbought", valid[i].RSIOverbought),
				zap.Error(out.err),
			)

			continue
		}

		report.Results = append(report.Results, out.result)
	}

	report.Evaluated = len(report.Results)
	o.metrics.OptimizerRuns(report.Evaluated, report.Skipped, report.Failed)

	if len(report.Results) == 0 {
		return report, errors.Newf(errors.ErrCodeNoValidCombination,
			"no combination could be evaluated (%d skipped, %d failed)", report.Skipped, report.Failed)
	}

	// strict comparison keeps the first result seen on ties
	report.Best = lo.MaxBy(report.Results, func(a, b types.BacktestResult) bool {
		return a.FinalBalance > b.FinalBalance
	})
	o.metrics.BestBalance(report.Best.FinalBalance)

	report.Profitable = lo.Filter(report.Results, func(result types.BacktestResult, _ int) bool {
		return result.IsProfitable()
	})

	for _, result := range report.Profitable {
		o.log.Info("Profitable combination",
			zap.Int("ema_fast", result.Params.EMAFast),
			zap.Int("ema_slow", result.Params.EMASlow),
			zap.Float64("rsi_oversold", result.Params.RSIOversold),
			zap.Float64("rsi_overbought", result.Params.RSIOverbought),
			zap.Float64("final_balance", result.FinalBalance),
			zap.Int("trades", result.TradeCount),
			zap.Float64("win_rate", result.WinRate),
		)
		o.metrics.Profitable()

		if callbacks.OnProfitable != nil {
			(*callbacks.OnProfitable)(result)
		}
	}

	slices.SortStableFunc(report.Results, func(a, b types.BacktestResult) int {
		return cmp.Compare(b.FinalBalance, a.FinalBalance)
	})

	o.log.Info("Grid search finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("profitable", len(report.Profitable)),
		zap.Float64("best_balance", report.Best.FinalBalance),
	)

	return report, nil
}
