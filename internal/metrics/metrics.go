// Package metrics holds the Prometheus collectors of the live loop and the optimizer.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

const namespace = "coinify"

// Metrics holds all Prometheus metrics of the bot.
type Metrics struct {
	// Live loop
	TicksTotal         prometheus.Counter
	FetchFailuresTotal prometheus.Counter
	DecisionsTotal     *prometheus.CounterVec // labels: signal
	OrdersTotal        *prometheus.CounterVec // labels: side, status
	RecoveredPanics    prometheus.Counter
	TickDuration       prometheus.Histogram
	PositionOpen       prometheus.Gauge // 0=flat, 1=long

	// Optimizer
	OptimizerRunsTotal   *prometheus.CounterVec // labels: status=evaluated|skipped|failed
	OptimizerProfitable  prometheus.Counter
	OptimizerBestBalance prometheus.Gauge
}

// NewMetrics creates every collector and registers it with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_ticks_total",
			Help:      "Total live loop ticks started",
		}),
		FetchFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_fetch_failures_total",
			Help:      "Ticks skipped because the bar fetch failed or returned no bars",
		}),
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_decisions_total",
			Help:      "Signals emitted by the live loop",
		}, []string{"signal"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_orders_total",
			Help:      "Orders forwarded to the execution provider",
		}, []string{"side", "status"}),
		RecoveredPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_recovered_panics_total",
			Help:      "Ticks that panicked and were recovered",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "live_tick_duration_seconds",
			Help:      "Fetch, compute and decide latency of one tick",
			Buckets:   prometheus.DefBuckets,
		}),
		PositionOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_position_open",
			Help:      "1 while the live loop holds a long position",
		}),
		OptimizerRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_runs_total",
			Help:      "Grid combinations by outcome",
		}, []string{"status"}),
		OptimizerProfitable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_profitable_total",
			Help:      "Combinations that ended above the initial balance",
		}),
		OptimizerBestBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "optimizer_best_final_balance",
			Help:      "Final balance of the best combination of the last search",
		}),
	}

	reg.MustRegister(
		m.TicksTotal,
		m.FetchFailuresTotal,
		m.DecisionsTotal,
		m.OrdersTotal,
		m.RecoveredPanics,
		m.TickDuration,
		m.PositionOpen,
		m.OptimizerRunsTotal,
		m.OptimizerProfitable,
		m.OptimizerBestBalance,
	)

	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) TickStarted() {
	if m == nil {
		return
	}

	m.TicksTotal.Inc()
}

func (m *Metrics) FetchFailed() {
	if m == nil {
		return
	}

	m.FetchFailuresTotal.Inc()
}

func (m *Metrics) Decision(signal types.Signal) {
	if m == nil {
		return
	}

	m.DecisionsTotal.WithLabelValues(string(signal)).Inc()
}

func (m *Metrics) Order(side types.PurchaseType, err error) {
	if m == nil {
		return
	}

	status := "filled"
	if err != nil {
		status = "failed"
	}

	m.OrdersTotal.WithLabelValues(string(side), status).Inc()
}

func (m *Metrics) PanicRecovered() {
	if m == nil {
		return
	}

	m.RecoveredPanics.Inc()
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}

	m.TickDuration.Observe(d.Seconds())
}

func (m *Metrics) SetPosition(position types.Position) {
	if m == nil {
		return
	}

	if position.IsLong() {
		m.PositionOpen.Set(1)
	} else {
		m.PositionOpen.Set(0)
	}
}

// OptimizerRuns adds the outcome counts of one grid search.
func (m *Metrics) OptimizerRuns(evaluated, skipped, failed int) {
	if m == nil {
		return
	}

	m.OptimizerRunsTotal.WithLabelValues("evaluated").Add(float64(evaluated))
	m.OptimizerRunsTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.OptimizerRunsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) Profitable() {
	if m == nil {
		return
	}

	m.OptimizerProfitable.Inc()
}

func (m *Metrics) BestBalance(balance float64) {
	if m == nil {
		return
	}

	m.OptimizerBestBalance.Set(balance)
}
