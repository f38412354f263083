package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

type MetricsTestSuite struct {
	suite.Suite
	registry *prometheus.Registry
	metrics  *Metrics
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.registry = prometheus.NewRegistry()
	suite.metrics = NewMetrics(suite.registry)
}

func (suite *MetricsTestSuite) TestLiveCounters() {
	suite.metrics.TickStarted()
	suite.metrics.TickStarted()
	suite.metrics.FetchFailed()
	suite.metrics.Decision(types.SignalBuy)
	suite.metrics.Decision(types.SignalHold)
	suite.metrics.Decision(types.SignalHold)
	suite.metrics.Order(types.PurchaseTypeBuy, nil)
	suite.metrics.Order(types.PurchaseTypeSell, errors.New("rejected"))
	suite.metrics.PanicRecovered()
	suite.metrics.ObserveTick(150 * time.Millisecond)

	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.TicksTotal))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.FetchFailuresTotal))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.DecisionsTotal.WithLabelValues("buy")))
	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.DecisionsTotal.WithLabelValues("hold")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.OrdersTotal.WithLabelValues("BUY", "filled")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.OrdersTotal.WithLabelValues("SELL", "failed")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.RecoveredPanics))
	suite.Equal(1, testutil.CollectAndCount(suite.metrics.TickDuration))
}

func (suite *MetricsTestSuite) TestPositionGauge() {
	suite.metrics.SetPosition(types.Position{State: types.PositionLong, EntryPrice: 10})
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.PositionOpen))

	suite.metrics.SetPosition(types.FlatPosition())
	suite.Equal(0.0, testutil.ToFloat64(suite.metrics.PositionOpen))
}

func (suite *MetricsTestSuite) TestOptimizerMetrics() {
	suite.metrics.OptimizerRuns(4, 2, 1)
	suite.metrics.Profitable()
	suite.metrics.BestBalance(1054.5)

	suite.Equal(4.0, testutil.ToFloat64(suite.metrics.OptimizerRunsTotal.WithLabelValues("evaluated")))
	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.OptimizerRunsTotal.WithLabelValues("skipped")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.OptimizerRunsTotal.WithLabelValues("failed")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.OptimizerProfitable))
	suite.Equal(1054.5, testutil.ToFloat64(suite.metrics.OptimizerBestBalance))
}

func (suite *MetricsTestSuite) TestNilMetricsRecordNothing() {
	var m *Metrics

	suite.NotPanics(func() {
		m.TickStarted()
		m.FetchFailed()
		m.Decision(types.SignalSell)
		m.Order(types.PurchaseTypeBuy, nil)
		m.PanicRecovered()
		m.ObserveTick(time.Second)
		m.SetPosition(types.FlatPosition())
		m.OptimizerRuns(1, 1, 1)
		m.Profitable()
		m.BestBalance(1)
	})
}

func (suite *MetricsTestSuite) TestHandler() {
	suite.metrics.TickStarted()

	recorder := httptest.NewRecorder()
	Handler(suite.registry).ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(recorder.Result().Body)
	suite.Require().NoError(err)
	suite.Contains(string(body), "coinify_live_ticks_total 1")
}

func (suite *MetricsTestSuite) TestDoubleRegistrationPanics() {
	suite.Panics(func() {
		NewMetrics(suite.registry)
	})
}
