package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/metrics"
	"github.com/coinify-labs/coinify-bot/internal/report"
	"github.com/coinify-labs/coinify-bot/internal/server"
	"github.com/coinify-labs/coinify-bot/internal/trading/engine"
	enginev1 "github.com/coinify-labs/coinify-bot/internal/trading/engine/engine_v1"
	"github.com/coinify-labs/coinify-bot/internal/trading/journal"
	tradingprovider "github.com/coinify-labs/coinify-bot/internal/trading/provider"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
)

// executionConfig returns the provider config JSON from --execution-config, or
// builds the binance config from the key flags when no file is given.
func executionConfig(cmd *cli.Command, providerType tradingprovider.ProviderType) (string, error) {
	if path := cmd.String("execution-config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read execution config: %w", err)
		}

		return string(data), nil
	}

	if providerType == tradingprovider.ProviderPaper {
		return "", nil
	}

	data, err := json.Marshal(tradingprovider.BinanceProviderConfig{
		ApiKey:    cmd.String("binance-api-key"),
		SecretKey: cmd.String("binance-secret-key"),
		BaseURL:   cmd.String("binance-base-url"),
	})
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func newExecutionProvider(cmd *cli.Command, log *logger.Logger) (engine.ExecutionProvider, error) {
	providerType := tradingprovider.ProviderType(cmd.String("execution-provider"))
	if _, err := tradingprovider.GetProviderInfo(string(providerType)); err != nil {
		return nil, err
	}

	raw, err := executionConfig(cmd, providerType)
	if err != nil {
		return nil, err
	}

	config, err := tradingprovider.ParseProviderConfig(string(providerType), raw)
	if err != nil {
		return nil, err
	}

	return tradingprovider.NewExecutionProvider(providerType, config, log)
}

func newFetcher(cmd *cli.Command, log *logger.Logger) (engine.MarketDataFetcher, error) {
	providerType := provider.ProviderType(cmd.String("market-data-provider"))

	var config any

	switch providerType {
	case provider.ProviderPolygon:
		config = cmd.String("polygon-api-key")
	case provider.ProviderBinance:
		config = cmd.String("binance-base-url")
	}

	return provider.NewMarketDataProvider(providerType, config, log)
}

// callbacks prints every decision and, when j is set, journals it. A journal
// failure is reported as a tick error and the loop keeps polling.
func callbacks(log *logger.Logger, j *journal.Journal) engine.LiveTradingCallbacks {
	onStart := engine.OnEngineStartCallback(func(symbol string, interval string, mode types.OperatingMode) error {
		fmt.Printf("Polling %s every %s in %s mode\n", symbol, interval, mode)

		return nil
	})

	onStop := engine.OnEngineStopCallback(func(err error) {
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Engine stopped", zap.Error(err))

			return
		}

		fmt.Println("Engine stopped")
	})

	onDecision := engine.OnDecisionCallback(func(decision types.Decision) error {
		fmt.Println(report.Decision(decision))

		if j == nil {
			return nil
		}

		return j.Record(decision)
	})

	onTickError := engine.OnTickErrorCallback(func(err error) {
		fmt.Fprintf(os.Stderr, "tick failed: %v\n", err)
	})

	onOrderFilled := engine.OnOrderFilledCallback(func(order types.ExecuteOrder, execution types.ExecutionReport) error {
		fmt.Printf("Filled %s %s: %.8f @ %.4f\n", order.Side, order.Symbol, execution.ExecutedQuantity, execution.AveragePrice)

		return nil
	})

	return engine.LiveTradingCallbacks{
		OnEngineStart: &onStart,
		OnEngineStop:  &onStop,
		OnDecision:    &onDecision,
		OnTickError:   &onTickError,
		OnOrderFilled: &onOrderFilled,
	}
}

func liveAction(ctx context.Context, cmd *cli.Command) error {
	zapLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	config, err := engine.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	eng := enginev1.NewLiveTradingEngineV1(zapLogger.Named("live"), metrics.NewMetrics(registry))
	if err := eng.Initialize(config); err != nil {
		return err
	}

	fetcher, err := newFetcher(cmd, zapLogger)
	if err != nil {
		return err
	}

	if err := eng.SetMarketDataFetcher(fetcher); err != nil {
		return err
	}

	if config.Mode == types.ModeLive {
		executor, err := newExecutionProvider(cmd, zapLogger)
		if err != nil {
			return err
		}

		if err := eng.SetExecutionProvider(executor); err != nil {
			return err
		}
	}

	if address := cmd.String("listen"); address != "" {
		statusServer := server.NewStatusServer(eng.Status, registry, zapLogger)
		if err := statusServer.Start(address); err != nil {
			return err
		}

		defer func() {
			if err := statusServer.Stop(); err != nil {
				zapLogger.Warn("Failed to stop status server", zap.Error(err))
			}
		}()
	}

	var j *journal.Journal
	if root := cmd.String("journal"); root != "" {
		j = journal.NewJournal(root, config.Symbol, zapLogger)
		if err := j.Open(time.Now()); err != nil {
			return err
		}

		defer func() {
			if err := j.Close(); err != nil {
				zapLogger.Warn("Failed to close journal", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx, callbacks(zapLogger, j)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "live",
		Usage: "Poll recent bars on a fixed cadence and act on the latest closed bar",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Live trading config YAML; mode must be set to simulation or live",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "market-data-provider",
				Usage: fmt.Sprintf("Bar source (%s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value: string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "polygon-api-key",
				Usage:   "Polygon.io API key, required for the polygon provider",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "execution-provider",
				Usage: "Order execution in live mode (paper, binance-testnet, binance-live)",
				Value: string(tradingprovider.ProviderPaper),
			},
			&cli.StringFlag{
				Name:  "execution-config",
				Usage: "JSON config of the execution provider",
			},
			&cli.StringFlag{
				Name:    "binance-api-key",
				Usage:   "Binance API key, used when no execution config file is given",
				Sources: cli.EnvVars("BINANCE_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "binance-secret-key",
				Usage:   "Binance secret key, used when no execution config file is given",
				Sources: cli.EnvVars("BINANCE_SECRET_KEY"),
			},
			&cli.StringFlag{
				Name:    "binance-base-url",
				Usage:   "Overrides the Binance REST endpoint for market data and orders",
				Sources: cli.EnvVars("BINANCE_BASE_URL"),
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "Directory for the decisions, trades and stats journal, empty disables it",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address of the /status and /metrics endpoints, empty disables them",
				Value: ":9090",
			},
		},
		Action: liveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
