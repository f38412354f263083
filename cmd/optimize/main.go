package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	enginev1 "github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/metrics"
	"github.com/coinify-labs/coinify-bot/internal/optimizer"
	"github.com/coinify-labs/coinify-bot/internal/report"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/datasource"
)

func loadGrid(path string) (optimizer.GridConfig, error) {
	if path == "" {
		return optimizer.DefaultGridConfig(), nil
	}

	return optimizer.LoadGridConfig(path)
}

// progressCallbacks drives a progress bar sized once the grid is enumerated.
func progressCallbacks() optimizer.Callbacks {
	var bar *progressbar.ProgressBar

	onStart := optimizer.OnStartCallback(func(total int, skipped int) {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(fmt.Sprintf("backtesting (%d skipped)", skipped)),
			progressbar.OptionClearOnFinish(),
		)
	})

	onRunComplete := optimizer.OnRunCompleteCallback(func(completed int, _ int) {
		_ = bar.Set(completed)
	})

	return optimizer.Callbacks{
		OnStart:       &onStart,
		OnRunComplete: &onRunComplete,
	}
}

func optimizeAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.InfoLevel
	}

	zapLogger, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	grid, err := loadGrid(cmd.String("grid"))
	if err != nil {
		return err
	}

	if workers := int(cmd.Int("workers")); workers > 0 {
		grid.Workers = workers
	}

	var engineConfig []byte
	if path := cmd.String("config"); path != "" {
		if engineConfig, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("failed to read backtest config: %w", err)
		}
	}

	series, err := datasource.LoadFile(cmd.String("data"), datasource.SeriesQuery{Symbol: cmd.String("symbol")}, zapLogger)
	if err != nil {
		return err
	}

	backtester := enginev1.NewBacktestEngineV1()
	if err := backtester.Initialize(string(engineConfig)); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	opt := optimizer.NewOptimizer(backtester, zapLogger.Named("optimizer"), metrics.NewMetrics(registry))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := opt.GridSearch(ctx, series, grid, progressCallbacks())
	if err != nil {
		return err
	}

	fmt.Println(report.Optimizer(result, int(cmd.Int("top"))))

	if output := cmd.String("output"); output != "" {
		if err := types.WriteResults(output, result); err != nil {
			return err
		}

		fmt.Printf("Report written to %s\n", output)
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "optimize",
		Usage: "Grid search strategy parameters over stored bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Parquet or csv bar file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbol to replay when the file holds several",
			},
			&cli.StringFlag{
				Name:    "grid",
				Aliases: []string{"g"},
				Usage:   "Grid config YAML, the default EMA/RSI grid is searched when omitted",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Backtest engine config YAML shared by every run",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent backtests, overrides the grid file; 0 keeps it",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of ranked results to print",
				Value: 10,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the full report as YAML to this path",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write optimizer metrics in the Prometheus text format to this path",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every profitable combination",
			},
		},
		Action: optimizeAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
