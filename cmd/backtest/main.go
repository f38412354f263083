package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine"
	enginev1 "github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1"
	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/report"
	"github.com/coinify-labs/coinify-bot/internal/trading/journal"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/datasource"
)

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	if cmd.Bool("verbose") {
		return logger.NewLoggerWithLevel(zapcore.DebugLevel)
	}

	return logger.NewLoggerWithLevel(zapcore.WarnLevel)
}

// loadParams returns the defaults unless --params points at a YAML file.
func loadParams(path string) (types.StrategyParams, error) {
	if path == "" {
		return types.DefaultStrategyParams(), nil
	}

	return types.LoadStrategyParams(path)
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	zapLogger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	params, err := loadParams(cmd.String("params"))
	if err != nil {
		return err
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

	var trades *journal.TradesWriter
	if path := cmd.String("trades"); path != "" {
		trades = journal.NewTradesWriter(path, series[0].Symbol)
		if err := trades.Initialize(); err != nil {
			return err
		}
		defer trades.Close() //nolint:errcheck
	}

	onTrade := engine.OnTradeCallback(func(trade types.TradeRecord) error {
		zapLogger.Debug("Trade closed",
			zap.Time("entry_time", trade.EntryTime),
			zap.Time("exit_time", trade.ExitTime),
			zap.Float64("realized_return", trade.RealizedReturn),
		)

		if trades == nil {
			return nil
		}

		return trades.Write(trade)
	})

	result, err := backtester.Run(ctx, series, params, engine.LifecycleCallbacks{OnTrade: &onTrade})
	if err != nil {
		return err
	}

	fmt.Println(report.Backtest(result))

	if output := cmd.String("output"); output != "" {
		if err := types.WriteResults(output, result); err != nil {
			return err
		}

		fmt.Printf("Result written to %s\n", output)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay stored bars through the trading rule with one position",
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
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Backtest engine config YAML (initial balance, broker, time window)",
			},
			&cli.StringFlag{
				Name:    "params",
				Aliases: []string{"p"},
				Usage:   "Strategy parameters YAML, defaults are used when omitted",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the full result as YAML to this path",
			},
			&cli.StringFlag{
				Name:  "trades",
				Usage: "Write the trade log as parquet to this path",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every closed trade",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
