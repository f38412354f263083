package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata/provider"
)

// configFromFlags builds the download job from --config, or from the individual flags when it is absent.
func configFromFlags(cmd *cli.Command) (*marketdata.DownloadConfig, error) {
	if path := cmd.String("config"); path != "" {
		return marketdata.LoadDownloadConfig(path)
	}

	config := &marketdata.DownloadConfig{
		Provider:  provider.ProviderType(cmd.String("provider")),
		Ticker:    cmd.String("ticker"),
		StartDate: cmd.Timestamp("start").Format(time.RFC3339),
		EndDate:   cmd.Timestamp("end").Format(time.RFC3339),
		Interval:  cmd.String("interval"),
		ApiKey:    cmd.String("polygon-api-key"),
		DataPath:  cmd.String("data"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func newProgressBar() provider.OnDownloadProgress {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionClearOnFinish(),
	)

	return func(current float64, total float64, message string) {
		if total > 0 {
			bar.ChangeMax64(int64(total))
		}

		bar.Describe(message)
		_ = bar.Set64(int64(current))
	}
}

// downloadAction fetches the bars and writes them as parquet.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	zapLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	config, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	params, err := config.ToDownloadParams()
	if err != nil {
		return err
	}

	client, err := marketdata.NewClient(config.ToClientConfig(), newProgressBar(), zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	zapLogger.Info("Starting download",
		zap.String("ticker", params.Ticker),
		zap.String("provider", string(config.Provider)),
		zap.String("interval", string(params.Interval)),
		zap.Time("start", params.StartDate),
		zap.Time("end", params.EndDate),
	)

	path, err := client.Download(ctx, params)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Println(path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical bars and store them as parquet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a download config YAML; other flags are ignored when set",
			},
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Ticker symbol, e.g. BTCUSDT for binance or X:BTCUSD for polygon",
				Value:   "BTCUSDT",
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Value:   time.Now().AddDate(0, -1, 0),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to now.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 5m, 15m, 1h, 4h, 1d, ...)",
				Value:   "1h",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "polygon-api-key",
				Usage:   "Polygon.io API key, required for the polygon provider",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
