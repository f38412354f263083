package main

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	engine "github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1"
	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/coinify-labs/coinify-bot/internal/optimizer"
	tradingengine "github.com/coinify-labs/coinify-bot/internal/trading/engine"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/marketdata"
)

// configFile pairs a JSON schema with a sample YAML config that references it.
type configFile struct {
	name   string
	schema func() (string, error)
	sample any
}

func configFiles() []configFile {
	backtest := engine.DefaultConfig()
	grid := optimizer.DefaultGridConfig()

	live := tradingengine.DefaultLiveTradingEngineConfig()
	live.Mode = types.ModeSimulation

	return []configFile{
		{
			name:   "backtest-engine-v1-config",
			schema: backtest.GenerateSchemaJSON,
			// optional time bounds are left out of the sample
			sample: map[string]any{
				"initial_balance": backtest.InitialBalance,
				"broker":          commission_fee.BrokerZero,
			},
		},
		{
			name:   "grid-config",
			schema: grid.GenerateSchemaJSON,
			sample: grid,
		},
		{
			name:   "live-trading-engine-config",
			schema: tradingengine.GetConfigSchema,
			sample: live,
		},
		{
			name:   "download-config",
			schema: marketdata.GetDownloadConfigSchema,
			sample: marketdata.DownloadConfig{
				Provider:  "binance",
				Ticker:    tradingengine.DefaultSymbol,
				StartDate: "2024-01-01",
				EndDate:   "2024-06-30",
				Interval:  tradingengine.DefaultInterval,
				DataPath:  "data",
			},
		},
	}
}

// generate writes every schema to dir and a sample config next to it unless one already exists.
func generate(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, file := range configFiles() {
		schemaJSON, err := file.schema()
		if err != nil {
			return err
		}

		schemaName := file.name + ".json"
		if err := os.WriteFile(filepath.Join(dir, schemaName), []byte(schemaJSON), 0644); err != nil {
			return err
		}

		samplePath := filepath.Join(dir, file.name+".yaml")
		if _, err := os.Stat(samplePath); !os.IsNotExist(err) {
			continue
		}

		yamlBytes, err := yaml.Marshal(file.sample)
		if err != nil {
			return err
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return err
		}

		log.Printf("Sample config generated at %s", samplePath)
	}

	return nil
}

func main() {
	dir := "./config"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := generate(dir); err != nil {
		log.Fatalf("Failed to generate configs: %v", err)
	}

	log.Printf("Schemas successfully generated in %s", dir)
}
