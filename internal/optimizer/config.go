package optimizer

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// GridConfig declares the candidate values of the searched parameters.
// Parameters without candidates keep the value of Base.
type GridConfig struct {
	Base          types.StrategyParams `yaml:"base" json:"base" validate:"-" jsonschema:"title=Base Parameters,description=Values of every parameter that is not searched"`
	EMAFast       []int                `yaml:"ema_fast" json:"ema_fast" jsonschema:"title=Fast EMA Candidates"`
	EMASlow       []int                `yaml:"ema_slow" json:"ema_slow" jsonschema:"title=Slow EMA Candidates"`
	RSIOversold   []float64            `yaml:"rsi_oversold" json:"rsi_oversold" jsonschema:"title=RSI Oversold Candidates"`
	RSIOverbought []float64            `yaml:"rsi_overbought" json:"rsi_overbought" jsonschema:"title=RSI Overbought Candidates"`
	// Workers bounds the number of concurrent backtests, 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers" validate:"gte=0" jsonschema:"title=Workers,minimum=0,default=0"`
}

// DefaultGridConfig returns the grid the bot has always searched.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Base:          types.DefaultStrategyParams(),
		EMAFast:       []int{10, 20, 50},
		EMASlow:       []int{50, 100, 200},
		RSIOversold:   []float64{30},
		RSIOverbought: []float64{70, 75, 80},
		Workers:       0,
	}
}

// ParseGridConfig decodes YAML over DefaultGridConfig.
func ParseGridConfig(data []byte) (GridConfig, error) {
	config := DefaultGridConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return GridConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse grid config", err)
	}

	if err := config.Validate(); err != nil {
		return GridConfig{}, err
	}

	return config, nil
}

// LoadGridConfig reads and decodes a YAML grid file.
func LoadGridConfig(path string) (GridConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GridConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read grid config %s", path)
	}

	return ParseGridConfig(data)
}

// Validate only checks the grid itself. Base is not validated here because
// searched candidates may replace its invalid values; every combination is
// checked during the search and skipped when invalid.
func (c GridConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid grid config", err)
	}

	return nil
}

// WorkerCount resolves the configured worker count.
func (c GridConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}

	return runtime.NumCPU()
}

// Combinations enumerates the Cartesian product in row-major order:
// fast EMA outermost, then slow EMA, oversold, overbought.
func (c GridConfig) Combinations() []types.StrategyParams {
	return lo.CrossJoinBy4(
		candidates(c.EMAFast, c.Base.EMAFast),
		candidates(c.EMASlow, c.Base.EMASlow),
		candidates(c.RSIOversold, c.Base.RSIOversold),
		candidates(c.RSIOverbought, c.Base.RSIOverbought),
		func(fast int, slow int, oversold float64, overbought float64) types.StrategyParams {
			params := c.Base
			params.EMAFast = fast
			params.EMASlow = slow
			params.RSIOversold = oversold
			params.RSIOverbought = overbought

			return params
		},
	)
}

func candidates[T any](values []T, fallback T) []T {
	if len(values) == 0 {
		return []T{fallback}
	}

	return values
}

// GenerateSchemaJSON returns the JSON schema of the grid file.
func (c *GridConfig) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "grid-config"
	schema.Description = "Candidate values searched by the optimizer"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
