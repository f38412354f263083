package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// DefaultInitialBalance is the balance a run starts with when none is configured.
const DefaultInitialBalance = 1000.0

type BacktestEngineV1Config struct {
	InitialBalance float64                    `yaml:"initial_balance" json:"initial_balance" validate:"gt=0" jsonschema:"title=Initial Balance,description=Quote balance before the first trade,exclusiveMinimum=0,default=1000"`
	Broker         commission_fee.Broker      `yaml:"broker" json:"broker" validate:"omitempty,oneof=zero_commission binance_spot" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time of the replayed window"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time of the replayed window"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Missing fields keep the defaults of DefaultConfig.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		InitialBalance *float64              `yaml:"initial_balance"`
		Broker         commission_fee.Broker `yaml:"broker"`
		StartTime      *time.Time            `yaml:"start_time"`
		EndTime        *time.Time            `yaml:"end_time"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	*c = DefaultConfig()

	if config.InitialBalance != nil {
		c.InitialBalance = *config.InitialBalance
	}

	if config.Broker != "" {
		c.Broker = config.Broker
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the configuration before any run uses it.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end_time %s is before start_time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns a commission free configuration over the whole series.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialBalance: DefaultInitialBalance,
		Broker:         commission_fee.BrokerZero,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}

func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialBalance: 10000,
		Broker:         broker,
		StartTime:      optional.Some(startTime),
		EndTime:        optional.Some(endTime),
	}
}
