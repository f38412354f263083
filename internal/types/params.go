package types

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// MACDSignalSpan is the fixed span of the MACD signal line.
const MACDSignalSpan = 9

// StrategyParams is the immutable parameter bundle shared by the indicator engine,
// the signal generator, the backtest simulator and the live loop.
// It is passed by value; nothing holds a mutable global copy.
type StrategyParams struct {
	BBPeriod      int     `yaml:"bb_period" json:"bb_period" validate:"gte=2" jsonschema:"title=Bollinger Period,description=Rolling window of the Bollinger middle band,minimum=2,default=20"`
	BBStdDev      float64 `yaml:"bb_std_dev" json:"bb_std_dev" validate:"gt=0" jsonschema:"title=Bollinger Std Multiplier,description=Standard deviations between the middle and outer bands,default=2"`
	RSIPeriod     int     `yaml:"rsi_period" json:"rsi_period" validate:"gte=2" jsonschema:"title=RSI Period,minimum=2,default=14"`
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold" validate:"gte=0,lte=100,ltfield=RSIOverbought" jsonschema:"title=RSI Oversold,minimum=0,maximum=100,default=30"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought" validate:"gte=0,lte=100" jsonschema:"title=RSI Overbought,minimum=0,maximum=100,default=70"`
	EMAFast       int     `yaml:"ema_fast" json:"ema_fast" validate:"gte=1,ltfield=EMASlow" jsonschema:"title=Fast EMA Span,minimum=1,default=9"`
	EMASlow       int     `yaml:"ema_slow" json:"ema_slow" validate:"gte=1" jsonschema:"title=Slow EMA Span,minimum=1,default=21"`
	SMALong       int     `yaml:"sma_long" json:"sma_long" validate:"gte=1" jsonschema:"title=Long SMA Window,minimum=1,default=200"`
}

// DefaultStrategyParams returns the parameters the bot ships with.
func DefaultStrategyParams() StrategyParams {
	return StrategyParams{
		BBPeriod:      20,
		BBStdDev:      2.0,
		RSIPeriod:     14,
		RSIOversold:   30,
		RSIOverbought: 70,
		EMAFast:       9,
		EMASlow:       21,
		SMALong:       200,
	}
}

var paramsValidator = validator.New()

// Validate rejects parameter bundles that must never reach a computation.
// All violations are reported, joined; each carries the code of its category.
func (p StrategyParams) Validate() error {
	err := paramsValidator.Struct(p)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid strategy params", err)
	}

	errs := make([]error, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		errs = append(errs, errors.New(codeForField(fieldErr.Field()), describeFieldError(p, fieldErr)))
	}

	return errors.Join(errs...)
}

// ParseStrategyParams decodes a YAML parameter block over DefaultStrategyParams and validates it.
func ParseStrategyParams(data []byte) (StrategyParams, error) {
	params := DefaultStrategyParams()
	if err := yaml.Unmarshal(data, &params); err != nil {
		return StrategyParams{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse strategy params", err)
	}

	if err := params.Validate(); err != nil {
		return StrategyParams{}, err
	}

	return params, nil
}

// LoadStrategyParams reads a YAML parameter file.
func LoadStrategyParams(path string) (StrategyParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StrategyParams{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read strategy params %s", path)
	}

	return ParseStrategyParams(data)
}

// WarmUp is the number of leading bars for which at least one indicator is undefined.
func (p StrategyParams) WarmUp() int {
	return max(
		p.BBPeriod-1,
		p.RSIPeriod,
		p.EMASlow-1+MACDSignalSpan-1,
		p.EMAFast-1+MACDSignalSpan-1,
		p.SMALong-1,
	)
}

// RequiredBars is the minimum series length that yields at least one indicator frame.
func (p StrategyParams) RequiredBars() int {
	return p.WarmUp() + 1
}

func codeForField(field string) errors.ErrorCode {
	switch field {
	case "BBPeriod", "RSIPeriod", "SMALong":
		return errors.ErrCodeInvalidPeriod
	case "BBStdDev":
		return errors.ErrCodeInvalidStdMultiplier
	case "RSIOversold", "RSIOverbought":
		return errors.ErrCodeInvalidThreshold
	case "EMAFast", "EMASlow":
		return errors.ErrCodeInvalidEMASpans
	default:
		return errors.ErrCodeInvalidParameter
	}
}

func describeFieldError(p StrategyParams, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "ltfield":
		switch fieldErr.Field() {
		case "EMAFast":
			return fmt.Sprintf("fast EMA span %d must be below slow EMA span %d", p.EMAFast, p.EMASlow)
		case "RSIOversold":
			return fmt.Sprintf("RSI oversold threshold %v must be below overbought threshold %v", p.RSIOversold, p.RSIOverbought)
		}
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fieldErr.Field(), fieldErr.Param(), fieldErr.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fieldErr.Field(), fieldErr.Param(), fieldErr.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", fieldErr.Field(), fieldErr.Param(), fieldErr.Value())
	}

	return fmt.Sprintf("%s failed %q validation", fieldErr.Field(), fieldErr.Tag())
}
