// Package indicator derives Bollinger bands, RSI, MACD and the long SMA
// from a bar series. Every primitive returns one optional value per input
// element; the Engine keeps only the rows where all of them are defined.
package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/samber/lo"

	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// Engine turns a bar series into indicator frames.
type Engine interface {
	// Compute returns one frame per bar past the warm-up, in series order.
	// The input series is never modified.
	Compute(series types.BarSeries, params types.StrategyParams) ([]types.IndicatorFrame, error)
}

// EngineV1 is the default Engine. It is stateless and safe for concurrent use.
type EngineV1 struct{}

// NewEngine creates the default indicator engine.
func NewEngine() Engine {
	return &EngineV1{}
}

// Compute implements Engine.
func (e *EngineV1) Compute(series types.BarSeries, params types.StrategyParams) ([]types.IndicatorFrame, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	required := params.RequiredBars()
	if len(series) < required {
		symbol := ""
		if last, ok := series.Last(); ok {
			symbol = last.Symbol
		}

		return nil, errors.NewInsufficientDataErrorf(required, len(series), symbol,
			"need at least %d bars to cover the indicator warm-up, got %d", required, len(series))
	}

	closes := series.Closes()
	bands := BollingerBands(closes, params.BBPeriod, params.BBStdDev)
	rsi := RSI(closes, params.RSIPeriod)
	macd := MACD(closes, params.EMAFast, params.EMASlow, types.MACDSignalSpan)
	smaLong := SMA(closes, params.SMALong)

	frames := make([]types.IndicatorFrame, 0, len(series)-params.WarmUp())

	for i, bar := range series {
		values := []optional.Option[float64]{
			bands.Middle[i], bands.Upper[i], bands.Lower[i],
			rsi[i],
			macd.EMAFast[i], macd.EMASlow[i], macd.MACD[i], macd.Signal[i],
			smaLong[i],
		}
		defined := lo.EveryBy(values, func(v optional.Option[float64]) bool { return v.IsSome() })
		if !defined {
			continue
		}

		frames = append(frames, types.IndicatorFrame{
			Bar:        bar,
			Middle:     bands.Middle[i].Unwrap(),
			Upper:      bands.Upper[i].Unwrap(),
			Lower:      bands.Lower[i].Unwrap(),
			RSI:        rsi[i].Unwrap(),
			EMAFast:    macd.EMAFast[i].Unwrap(),
			EMASlow:    macd.EMASlow[i].Unwrap(),
			MACD:       macd.MACD[i].Unwrap(),
			MACDSignal: macd.Signal[i].Unwrap(),
			SMALong:    smaLong[i].Unwrap(),
		})
	}

	if len(frames) == 0 {
		return nil, errors.Newf(errors.ErrCodeIndicatorCalculation, "no fully defined indicator rows in %d bars", len(series))
	}

	return frames, nil
}
