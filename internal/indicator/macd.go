package indicator

import (
	"github.com/moznion/go-optional"
)

// MACDSeries holds the MACD components, aligned with the input.
type MACDSeries struct {
	EMAFast []optional.Option[float64]
	EMASlow []optional.Option[float64]
	MACD    []optional.Option[float64]
	Signal  []optional.Option[float64]
}

// MACD computes emaFast - emaSlow and its signal line EMA(macd, signalSpan).
func MACD(closes []float64, fast, slow, signalSpan int) MACDSeries {
	series := MACDSeries{
		EMAFast: EMA(closes, fast),
		EMASlow: EMA(closes, slow),
		MACD:    make([]optional.Option[float64], len(closes)),
	}

	for i := range closes {
		if series.EMAFast[i].IsNone() || series.EMASlow[i].IsNone() {
			series.MACD[i] = optional.None[float64]()

			continue
		}

		series.MACD[i] = optional.Some(series.EMAFast[i].Unwrap() - series.EMASlow[i].Unwrap())
	}

	series.Signal = emaOf(series.MACD, signalSpan)

	return series
}
