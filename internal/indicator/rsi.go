package indicator

import (
	"github.com/moznion/go-optional"
)

// RSI computes the Relative Strength Index using Wilder's smoothing
// (alpha = 1/period). The first average is the mean of the first period deltas,
// so the first defined value is at index period.
// When the average loss is 0 the RSI is reported as 100.
func RSI(closes []float64, period int) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(closes))
	for i := range out {
		out[i] = optional.None[float64]()
	}

	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64

	// First average
	for i := 1; i <= period; i++ {
		gain, loss := splitDelta(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = optional.Some(relativeStrength(avgGain, avgLoss))

	// Subsequent averages using Wilder's smoothing method
	for i := period + 1; i < len(closes); i++ {
		gain, loss := splitDelta(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = optional.Some(relativeStrength(avgGain, avgLoss))
	}

	return out
}

func splitDelta(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}

	return 0, -delta
}

func relativeStrength(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	return 100 - 100/(1+avgGain/avgLoss)
}
