package indicator

import (
	"github.com/moznion/go-optional"
)

// EMA returns the exponential moving average of values with alpha = 2/(span+1).
// The average is seeded with the first value and reported once span values
// have been folded in, so the first span-1 entries are None.
func EMA(values []float64, span int) []optional.Option[float64] {
	wrapped := make([]optional.Option[float64], len(values))
	for i, v := range values {
		wrapped[i] = optional.Some(v)
	}

	return emaOf(wrapped, span)
}

// emaOf runs the EMA over the contiguous defined suffix of values.
// Leading None entries stay None; the seed is the first defined value.
func emaOf(values []optional.Option[float64], span int) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	alpha := 2.0 / float64(span+1)

	var ema float64

	folded := 0

	for i, v := range values {
		if v.IsNone() {
			// a gap after the seed restarts the average
			folded = 0
			out[i] = optional.None[float64]()

			continue
		}

		if folded == 0 {
			ema = v.Unwrap()
		} else {
			ema += alpha * (v.Unwrap() - ema)
		}

		folded++

		if span > 0 && folded >= span {
			out[i] = optional.Some(ema)
		} else {
			out[i] = optional.None[float64]()
		}
	}

	return out
}
