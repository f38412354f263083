package indicator

import (
	"github.com/moznion/go-optional"
)

// SMA returns the trailing simple moving average of values over window.
// The first window-1 entries are None.
func SMA(values []float64, window int) []optional.Option[float64] {
	return rolling(values, window, mean)
}

// rolling applies fn to every trailing window of the given size.
func rolling(values []float64, window int, fn func([]float64) float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	for i := range values {
		if window <= 0 || i < window-1 {
			out[i] = optional.None[float64]()

			continue
		}

		out[i] = optional.Some(fn(values[i-window+1 : i+1]))
	}

	return out
}

func mean(window []float64) float64 {
	if allEqual(window) {
		return window[0]
	}

	sum := 0.0
	for _, v := range window {
		sum += v
	}

	return sum / float64(len(window))
}

// allEqual lets flat windows short-circuit to exact results.
func allEqual(window []float64) bool {
	for _, v := range window[1:] {
		if v != window[0] {
			return false
		}
	}

	return true
}
