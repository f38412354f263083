package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Bands holds the three Bollinger series, aligned with the input.
type Bands struct {
	Middle []optional.Option[float64]
	Upper  []optional.Option[float64]
	Lower  []optional.Option[float64]
}

// RollingStd returns the trailing sample standard deviation (n-1 denominator).
// A window of identical values yields exactly 0.
func RollingStd(values []float64, window int) []optional.Option[float64] {
	return rolling(values, window, sampleStd)
}

// BollingerBands computes middle = SMA(period) and upper/lower = middle ± multiplier*std.
func BollingerBands(closes []float64, period int, multiplier float64) Bands {
	middle := SMA(closes, period)
	std := RollingStd(closes, period)

	bands := Bands{
		Middle: middle,
		Upper:  make([]optional.Option[float64], len(closes)),
		Lower:  make([]optional.Option[float64], len(closes)),
	}

	for i := range closes {
		if middle[i].IsNone() || std[i].IsNone() {
			bands.Upper[i] = optional.None[float64]()
			bands.Lower[i] = optional.None[float64]()

			continue
		}

		m, s := middle[i].Unwrap(), std[i].Unwrap()
		if s == 0 {
			bands.Upper[i] = optional.Some(m)
			bands.Lower[i] = optional.Some(m)

			continue
		}

		bands.Upper[i] = optional.Some(m + multiplier*s)
		bands.Lower[i] = optional.Some(m - multiplier*s)
	}

	return bands
}

func sampleStd(window []float64) float64 {
	if len(window) < 2 || allEqual(window) {
		return 0
	}

	m := mean(window)

	sumSquares := 0.0
	for _, v := range window {
		diff := v - m
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(window)-1))
}
