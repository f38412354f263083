package types

import (
	"math"
	"time"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// Bar is one OHLCV sample for a fixed time interval.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Validate checks that every numeric field is finite, prices are strictly
// positive and volume is non-negative.
func (b Bar) Validate() error {
	prices := []struct {
		name  string
		value float64
	}{
		{"open", b.Open},
		{"high", b.High},
		{"low", b.Low},
		{"close", b.Close},
	}

	for _, p := range prices {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidBar, "bar at %s has invalid %s price %v", b.Time.Format(time.RFC3339), p.name, p.value)
		}
	}

	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar at %s has invalid volume %v", b.Time.Format(time.RFC3339), b.Volume)
	}

	return nil
}

// BarSeries is an ordered sequence of bars, ascending by time with no duplicates.
// Components never mutate a series they receive.
type BarSeries []Bar

// Validate checks every bar and the strict ascending ordering of timestamps.
func (s BarSeries) Validate() error {
	for i, bar := range s {
		if err := bar.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidSeries, err, "invalid bar at index %d", i)
		}

		if i > 0 && !bar.Time.After(s[i-1].Time) {
			if bar.Time.Equal(s[i-1].Time) {
				return errors.Newf(errors.ErrCodeInvalidSeries, "duplicate timestamp %s at index %d", bar.Time.Format(time.RFC3339), i)
			}

			return errors.Newf(errors.ErrCodeInvalidSeries, "timestamps are not ascending at index %d: %s before %s",
				i, bar.Time.Format(time.RFC3339), s[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes returns the close prices in series order.
func (s BarSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// Last returns the newest bar. ok is false for an empty series.
func (s BarSeries) Last() (bar Bar, ok bool) {
	if len(s) == 0 {
		return Bar{}, false
	}

	return s[len(s)-1], true
}
