package provider

import (
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// Interval is a bar interval in Binance notation, e.g. 1m, 4h, 1d.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalThreeMinutes   Interval = "3m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalOneHour        Interval = "1h"
	IntervalTwoHours       Interval = "2h"
	IntervalFourHours      Interval = "4h"
	IntervalSixHours       Interval = "6h"
	IntervalEightHours     Interval = "8h"
	IntervalTwelveHours    Interval = "12h"
	IntervalOneDay         Interval = "1d"
)

var intervalDurations = map[Interval]time.Duration{
	IntervalOneMinute:      time.Minute,
	IntervalThreeMinutes:   3 * time.Minute,
	IntervalFiveMinutes:    5 * time.Minute,
	IntervalFifteenMinutes: 15 * time.Minute,
	IntervalThirtyMinutes:  30 * time.Minute,
	IntervalOneHour:        time.Hour,
	IntervalTwoHours:       2 * time.Hour,
	IntervalFourHours:      4 * time.Hour,
	IntervalSixHours:       6 * time.Hour,
	IntervalEightHours:     8 * time.Hour,
	IntervalTwelveHours:    12 * time.Hour,
	IntervalOneDay:         24 * time.Hour,
}

// ParseInterval accepts the intervals both providers can serve.
func ParseInterval(value string) (Interval, error) {
	interval := Interval(value)
	if _, ok := intervalDurations[interval]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval %q", value)
	}

	return interval, nil
}

// Duration is the length of one bar.
func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

// Multiplier is the polygon aggregate multiplier for the interval.
func (i Interval) Multiplier() int {
	d := i.Duration()

	switch i.Timespan() {
	case models.Day:
		return int(d / (24 * time.Hour))
	case models.Hour:
		return int(d / time.Hour)
	default:
		return int(d / time.Minute)
	}
}

// Timespan is the polygon aggregate unit for the interval.
func (i Interval) Timespan() models.Timespan {
	d := i.Duration()

	switch {
	case d >= 24*time.Hour:
		return models.Day
	case d >= time.Hour:
		return models.Hour
	default:
		return models.Minute
	}
}
