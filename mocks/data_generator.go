package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/coinify-labs/coinify-bot/internal/types"
)

// DataGenerator generates bar series for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "BTCUSDT")
	Symbol string
	// StartTime is the open time of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
}

// DefaultConfig returns hourly bars, which is the live loop's default cadence.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "BTCUSDT",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Hour,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Trend:        0.0,
		VolumeBase:   500,
	}
}

// Generate creates a random-walk series following geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) types.BarSeries {
	closes := make([]float64, config.Count)
	price := config.InitialPrice

	for i := range closes {
		// Box-Muller transform for a normal sample
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		next := price * (1 + config.Volatility*z + config.Trend/float64(config.Count))
		if next <= 0 {
			next = price * 0.99
		}

		closes[i] = roundToDecimals(next, 4)
		price = next
	}

	series := SeriesFromCloses(config, closes)
	for i := range series {
		series[i].Volume = roundToDecimals(config.VolumeBase*(0.5+g.rng.Float64()), 2)
	}

	return series
}

// SeriesFromCloses builds one bar per close. Open is the previous close,
// high and low bracket open and close.
func SeriesFromCloses(config GeneratorConfig, closes []float64) types.BarSeries {
	series := make(types.BarSeries, len(closes))
	barTime := config.StartTime

	for i, closePrice := range closes {
		open := closePrice
		if i > 0 {
			open = closes[i-1]
		}

		series[i] = types.Bar{
			Symbol: config.Symbol,
			Time:   barTime,
			Open:   open,
			High:   math.Max(open, closePrice),
			Low:    math.Min(open, closePrice),
			Close:  closePrice,
			Volume: config.VolumeBase,
		}
		barTime = barTime.Add(config.Interval)
	}

	return series
}

// ConstantCloses returns count copies of price.
func ConstantCloses(count int, price float64) []float64 {
	return StepCloses(price, count, 0)
}

// LinearCloses rises (or falls) linearly from first to last inclusive.
func LinearCloses(count int, first, last float64) []float64 {
	closes := make([]float64, count)
	if count == 1 {
		closes[0] = first

		return closes
	}

	step := (last - first) / float64(count-1)
	for i := range closes {
		closes[i] = first + step*float64(i)
	}

	return closes
}

// StepCloses starts at start and applies the deltas of pattern cyclically,
// so StepCloses(100, 5, 3, -2) is 100, 103, 101, 104, 102.
func StepCloses(start float64, count int, pattern ...float64) []float64 {
	if count <= 0 {
		return nil
	}

	closes := make([]float64, count)
	closes[0] = start

	for i := 1; i < count; i++ {
		closes[i] = closes[i-1] + pattern[(i-1)%len(pattern)]
	}

	return closes
}

// ContinueCloses appends count steps to closes, continuing from its last value.
func ContinueCloses(closes []float64, count int, pattern ...float64) []float64 {
	last := closes[len(closes)-1]
	next := StepCloses(last, count+1, pattern...)

	return append(closes, next[1:]...)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
