package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// DataGenerator produces synthetic candles for tests and benchmarks.
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

// GeneratorConfig configures how candles are generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "BTCUSDT")
	Symbol string
	// StartTime is the time of the first candle
	StartTime time.Time
	// Interval is the duration between candles
	Interval time.Duration
	// Count is the number of candles to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per candle (0.01 = 1%)
	Volatility float64
	// Trend is the total drift spread over the series (-0.1 bearish to 0.1 bullish)
	Trend float64
	// VolumeBase is the average volume per candle
	VolumeBase float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "BTCUSDT",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Hour,
		Count:        500,
		InitialPrice: 40000,
		Volatility:   0.01,
		Trend:        0,
		VolumeBase:   250,
	}
}

// Generate creates chronological candles following a geometric random walk.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	price := config.InitialPrice
	ts := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := price

		// Box-Muller
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := 0.0
		if config.Count > 0 {
			drift = config.Trend / float64(config.Count)
		}

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) * (1 + g.rng.Float64()*config.Volatility*0.5)
		low := math.Min(open, closePrice) * (1 - g.rng.Float64()*config.Volatility*0.5)

		data[i] = types.MarketData{
			Symbol: config.Symbol,
			Time:   ts,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(config.VolumeBase*(0.5+g.rng.Float64()), 2),
		}

		price = closePrice
		ts = ts.Add(config.Interval)
	}

	return data
}

// CandlesFromCloses builds one candle per close price, spaced by interval.
// Open is the previous close, so the candles chain without gaps.
func CandlesFromCloses(symbol string, start time.Time, interval time.Duration, closes []float64) []types.MarketData {
	data := make([]types.MarketData, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		data[i] = types.MarketData{
			Symbol: symbol,
			Time:   start.Add(time.Duration(i) * interval),
			Open:   open,
			High:   math.Max(open, c),
			Low:    math.Min(open, c),
			Close:  c,
			Volume: 1,
		}
	}

	return data
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
