package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-alpha/internal/types"
)

// DataGenerator generates realistic daily raw tables for testing and benchmarking.
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

// GeneratorConfig configures how a raw table is generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartDate is the first calendar date of the series
	StartDate time.Time
	// Days is the number of consecutive daily rows to generate
	Days int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.1 to 0.1 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per day
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// PriceField is the field the close lands in: Close or Adj. Close
	PriceField string
	// VolumeField is the field the volume lands in: Volume or Adj. Volume
	VolumeField string
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:           250,
		InitialPrice:   100.0,
		Volatility:     0.01, // 1% per day
		Trend:          0.0,  // neutral
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
		PriceField:     types.FieldClose,
		VolumeField:    types.FieldVolume,
	}
}

// Generate creates a raw table based on the configuration.
// The prices follow a geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) types.RawTable {
	table := types.NewRawTable(config.Symbol)
	table.Dates = make([]time.Time, config.Days)

	opens := make([]float64, config.Days)
	highs := make([]float64, config.Days)
	lows := make([]float64, config.Days)
	closes := make([]float64, config.Days)
	volumes := make([]float64, config.Days)

	currentPrice := config.InitialPrice

	for i := 0; i < config.Days; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Days)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		table.Dates[i] = config.StartDate.AddDate(0, 0, i)
		opens[i] = roundToDecimals(open, 4)
		highs[i] = roundToDecimals(high, 4)
		lows[i] = roundToDecimals(low, 4)
		closes[i] = roundToDecimals(close, 4)
		volumes[i] = roundToDecimals(volume, 2)

		currentPrice = close
	}

	priceField := config.PriceField
	if priceField == "" {
		priceField = types.FieldClose
	}

	volumeField := config.VolumeField
	if volumeField == "" {
		volumeField = types.FieldVolume
	}

	table.Fields[types.FieldOpen] = opens
	table.Fields[types.FieldHigh] = highs
	table.Fields[types.FieldLow] = lows
	table.Fields[priceField] = closes
	table.Fields[volumeField] = volumes

	return table
}

// GenerateUniverse generates one table per symbol over the same dates.
func (g *DataGenerator) GenerateUniverse(symbols []string, baseConfig GeneratorConfig) map[string]types.RawTable {
	tables := make(map[string]types.RawTable, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		tables[symbol] = g.Generate(config)
	}

	return tables
}

// GenerateRate generates a rates series in the Value field, quoted in percent.
func (g *DataGenerator) GenerateRate(symbol string, startDate time.Time, days int, level float64) types.RawTable {
	table := types.NewRawTable(symbol)
	table.Dates = make([]time.Time, days)
	values := make([]float64, days)

	for i := 0; i < days; i++ {
		table.Dates[i] = startDate.AddDate(0, 0, i)
		values[i] = roundToDecimals(level+(g.rng.Float64()*2-1)*0.05, 4)
	}

	table.Fields[types.FieldValue] = values

	return table
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
