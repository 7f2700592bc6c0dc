package mocks

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-alpha/internal/types"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Days = 100

	table := gen.Generate(config)

	if table.Len() != 100 {
		t.Errorf("expected 100 rows, got %d", table.Len())
	}

	if err := table.Validate(); err != nil {
		t.Errorf("generated table is malformed: %v", err)
	}

	if table.Symbol != config.Symbol {
		t.Errorf("expected symbol %s, got %s", config.Symbol, table.Symbol)
	}

	// Verify consecutive calendar days
	for i := 1; i < table.Len(); i++ {
		if table.Dates[i].Sub(table.Dates[i-1]) != 24*time.Hour {
			t.Errorf("unexpected gap at index %d", i)
		}
	}

	opens := table.Fields[types.FieldOpen]
	highs := table.Fields[types.FieldHigh]
	lows := table.Fields[types.FieldLow]
	closes := table.Fields[types.FieldClose]

	for i := range closes {
		if opens[i] <= 0 || highs[i] <= 0 || lows[i] <= 0 || closes[i] <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, opens[i], highs[i], lows[i], closes[i])
		}

		if highs[i] < lows[i] {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, highs[i], lows[i])
		}
	}
}

func TestDataGenerator_PriceField(t *testing.T) {
	config := DefaultConfig()
	config.Days = 5
	config.PriceField = types.FieldAdjClose
	config.VolumeField = types.FieldAdjVolume

	table := NewDataGenerator(1).Generate(config)

	if _, ok := table.Fields[types.FieldClose]; ok {
		t.Errorf("expected no Close field when PriceField is Adj. Close")
	}

	if _, ok := table.Fields[types.FieldAdjClose]; !ok {
		t.Errorf("expected Adj. Close field")
	}

	if _, ok := table.Fields[types.FieldAdjVolume]; !ok {
		t.Errorf("expected Adj. Volume field")
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Days = 50

	a := NewDataGenerator(7).Generate(config)
	b := NewDataGenerator(7).Generate(config)

	for i := range a.Fields[types.FieldClose] {
		if a.Fields[types.FieldClose][i] != b.Fields[types.FieldClose][i] {
			t.Fatalf("same seed produced different closes at index %d", i)
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	config := DefaultConfig()
	config.Days = 50

	a := NewDataGenerator(1).Generate(config)
	b := NewDataGenerator(2).Generate(config)

	same := true

	for i := range a.Fields[types.FieldClose] {
		if a.Fields[types.FieldClose][i] != b.Fields[types.FieldClose][i] {
			same = false

			break
		}
	}

	if same {
		t.Errorf("different seeds produced identical series")
	}
}

func TestGenerateUniverse(t *testing.T) {
	symbols := []string{"AAPL", "MSFT", "GOOG"}
	config := DefaultConfig()
	config.Days = 20

	tables := NewDataGenerator(42).GenerateUniverse(symbols, config)

	if len(tables) != len(symbols) {
		t.Fatalf("expected %d tables, got %d", len(symbols), len(tables))
	}

	for _, symbol := range symbols {
		table, ok := tables[symbol]
		if !ok {
			t.Fatalf("missing table for %s", symbol)
		}

		if table.Symbol != symbol || table.Len() != 20 {
			t.Errorf("unexpected table for %s: symbol=%s len=%d", symbol, table.Symbol, table.Len())
		}
	}
}

func TestGenerateRate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := NewDataGenerator(42).GenerateRate("USDOLLAR", start, 30, 5.0)

	if table.Len() != 30 {
		t.Fatalf("expected 30 rows, got %d", table.Len())
	}

	for i, v := range table.Fields[types.FieldValue] {
		if v < 4.9 || v > 5.1 {
			t.Errorf("rate out of band at index %d: %f", i, v)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Days != 250 {
		t.Errorf("expected 250 days, got %d", config.Days)
	}

	if config.PriceField != types.FieldClose {
		t.Errorf("expected Close price field, got %s", config.PriceField)
	}

	if config.InitialPrice <= 0 {
		t.Errorf("expected positive initial price")
	}
}
