// Package snapshot persists a refreshed dataset so a model can be reloaded
// without fetching again on the same day.
package snapshot

import (
	"context"
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
)

// FormatVersion is the snapshot layout version written by this package.
const FormatVersion = "1.0.0"

// ConfigEcho records the settings a dataset was built with. A snapshot whose
// echo differs from the current configuration is stale.
type ConfigEcho struct {
	Name           string
	Universe       []string
	RiskFreeSymbol string
	StartDate      time.Time
	EndDate        time.Time
	FactorSet      string
	Provider       string
}

// Equal reports whether both echoes describe the same dataset.
func (c ConfigEcho) Equal(other ConfigEcho) bool {
	return c.Name == other.Name &&
		slices.Equal(c.Universe, other.Universe) &&
		c.RiskFreeSymbol == other.RiskFreeSymbol &&
		c.StartDate.Equal(other.StartDate) &&
		c.EndDate.Equal(other.EndDate) &&
		c.FactorSet == other.FactorSet &&
		c.Provider == other.Provider
}

// State is what a snapshot holds.
type State struct {
	Config    ConfigEcho
	RunID     string
	CreatedAt time.Time
	Dataset   types.RealizedDataset
}

// Store saves and loads the state of one model.
type Store interface {
	// Save writes state, replacing any snapshot of the same key.
	Save(ctx context.Context, state State) error
	// Load returns None when no snapshot exists. Read and decode failures
	// are returned as errors.
	Load(ctx context.Context) (optional.Option[State], error)
}
