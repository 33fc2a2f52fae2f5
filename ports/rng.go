package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random sources for deterministic simulation runs
type RNGPort interface {
	// Stream creates an independent source for one Monte Carlo iteration.
	// Identical (season, iteration, baseSeed) inputs yield identical streams;
	// distinct iterations never share state.
	Stream(ctx context.Context, season string, iteration int, baseSeed uint64) (rand.Source, error)
}
