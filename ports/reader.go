package ports

import (
	"context"

	"penaltysim/domain/fixture"
)

// FixtureReader loads one season's fixture list from an external source
type FixtureReader interface {
	ReadSeason(ctx context.Context, season string) (*fixture.Season, error)
}
