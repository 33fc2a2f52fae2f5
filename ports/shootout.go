package ports

import (
	"context"

	"penaltysim/domain/fixture"
)

// Kicker takes one penalty kick and reports whether it was scored
type Kicker interface {
	Kick() bool
}

// KickerSource hands out an iteration-local Kicker. Implementations must
// not share mutable random state between iterations.
type KickerSource interface {
	Kicker(ctx context.Context, season string, iteration int) (Kicker, error)
}

// Resolver settles drawn results. Non-draws are returned unchanged.
type Resolver interface {
	Resolve(result fixture.Result) fixture.Result
}

// ResolverSource hands out an iteration-local Resolver
type ResolverSource interface {
	Resolver(ctx context.Context, season string, iteration int) (Resolver, error)
}
