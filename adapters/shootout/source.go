package shootout

import (
	"context"

	"penaltysim/ports"
)

// Source builds one Resolver per iteration on that iteration's own Kicker
type Source struct {
	kickers ports.KickerSource
	rounds  int
}

// NewSource creates a resolver source with the default number of rounds
func NewSource(kickers ports.KickerSource) *Source {
	return &Source{kickers: kickers, rounds: DefaultRounds}
}

// Resolver implements ports.ResolverSource
func (s *Source) Resolver(ctx context.Context, season string, iteration int) (ports.Resolver, error) {
	kicker, err := s.kickers.Kicker(ctx, season, iteration)
	if err != nil {
		return nil, err
	}
	return NewResolverWithRounds(kicker, s.rounds), nil
}
