package shootout

import (
	"penaltysim/domain/fixture"
	"penaltysim/ports"
)

// DefaultRounds is the number of regulation kicks per side
const DefaultRounds = 4

// Outcome describes one played shootout
type Outcome struct {
	HomeGoals         int
	AwayGoals         int
	SuddenDeathRounds int
	Result            fixture.Result
}

// Resolver settles drawn matches with a simulated penalty shootout.
// A Resolver is not safe for concurrent use: give each goroutine its own,
// built on its own Kicker.
type Resolver struct {
	kicker ports.Kicker
	rounds int
}

// NewResolver creates a resolver with the default number of rounds
func NewResolver(kicker ports.Kicker) *Resolver {
	return &Resolver{kicker: kicker, rounds: DefaultRounds}
}

// NewResolverWithRounds creates a resolver with a custom number of regulation rounds
func NewResolverWithRounds(kicker ports.Kicker, rounds int) *Resolver {
	if rounds < 0 {
		rounds = 0
	}
	return &Resolver{kicker: kicker, rounds: rounds}
}

// Resolve returns non-draw results unchanged and settles draws on penalties.
// The returned code is never fixture.Draw for a draw input.
func (r *Resolver) Resolve(result fixture.Result) fixture.Result {
	if !result.IsDraw() {
		return result
	}
	return r.Shootout().Result
}

// ResolveFixture returns a copy of f with its result resolved
func (r *Resolver) ResolveFixture(f fixture.Fixture) fixture.Fixture {
	return f.WithResult(r.Resolve(f.Result))
}

// ResolveAll resolves every result into a new slice
func (r *Resolver) ResolveAll(results []fixture.Result) []fixture.Result {
	out := make([]fixture.Result, len(results))
	for i, res := range results {
		out[i] = r.Resolve(res)
	}
	return out
}

// Shootout plays a full shootout. Each round the home side kicks first.
// Sudden death has no round limit: it ends almost surely with a fair kicker.
func (r *Resolver) Shootout() Outcome {
	var out Outcome
	for i := 0; i < r.rounds; i++ {
		out.HomeGoals += r.kick()
		out.AwayGoals += r.kick()
	}

	for out.HomeGoals == out.AwayGoals {
		out.SuddenDeathRounds++
		out.HomeGoals += r.kick()
		out.AwayGoals += r.kick()
	}

	if out.HomeGoals > out.AwayGoals {
		out.Result = fixture.DrawHomeWinsShootout
	} else {
		out.Result = fixture.DrawAwayWinsShootout
	}
	return out
}

func (r *Resolver) kick() int {
	if r.kicker.Kick() {
		return 1
	}
	return 0
}
