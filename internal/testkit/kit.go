package testkit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/ports"
)

// ScriptedKicker replays a fixed sequence of kicks. It panics once the
// script runs out so a test never silently loops.
type ScriptedKicker struct {
	mu    sync.Mutex
	kicks []bool
	pos   int
}

// NewScriptedKicker creates a kicker from a raw kick sequence
func NewScriptedKicker(kicks ...bool) *ScriptedKicker {
	return &ScriptedKicker{kicks: kicks}
}

// Kick implements ports.Kicker
func (k *ScriptedKicker) Kick() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.pos >= len(k.kicks) {
		panic(fmt.Sprintf("scripted kicker exhausted after %d kicks", len(k.kicks)))
	}
	kick := k.kicks[k.pos]
	k.pos++
	return kick
}

// Used returns how many kicks have been taken
func (k *ScriptedKicker) Used() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pos
}

// Interleave turns per-side kick lists (1 scored, 0 missed) into the
// home-first order a shootout consumes them in
func Interleave(home, away []int) []bool {
	n := len(home)
	if len(away) > n {
		n = len(away)
	}
	out := make([]bool, 0, len(home)+len(away))
	for i := 0; i < n; i++ {
		if i < len(home) {
			out = append(out, home[i] == 1)
		}
		if i < len(away) {
			out = append(out, away[i] == 1)
		}
	}
	return out
}

// HomeWinsScript is a regulation shootout the home side wins 4-0
func HomeWinsScript() []bool {
	return Interleave([]int{1, 1, 1, 1}, []int{0, 0, 0, 0})
}

// AwayWinsScript is a regulation shootout the away side wins 4-0
func AwayWinsScript() []bool {
	return Interleave([]int{0, 0, 0, 0}, []int{1, 1, 1, 1})
}

// ScriptedKickerSource hands out a fresh ScriptedKicker per iteration
type ScriptedKickerSource struct {
	Scripts func(iteration int) []bool
}

// Kicker implements ports.KickerSource
func (s *ScriptedKickerSource) Kicker(ctx context.Context, season string, iteration int) (ports.Kicker, error) {
	return NewScriptedKicker(s.Scripts(iteration)...), nil
}

// FailingKickerSource fails for one iteration and delegates otherwise
type FailingKickerSource struct {
	FailAt   int
	Delegate ports.KickerSource
}

// Kicker implements ports.KickerSource
func (s *FailingKickerSource) Kicker(ctx context.Context, season string, iteration int) (ports.Kicker, error) {
	if iteration == s.FailAt {
		return nil, fmt.Errorf("kicker unavailable for iteration %d", iteration)
	}
	return s.Delegate.Kicker(ctx, season, iteration)
}

// RoundRobin builds a double round robin over teams, asking result for
// each (home, away) pairing
func RoundRobin(teams []string, result func(home, away string) fixture.Result) []fixture.Fixture {
	var out []fixture.Fixture
	for _, home := range teams {
		for _, away := range teams {
			if home == away {
				continue
			}
			out = append(out, fixture.Fixture{
				HomeTeam: core.TeamID(home),
				AwayTeam: core.TeamID(away),
				Result:   result(home, away),
			})
		}
	}
	return out
}

// AllDraws is a RoundRobin result function drawing every match
func AllDraws(home, away string) fixture.Result { return fixture.Draw }

// StrengthOrder returns a RoundRobin result function where the team listed
// earlier in order always beats the later one
func StrengthOrder(order []string) func(home, away string) fixture.Result {
	pos := make(map[string]int, len(order))
	for i, t := range order {
		pos[t] = i
	}
	return func(home, away string) fixture.Result {
		if pos[home] < pos[away] {
			return fixture.HomeWin
		}
		return fixture.AwayWin
	}
}

// TeamNames generates n team names "T01".."Tnn"
func TeamNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("T%02d", i+1)
	}
	return out
}

// MustSeason builds a season or panics
func MustSeason(name string, fixtures []fixture.Fixture) *fixture.Season {
	s, err := fixture.NewSeason(name, fixtures)
	if err != nil {
		panic(err)
	}
	return s
}

// SingleFixtureSeason is a one-match season
func SingleFixtureSeason(home, away string, result fixture.Result) *fixture.Season {
	return MustSeason("single", []fixture.Fixture{{
		HomeTeam: core.TeamID(home),
		AwayTeam: core.TeamID(away),
		Result:   result,
	}})
}

// SeasonReader serves seasons from memory
type SeasonReader map[string]*fixture.Season

// ReadSeason implements ports.FixtureReader
func (r SeasonReader) ReadSeason(ctx context.Context, season string) (*fixture.Season, error) {
	s, ok := r[season]
	if !ok {
		return nil, fmt.Errorf("season %s: %w", season, ErrNoSuchSeason)
	}
	return s, nil
}

// ErrNoSuchSeason is returned by SeasonReader for unknown seasons
var ErrNoSuchSeason = errors.New("no such season")
