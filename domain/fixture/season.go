package fixture

import (
	"fmt"

	"penaltysim/domain/core"
)

// Season is an immutable fixture list together with its team universe.
// The universe is the set of unique home teams in order of first appearance,
// followed by any team that only ever appears away.
type Season struct {
	name     string
	fixtures []Fixture
	teams    []core.TeamID
	index    map[core.TeamID]int
}

// NewSeason validates and copies fixtures into a Season
func NewSeason(name string, fixtures []Fixture) (*Season, error) {
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("season %s: %w", name, core.ErrEmptyFixtures)
	}

	s := &Season{
		name:     name,
		fixtures: make([]Fixture, len(fixtures)),
		index:    make(map[core.TeamID]int),
	}
	copy(s.fixtures, fixtures)

	for i, f := range s.fixtures {
		if f.HomeTeam == "" || f.AwayTeam == "" {
			return nil, core.NewValidationError(fmt.Sprintf("fixture %d", i), "home and away team are required")
		}
		switch f.Result {
		case HomeWin, AwayWin, Draw:
		default:
			return nil, fmt.Errorf("season %s fixture %d: %w: %q", name, i, core.ErrInvalidResult, f.Result)
		}
		if _, seen := s.index[f.HomeTeam]; !seen {
			s.index[f.HomeTeam] = len(s.teams)
			s.teams = append(s.teams, f.HomeTeam)
		}
	}
	for _, f := range s.fixtures {
		if _, seen := s.index[f.AwayTeam]; !seen {
			s.index[f.AwayTeam] = len(s.teams)
			s.teams = append(s.teams, f.AwayTeam)
		}
	}

	return s, nil
}

// Name returns the season label, e.g. "2022"
func (s *Season) Name() string { return s.name }

// Len returns the number of fixtures
func (s *Season) Len() int { return len(s.fixtures) }

// Fixture returns the i-th fixture by value
func (s *Season) Fixture(i int) Fixture { return s.fixtures[i] }

// Fixtures returns a copy of the fixture list
func (s *Season) Fixtures() []Fixture {
	out := make([]Fixture, len(s.fixtures))
	copy(out, s.fixtures)
	return out
}

// Teams returns a copy of the team universe
func (s *Season) Teams() []core.TeamID {
	out := make([]core.TeamID, len(s.teams))
	copy(out, s.teams)
	return out
}

// HasTeam reports whether team is part of the universe
func (s *Season) HasTeam(team core.TeamID) bool {
	_, ok := s.index[team]
	return ok
}

// Results returns a fresh copy of the recorded full-time result codes.
// Callers may mutate the returned slice freely.
func (s *Season) Results() []Result {
	out := make([]Result, len(s.fixtures))
	for i, f := range s.fixtures {
		out[i] = f.Result
	}
	return out
}

// Fingerprint identifies the season's contents: name, pairings and
// recorded results, in fixture order
func (s *Season) Fingerprint() core.Hash {
	parts := make([]string, 0, 1+len(s.fixtures))
	parts = append(parts, s.name)
	for _, f := range s.fixtures {
		parts = append(parts, fmt.Sprintf("%s|%s|%s", f.HomeTeam, f.AwayTeam, f.Result))
	}
	return core.ComputeHash(parts...)
}

// DrawsPerTeam counts the draws each team played, home and away
func (s *Season) DrawsPerTeam() map[core.TeamID]int {
	counts := make(map[core.TeamID]int, len(s.teams))
	for _, team := range s.teams {
		counts[team] = 0
	}
	for _, f := range s.fixtures {
		if !f.Result.IsDraw() {
			continue
		}
		counts[f.HomeTeam]++
		counts[f.AwayTeam]++
	}
	return counts
}
