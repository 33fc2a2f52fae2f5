package standings

import (
	"fmt"

	"penaltysim/domain/core"
)

// Table maps each team of a season universe to its season point total.
// A Table is created fresh per scoring pass and never shared across rule sets.
type Table struct {
	teams  []core.TeamID
	points map[core.TeamID]int
}

// NewTable creates a zeroed table over teams
func NewTable(teams []core.TeamID) *Table {
	t := &Table{
		teams:  make([]core.TeamID, len(teams)),
		points: make(map[core.TeamID]int, len(teams)),
	}
	copy(t.teams, teams)
	for _, team := range teams {
		t.points[team] = 0
	}
	return t
}

// Add credits points to a team of the universe
func (t *Table) Add(team core.TeamID, points int) error {
	if _, ok := t.points[team]; !ok {
		return core.NewUnknownTeamError(team.String())
	}
	t.points[team] += points
	return nil
}

// Points returns a team's total
func (t *Table) Points(team core.TeamID) (int, bool) {
	p, ok := t.points[team]
	return p, ok
}

// Teams returns the universe in insertion order
func (t *Table) Teams() []core.TeamID {
	out := make([]core.TeamID, len(t.teams))
	copy(out, t.teams)
	return out
}

// Len returns the number of teams
func (t *Table) Len() int { return len(t.teams) }

// Map returns a copy of the team totals
func (t *Table) Map() map[core.TeamID]int {
	out := make(map[core.TeamID]int, len(t.points))
	for team, p := range t.points {
		out[team] = p
	}
	return out
}

// Equal reports whether both tables hold identical totals for the same teams
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.points) != len(other.points) {
		return false
	}
	for team, p := range t.points {
		if q, ok := other.points[team]; !ok || q != p {
			return false
		}
	}
	return true
}

// Delta returns test minus base per team, aligned by team identifier
func Delta(test, base *Table) (map[core.TeamID]int, error) {
	if err := sameTeams(test.points, base.points); err != nil {
		return nil, err
	}
	out := make(map[core.TeamID]int, len(test.points))
	for team, p := range test.points {
		out[team] = p - base.points[team]
	}
	return out, nil
}

// RankTable maps a team to its ordinal rank, 1 being best.
// An empty RankTable is the result of ranking an empty universe.
type RankTable map[core.TeamID]int

// Delta returns r minus base per team
func (r RankTable) Delta(base RankTable) (map[core.TeamID]int, error) {
	if err := sameTeams(r, base); err != nil {
		return nil, err
	}
	out := make(map[core.TeamID]int, len(r))
	for team, rank := range r {
		out[team] = rank - base[team]
	}
	return out, nil
}

func sameTeams[V any](a, b map[core.TeamID]V) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d teams", core.ErrTeamMismatch, len(a), len(b))
	}
	for team := range a {
		if _, ok := b[team]; !ok {
			return fmt.Errorf("%w: %s missing", core.ErrTeamMismatch, team)
		}
	}
	return nil
}
