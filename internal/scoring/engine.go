// Package scoring turns fixture results into season standings under a rule set.
package scoring

import (
	"fmt"
	"sort"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	"penaltysim/domain/standings"
)

// Score totals the season's recorded results under ruleSet
func Score(season *fixture.Season, ruleSet rules.RuleSet) (*standings.Table, error) {
	if season == nil {
		return nil, core.ErrEmptyFixtures
	}
	return ScoreResults(season, season.Results(), ruleSet)
}

// ScoreResults totals an explicit result per fixture of season. results[i]
// replaces the recorded result of fixture i; the season is never modified.
// The table is built fresh over the season's universe, so every rule set
// yields a table over the same teams.
func ScoreResults(season *fixture.Season, results []fixture.Result, ruleSet rules.RuleSet) (*standings.Table, error) {
	if season == nil || season.Len() == 0 {
		return nil, core.ErrEmptyFixtures
	}
	if len(results) != season.Len() {
		return nil, core.NewValidationError("results", fmt.Sprintf("have %d results for %d fixtures", len(results), season.Len()))
	}

	table := standings.NewTable(season.Teams())
	for i, result := range results {
		f := season.Fixture(i)
		points, err := ruleSet.Points(result)
		if err != nil {
			return nil, fmt.Errorf("fixture %d (%s vs %s): %w", i, f.HomeTeam, f.AwayTeam, err)
		}
		if err := table.Add(f.HomeTeam, points.Home); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		if err := table.Add(f.AwayTeam, points.Away); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
	}
	return table, nil
}

// Rank orders the table by descending points. Ties take the worst position
// of the tied group: a team's rank is the number of teams scoring at least
// as many points as it did.
func Rank(table *standings.Table) standings.RankTable {
	ranks := make(standings.RankTable, table.Len())
	if table.Len() == 0 {
		return ranks
	}

	points := table.Map()
	desc := make([]int, 0, len(points))
	for _, p := range points {
		desc = append(desc, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	for team, p := range points {
		// first index holding a score below p
		ranks[team] = sort.Search(len(desc), func(i int) bool { return desc[i] < p })
	}
	return ranks
}
