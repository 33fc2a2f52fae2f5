package scoring

import (
	"math/rand"
	"testing"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	"penaltysim/domain/standings"
	"penaltysim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScore(t *testing.T, season *fixture.Season, set rules.RuleSet) *standings.Table {
	t.Helper()
	table, err := Score(season, set)
	require.NoError(t, err)
	return table
}

func points(t *testing.T, table *standings.Table, team string) int {
	t.Helper()
	p, ok := table.Points(core.TeamID(team))
	require.True(t, ok, "team %s missing", team)
	return p
}

func TestScore_SingleHomeWin(t *testing.T) {
	season := testkit.SingleFixtureSeason("Home", "Away", fixture.HomeWin)

	table := mustScore(t, season, rules.NewReal())
	assert.Equal(t, 3, points(t, table, "Home"))
	assert.Equal(t, 0, points(t, table, "Away"))

	ranks := Rank(table)
	assert.Equal(t, 1, ranks["Home"])
	assert.Equal(t, 2, ranks["Away"])
}

func TestScore_AllDrawsSymmetricSeason(t *testing.T) {
	season := testkit.MustSeason("draws", testkit.RoundRobin([]string{"A", "B", "C", "D"}, testkit.AllDraws))

	table := mustScore(t, season, rules.NewReal())
	for _, team := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, 6, points(t, table, team), "each team plays 6 draws")
	}
	for _, rank := range Rank(table) {
		assert.Equal(t, 4, rank, "four-way tie shares the worst position")
	}
}

func TestScore_RuleSetsDifferOnlyOnDraws(t *testing.T) {
	season := testkit.MustSeason("mixed", []fixture.Fixture{
		{HomeTeam: "A", AwayTeam: "B", Result: fixture.Draw},
		{HomeTeam: "B", AwayTeam: "A", Result: fixture.HomeWin},
	})

	tests := []struct {
		set  rules.RuleSet
		a, b int
	}{
		{rules.NewReal(), 1, 4},
		{rules.NewHomeWins(), 2, 4},
		{rules.NewAwayWins(), 1, 5},
		{rules.NewModified(), 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.set.Name(), func(t *testing.T) {
			table := mustScore(t, season, tt.set)
			assert.Equal(t, tt.a, points(t, table, "A"))
			assert.Equal(t, tt.b, points(t, table, "B"))
		})
	}
}

func TestScoreResults_UsesResolvedCodesWithoutTouchingSeason(t *testing.T) {
	season := testkit.SingleFixtureSeason("A", "B", fixture.Draw)

	table, err := ScoreResults(season, []fixture.Result{fixture.DrawAwayWinsShootout}, rules.NewModified())
	require.NoError(t, err)
	assert.Equal(t, 1, points(t, table, "A"))
	assert.Equal(t, 2, points(t, table, "B"))
	assert.Equal(t, fixture.Draw, season.Fixture(0).Result)
}

func TestScoreResults_MissingRuleIsFatal(t *testing.T) {
	season := testkit.SingleFixtureSeason("A", "B", fixture.Draw)

	_, err := ScoreResults(season, []fixture.Result{fixture.DrawHomeWinsShootout}, rules.NewReal())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingRule)
	assert.True(t, core.IsConfigurationError(err))
}

func TestScoreResults_LengthMismatch(t *testing.T) {
	season := testkit.SingleFixtureSeason("A", "B", fixture.Draw)
	_, err := ScoreResults(season, nil, rules.NewReal())
	assert.Error(t, err)

	_, err = Score(nil, rules.NewReal())
	assert.ErrorIs(t, err, core.ErrEmptyFixtures)
}

func TestScore_InvariantToFixtureOrder(t *testing.T) {
	teams := testkit.TeamNames(8)
	r := rand.New(rand.NewSource(11))
	codes := []fixture.Result{fixture.HomeWin, fixture.AwayWin, fixture.Draw}
	fixtures := testkit.RoundRobin(teams, func(home, away string) fixture.Result {
		return codes[r.Intn(len(codes))]
	})
	base := mustScore(t, testkit.MustSeason("base", fixtures), rules.NewReal())

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]fixture.Fixture, len(fixtures))
		copy(shuffled, fixtures)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		table := mustScore(t, testkit.MustSeason("shuffled", shuffled), rules.NewReal())
		assert.True(t, base.Equal(table), "trial %d", trial)
		assert.Equal(t, Rank(base), Rank(table))
	}
}

func TestScoreAndRank_Idempotent(t *testing.T) {
	season := testkit.MustSeason("order", testkit.RoundRobin(testkit.TeamNames(6), testkit.StrengthOrder(testkit.TeamNames(6))))

	first := mustScore(t, season, rules.NewHomeWins())
	second := mustScore(t, season, rules.NewHomeWins())
	assert.True(t, first.Equal(second))
	assert.Equal(t, Rank(first), Rank(second))
}

func TestRank_MaxTieConvention(t *testing.T) {
	table := standings.NewTable([]core.TeamID{"A", "B", "C", "D", "E"})
	require.NoError(t, table.Add("A", 10))
	require.NoError(t, table.Add("B", 10))
	require.NoError(t, table.Add("C", 7))
	require.NoError(t, table.Add("D", 5))
	require.NoError(t, table.Add("E", 5))

	assert.Equal(t, standings.RankTable{"A": 2, "B": 2, "C": 3, "D": 5, "E": 5}, Rank(table))
}

func TestRank_StrictOrder(t *testing.T) {
	teams := testkit.TeamNames(6)
	season := testkit.MustSeason("order", testkit.RoundRobin(teams, testkit.StrengthOrder(teams)))

	ranks := Rank(mustScore(t, season, rules.NewReal()))
	for i, team := range teams {
		assert.Equal(t, i+1, ranks[core.TeamID(team)])
	}
}

func TestRank_EmptyTable(t *testing.T) {
	ranks := Rank(standings.NewTable(nil))
	assert.NotNil(t, ranks)
	assert.Empty(t, ranks)
}
