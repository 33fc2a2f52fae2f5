package app

import (
	"errors"
	"testing"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	apperrors "penaltysim/internal/errors"
	"penaltysim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleComparison_SingleDraw(t *testing.T) {
	svc := NewRuleComparisonService(nil, quietLogger())
	season := testkit.SingleFixtureSeason("Roma", "Lazio", fixture.Draw)

	cmp, err := svc.CompareDefault(season)
	require.NoError(t, err)

	assert.Equal(t, rules.Real, cmp.Control)
	assert.Equal(t, []string{rules.Real, rules.HomeWins, rules.AwayWins}, cmp.Frame.Columns())
	require.Len(t, cmp.Records, 2)

	home, ok := cmp.Record(rules.HomeWins)
	require.True(t, ok)
	assert.Equal(t, 1.0, home.PointDeltas["Roma"])
	assert.Equal(t, 0.0, home.PointDeltas["Lazio"])
	change, _ := home.Metric("spread_change")
	assert.Equal(t, 1.0, change)

	away, ok := cmp.Record(rules.AwayWins)
	require.True(t, ok)
	assert.Equal(t, 1.0, away.PointDeltas["Lazio"])

	assert.Equal(t, 1, cmp.Ranks[rules.HomeWins]["Roma"])
	assert.Equal(t, 2, cmp.Ranks[rules.HomeWins]["Lazio"])
	assert.Equal(t, 2, cmp.Ranks[rules.Real]["Roma"])

	for _, name := range []string{"spread_change", "sigma_change"} {
		v, _ := cmp.Baseline.Metric(name)
		assert.Equal(t, 0.0, v, name)
	}

	_, ok = cmp.Record(rules.Modified)
	assert.False(t, ok)
}

func TestRuleComparison_ModifiedMatchesRealOnRawResults(t *testing.T) {
	teams := testkit.TeamNames(6)
	season := testkit.MustSeason("2015", testkit.RoundRobin(teams, testkit.StrengthOrder(teams)))
	svc := NewRuleComparisonService(rules.DefaultRegistry(), quietLogger())

	cmp, err := svc.Compare(season, rules.Real, rules.Modified)
	require.NoError(t, err)

	assert.True(t, cmp.Tables[rules.Real].Equal(cmp.Tables[rules.Modified]))
	rec, _ := cmp.Record(rules.Modified)
	for _, d := range rec.PointDeltas {
		assert.Zero(t, d)
	}
}

func TestRuleComparison_Errors(t *testing.T) {
	svc := NewRuleComparisonService(nil, quietLogger())

	_, err := svc.Compare(testkit.SingleFixtureSeason("A", "B", fixture.HomeWin), rules.Real, "Golden Goal")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownRuleSet))
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	_, err = svc.CompareDefault(nil)
	assert.True(t, errors.Is(err, core.ErrEmptyFixtures))
}
