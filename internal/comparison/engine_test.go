package comparison

import (
	"math"
	"testing"

	"penaltysim/domain/core"
	"penaltysim/domain/rules"
	"penaltysim/domain/standings"
	"penaltysim/internal/scoring"
	"penaltysim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearFrame builds a frame whose column name gives team i (0-based)
// points(i). Teams are named T01..Tnn.
func linearFrame(t *testing.T, n int, columns map[string]func(i int) int) *standings.Frame {
	t.Helper()
	names := testkit.TeamNames(n)
	teams := make([]core.TeamID, n)
	for i, name := range names {
		teams[i] = core.TeamID(name)
	}

	frame := standings.NewFrame(teams)
	for col, points := range columns {
		table := standings.NewTable(teams)
		for i, team := range teams {
			require.NoError(t, table.Add(team, points(i)))
		}
		require.NoError(t, frame.Merge(col, table))
	}
	return frame
}

func descending(i int) int { return 100 - 3*i }

func TestCompare_SelfComparisonHasZeroChange(t *testing.T) {
	frame := linearFrame(t, 20, map[string]func(int) int{rules.Real: descending})

	rec, err := Compare(frame, rules.Real, rules.Real)
	require.NoError(t, err)

	for _, name := range MetricNames() {
		v, ok := rec.Metric(name)
		require.True(t, ok, name)
		if len(name) > len(changeSuffix) && name[len(name)-len(changeSuffix):] == changeSuffix {
			assert.Equal(t, 0.0, v, name)
		}
	}
	for _, d := range rec.PointDeltas {
		assert.Equal(t, 0.0, d)
	}
}

func TestCompare_SliceSpreadsAndSigmas(t *testing.T) {
	frame := linearFrame(t, 20, map[string]func(int) int{"Test": descending})

	rec, err := Compare(frame, "Test", "Test")
	require.NoError(t, err)

	expected := map[string]float64{
		"spread":             57,
		"spread_top10":       27,
		"spread_bottom10":    27,
		"spread_middle10":    24,
		"spread_noTopBottom": 48,
		// sample sd of an arithmetic run of n values with step 3
		"sigma":             3 * math.Sqrt(20*21/12.0),
		"sigma_top10":       3 * math.Sqrt(10*11/12.0),
		"sigma_bottom10":    3 * math.Sqrt(10*11/12.0),
		"sigma_middle10":    3 * math.Sqrt(9*10/12.0),
		"sigma_noTopBottom": 3 * math.Sqrt(17*18/12.0),
	}
	for name, want := range expected {
		got, ok := rec.Metric(name)
		require.True(t, ok, name)
		assert.InDelta(t, want, got, 1e-9, name)
	}
}

func TestCompare_ControlIsSlicedByItsOwnOrder(t *testing.T) {
	// Control ranks the teams in reverse: identical value sets, different order
	frame := linearFrame(t, 20, map[string]func(int) int{
		"Test":    descending,
		"Control": func(i int) int { return descending(19 - i) },
	})

	rec, err := Compare(frame, "Test", "Control")
	require.NoError(t, err)

	for _, s := range Slices {
		assert.Equal(t, 0.0, rec.Metrics[ChangeName(MetricName(KindSpread, s))], s.Name)
		assert.InDelta(t, 0.0, rec.Metrics[ChangeName(MetricName(KindSigma, s))], 1e-12, s.Name)
	}
	assert.Equal(t, 57.0, rec.PointDeltas["T01"])
	assert.Equal(t, -57.0, rec.PointDeltas["T20"])
}

func TestCompare_ChangeIsTestMinusControl(t *testing.T) {
	frame := linearFrame(t, 20, map[string]func(int) int{
		"Wide":   func(i int) int { return 2 * descending(i) },
		"Narrow": descending,
	})

	rec, err := Compare(frame, "Wide", "Narrow")
	require.NoError(t, err)
	assert.Equal(t, 114.0, rec.Metrics["spread"])
	assert.Equal(t, 57.0, rec.Metrics["spread_change"])
	assert.Equal(t, 27.0, rec.Metrics["spread_top10_change"])
}

func TestCompare_Zones(t *testing.T) {
	frame := linearFrame(t, 20, map[string]func(int) int{"Test": descending})

	rec, err := Compare(frame, "Test", "Test")
	require.NoError(t, err)
	assert.Equal(t, []core.TeamID{"T01", "T02", "T03", "T04"}, rec.CL)
	assert.Equal(t, []core.TeamID{"T05", "T06", "T07"}, rec.EL)
	assert.Equal(t, []core.TeamID{"T20", "T19", "T18"}, rec.Relegation)
}

func TestCompare_ZoneTiesBreakByTeam(t *testing.T) {
	frame := linearFrame(t, 6, map[string]func(int) int{"Test": func(int) int { return 10 }})

	rec, err := Compare(frame, "Test", "Test")
	require.NoError(t, err)
	assert.Equal(t, []core.TeamID{"T01", "T02", "T03", "T04"}, rec.CL)
	assert.Equal(t, []core.TeamID{"T05", "T06"}, rec.EL)
	assert.Equal(t, []core.TeamID{"T06", "T05", "T04"}, rec.Relegation)
}

func TestCompare_EighteenTeamLeagueTruncatesSlices(t *testing.T) {
	frame := linearFrame(t, 18, map[string]func(int) int{"Test": descending})

	rec, err := Compare(frame, "Test", "Test")
	require.NoError(t, err)
	assert.Equal(t, 51.0, rec.Metrics["spread"])
	assert.Equal(t, 21.0, rec.Metrics["spread_bottom10"], "rows [10,18)")
	assert.Equal(t, 48.0, rec.Metrics["spread_noTopBottom"], "rows [1,18)")
}

func TestCompare_DegenerateSlicesAreNaN(t *testing.T) {
	frame := linearFrame(t, 11, map[string]func(int) int{"Test": descending})

	rec, err := Compare(frame, "Test", "Test")
	require.NoError(t, err)

	// bottom10 holds one row
	assert.Equal(t, 0.0, rec.Metrics["spread_bottom10"])
	assert.True(t, math.IsNaN(rec.Metrics["sigma_bottom10"]))
	assert.True(t, math.IsNaN(rec.Metrics["sigma_bottom10_change"]))

	small := linearFrame(t, 4, map[string]func(int) int{"Test": descending})
	rec, err = Compare(small, "Test", "Test")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rec.Metrics["spread_bottom10"]))
	assert.True(t, math.IsNaN(rec.Metrics["spread_middle10"]))
	assert.Equal(t, 9.0, rec.Metrics["spread"])
	assert.Empty(t, rec.EL)
}

func TestCompare_AllDrawSeasonHasNoSpread(t *testing.T) {
	season := testkit.MustSeason("draws", testkit.RoundRobin([]string{"A", "B", "C", "D"}, testkit.AllDraws))
	table, err := scoring.Score(season, rules.NewReal())
	require.NoError(t, err)

	frame := standings.NewFrame(season.Teams())
	require.NoError(t, frame.Merge(rules.Real, table))

	rec, err := Compare(frame, rules.Real, rules.Real)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Metrics["spread"])
	assert.Equal(t, 0.0, rec.Metrics["sigma"])
}

func TestCompare_Deterministic(t *testing.T) {
	frame := linearFrame(t, 20, map[string]func(int) int{
		"Test":    func(i int) int { return (i * 7) % 13 },
		"Control": descending,
	})

	first, err := Compare(frame, "Test", "Control")
	require.NoError(t, err)
	second, err := Compare(frame, "Test", "Control")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompare_MissingColumn(t *testing.T) {
	frame := linearFrame(t, 4, map[string]func(int) int{"Test": descending})

	_, err := Compare(frame, "Test", "Real")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
	_, err = Compare(frame, "Modified", "Test")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestMetricNames(t *testing.T) {
	names := MetricNames()
	assert.Len(t, names, 20)
	assert.Contains(t, names, "spread")
	assert.Contains(t, names, "sigma_middle10_change")
}

func TestCompare_SelfComparisonInSmallLeague(t *testing.T) {
	// four teams fill only the leading rows; windows past them stay undefined
	season := testkit.MustSeason("small", testkit.RoundRobin(testkit.TeamNames(4), testkit.StrengthOrder(testkit.TeamNames(4))))
	table, err := scoring.Score(season, rules.NewReal())
	require.NoError(t, err)
	frame := standings.NewFrame(season.Teams())
	require.NoError(t, frame.Merge(rules.Real, table))

	rec, err := Compare(frame, rules.Real, rules.Real)
	require.NoError(t, err)

	for _, s := range Slices {
		for _, kind := range []string{KindSpread, KindSigma} {
			name := ChangeName(MetricName(kind, s))
			got := rec.Metrics[name]
			if len(window(make([]core.TeamID, 4), s.Start, s.End)) == 0 {
				assert.True(t, math.IsNaN(got), "%s should be undefined", name)
				continue
			}
			assert.Equal(t, 0.0, got, name)
		}
	}
	assert.True(t, math.IsNaN(rec.Metrics["spread_bottom10_change"]))
	assert.True(t, math.IsNaN(rec.Metrics["sigma_middle10_change"]))
	assert.Equal(t, 0.0, rec.Metrics["spread_change"])
	assert.Equal(t, 0.0, rec.Metrics["spread_top10_change"])
	assert.Equal(t, 0.0, rec.Metrics["sigma_noTopBottom_change"])
}
