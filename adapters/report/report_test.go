package report

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"penaltysim/adapters/shootout"
	"penaltysim/app"
	"penaltysim/domain/fixture"
	"penaltysim/internal"
	"penaltysim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *internal.Logger {
	return internal.NewLoggerTo(internal.LogLevelError, io.Discard)
}

func simulated(t *testing.T) *app.MonteCarloResult {
	t.Helper()
	source := shootout.NewSource(&testkit.ScriptedKickerSource{Scripts: func(i int) []bool {
		if i%2 == 0 {
			return testkit.HomeWinsScript()
		}
		return testkit.AwayWinsScript()
	}})
	res, err := app.NewMonteCarloService(source, quiet()).Simulate(context.Background(), app.MonteCarloRequest{
		Season:     testkit.SingleFixtureSeason("Inter", "Milan", fixture.Draw),
		Iterations: 4,
	})
	require.NoError(t, err)
	return res
}

func TestFloat_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Float{"a": 1.5, "b": Float(math.NaN()), "c": Float(math.Inf(1))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1.5, "b": null, "c": null}`, string(out))
}

func TestWriteSimulation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	paths, err := NewWriter(dir, quiet()).WriteSimulation(simulated(t))
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	html, err := os.ReadFile(filepath.Join(dir, "single_simulation.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Season single simulation</title>")
	assert.Contains(t, string(html), "<table>")

	raw, err := os.ReadFile(filepath.Join(dir, "single_simulation.json"))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(4), doc["iterations"])

	metrics := doc["metrics"].(map[string]interface{})
	bottom := metrics["spread_bottom10"].(map[string]interface{})
	assert.Nil(t, bottom["baseline"])
	all := metrics["spread"].(map[string]interface{})
	assert.Equal(t, float64(0), all["baseline"])
}

func TestSimulationMarkdown(t *testing.T) {
	md := SimulationMarkdown(simulated(t))

	assert.True(t, strings.HasPrefix(md, "# Season single: Modified vs Real"))
	assert.Contains(t, md, "| Inter | 1 | 2 |")
	assert.Contains(t, md, "| spread_bottom10 | n/a |")
	assert.NotContains(t, md, "_change |")
	// four iterations, two teams: half gain a point, half do not
	assert.Contains(t, md, "| +0 | 4 |")
	assert.Contains(t, md, "| +1 | 4 |")
}

func TestWriteComparison(t *testing.T) {
	cmp, err := app.NewRuleComparisonService(nil, quiet()).CompareDefault(
		testkit.SingleFixtureSeason("Roma", "Lazio", fixture.Draw))
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = NewWriter(dir, quiet()).WriteComparison(cmp)
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(dir, "single_rules.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| Team | Real | HomeWins | AwayWins |")
	assert.Contains(t, string(md), "| Roma | 1 | 2 | 1 |")
	assert.Contains(t, string(md), "**HomeWins** CL: Roma, Lazio")

	raw, err := os.ReadFile(filepath.Join(dir, "single_rules.json"))
	require.NoError(t, err)
	var doc comparisonDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.Points["HomeWins"]["Roma"])
}

func TestDrawsMarkdown(t *testing.T) {
	stats, err := app.NewDrawStatsService().DrawsPerTeam(testkit.SingleFixtureSeason("A", "B", fixture.Draw))
	require.NoError(t, err)

	md := DrawsMarkdown(stats)
	assert.Contains(t, md, "1 of 1 matches drawn (100.0%)")
	assert.Contains(t, md, "| B | 1 |")
}
