package app

import (
	"context"
	"testing"

	"penaltysim/adapters/shootout"
	"penaltysim/domain/fixture"
	"penaltysim/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchReader() testkit.SeasonReader {
	return testkit.SeasonReader{
		"2020": testkit.MustSeason("2020", testkit.RoundRobin(testkit.TeamNames(4), testkit.AllDraws)),
		"2021": testkit.MustSeason("2021", testkit.RoundRobin(testkit.TeamNames(6), testkit.AllDraws)),
		"2022": testkit.MustSeason("2022", []fixture.Fixture{{HomeTeam: "A", AwayTeam: "B", Result: fixture.Draw}}),
	}
}

func TestSeasonBatch_RunsEverySeason(t *testing.T) {
	simulator := NewMonteCarloService(shootout.NewSource(seeded(42)), quietLogger()).WithWorkers(2)
	svc := NewSeasonBatchService(batchReader(), simulator, quietLogger()).WithMaxSeasons(2)

	batch, err := svc.Run(context.Background(), []string{"2022", "2020", "2021"}, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"2022", "2020", "2021"}, batch.Order)
	require.Len(t, batch.Seasons, 3)
	for name, res := range batch.Seasons {
		assert.Equal(t, name, res.Season)
		assert.Equal(t, batch.RunID, res.RunID)
		assert.Len(t, res.Iterations, 5)
	}

	// 2 + 4 + 6 teams, five iterations each
	assert.Len(t, batch.ScoreDeltas(), 5*(2+4+6))
	assert.Len(t, batch.RankDeltas(), 5*(2+4+6))
	assert.Equal(t, batch.Seasons["2022"].ScoreDeltas(), batch.ScoreDeltas()[:10])
}

func TestSeasonBatch_MatchesSingleSeasonRuns(t *testing.T) {
	reader := batchReader()
	simulator := NewMonteCarloService(shootout.NewSource(seeded(9)), quietLogger())

	batch, err := NewSeasonBatchService(reader, simulator, quietLogger()).Run(context.Background(), []string{"2020", "2021"}, 8)
	require.NoError(t, err)

	single, err := simulator.Simulate(context.Background(), MonteCarloRequest{Season: reader["2021"], Iterations: 8})
	require.NoError(t, err)
	assert.Equal(t, single.ScoreDeltas(), batch.Seasons["2021"].ScoreDeltas())
}

func TestSeasonBatch_MissingSeasonFails(t *testing.T) {
	simulator := NewMonteCarloService(shootout.NewSource(seeded(1)), quietLogger())
	svc := NewSeasonBatchService(batchReader(), simulator, quietLogger())

	batch, err := svc.Run(context.Background(), []string{"2020", "1999"}, 3)
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, testkit.ErrNoSuchSeason)

	_, err = svc.Run(context.Background(), nil, 3)
	assert.Error(t, err)
}

func TestSeasonBatch_RepeatedSeasonsRunOnce(t *testing.T) {
	simulator := NewMonteCarloService(shootout.NewSource(seeded(3)), quietLogger())
	svc := NewSeasonBatchService(batchReader(), simulator, quietLogger())

	batch, err := svc.Run(context.Background(), []string{"2020", "2021", "2020", "2021", "2020"}, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"2020", "2021"}, batch.Order)
	require.Len(t, batch.Seasons, 2)
	assert.Len(t, batch.ScoreDeltas(), 4*(4+6))
	assert.Len(t, batch.RankDeltas(), 4*(4+6))
}
