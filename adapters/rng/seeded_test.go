package rng

import (
	"context"
	"math"
	"testing"

	apperrors "penaltysim/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawKicks(t *testing.T, source *KickerSource, season string, iteration, n int) []bool {
	t.Helper()
	kicker, err := source.Kicker(context.Background(), season, iteration)
	require.NoError(t, err)
	out := make([]bool, n)
	for i := range out {
		out[i] = kicker.Kick()
	}
	return out
}

func TestKickerSource_DeterministicPerIteration(t *testing.T) {
	source := NewKickerSource(NewSeededRNG(), 7)

	first := drawKicks(t, source, "2022", 3, 64)
	second := drawKicks(t, source, "2022", 3, 64)
	assert.Equal(t, first, second)
}

func TestKickerSource_IterationsAreIndependentStreams(t *testing.T) {
	source := NewKickerSource(NewSeededRNG(), 7)

	a := drawKicks(t, source, "2022", 0, 64)
	b := drawKicks(t, source, "2022", 1, 64)
	c := drawKicks(t, source, "2021", 0, 64)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBernoulliKicker_FairRate(t *testing.T) {
	kicks := drawKicks(t, NewKickerSource(NewSeededRNG(), 1), "rate", 0, 20000)
	scored := 0
	for _, k := range kicks {
		if k {
			scored++
		}
	}
	assert.InDelta(t, 0.5, float64(scored)/float64(len(kicks)), 0.025)
}

func TestKickerSource_WithProbability(t *testing.T) {
	source, err := NewKickerSource(NewSeededRNG(), 1).WithProbability(0.8)
	require.NoError(t, err)

	kicks := drawKicks(t, source, "biased", 0, 20000)
	scored := 0
	for _, k := range kicks {
		if k {
			scored++
		}
	}
	assert.InDelta(t, 0.8, float64(scored)/float64(len(kicks)), 0.02)
}

func TestKickerSource_WithProbabilityRejectsBounds(t *testing.T) {
	base := NewKickerSource(NewSeededRNG(), 1)
	for _, p := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		source, err := base.WithProbability(p)
		assert.Nil(t, source, "p=%v", p)
		require.Error(t, err, "p=%v", p)
		assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
	}
}

func TestStream_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSeededRNG().Stream(ctx, "2022", 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
