package app

import (
	"context"
	"sync"

	"penaltysim/domain/core"
	"penaltysim/internal"
	"penaltysim/internal/errors"
	"penaltysim/ports"

	"golang.org/x/sync/semaphore"
)

// SeasonBatchService runs the Monte Carlo simulation over several seasons
type SeasonBatchService struct {
	reader     ports.FixtureReader
	simulator  *MonteCarloService
	maxSeasons int64
	logger     *internal.Logger
}

// NewSeasonBatchService creates a batch runner that simulates up to two
// seasons at once
func NewSeasonBatchService(reader ports.FixtureReader, simulator *MonteCarloService, logger *internal.Logger) *SeasonBatchService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &SeasonBatchService{
		reader:     reader,
		simulator:  simulator,
		maxSeasons: 2,
		logger:     logger,
	}
}

// WithMaxSeasons bounds how many seasons are simulated concurrently
func (s *SeasonBatchService) WithMaxSeasons(n int) *SeasonBatchService {
	if n < 1 {
		n = 1
	}
	s.maxSeasons = int64(n)
	return s
}

// BatchResult is owned by the caller. Order lists seasons as requested.
type BatchResult struct {
	RunID   core.RunID                   `json:"run_id"`
	Order   []string                     `json:"order"`
	Seasons map[string]*MonteCarloResult `json:"seasons"`
}

// ScoreDeltas pools score deltas over every season, in request order
func (b *BatchResult) ScoreDeltas() []float64 {
	var out []float64
	for _, name := range b.Order {
		out = append(out, b.Seasons[name].ScoreDeltas()...)
	}
	return out
}

// RankDeltas pools rank deltas over every season, in request order
func (b *BatchResult) RankDeltas() []float64 {
	var out []float64
	for _, name := range b.Order {
		out = append(out, b.Seasons[name].RankDeltas()...)
	}
	return out
}

// Run loads and simulates every season once; repeated names are dropped.
// The first failing season cancels the rest and is returned.
func (s *SeasonBatchService) Run(ctx context.Context, seasons []string, iterations int) (*BatchResult, error) {
	seasons = uniqueSeasons(seasons)
	if len(seasons) == 0 {
		return nil, errors.InvalidInput("no seasons requested")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batch := &BatchResult{
		RunID:   core.NewRunID(),
		Order:   seasons,
		Seasons: make(map[string]*MonteCarloResult, len(seasons)),
	}
	s.logger.WithField("run_id", batch.RunID.String()).Info("Simulating %d seasons, %d at a time", len(seasons), s.maxSeasons)

	sem := semaphore.NewWeighted(s.maxSeasons)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for _, name := range seasons {
		if err := sem.Acquire(ctx, 1); err != nil {
			fail(err)
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			result, err := s.runSeason(ctx, batch.RunID, name, iterations)
			if err != nil {
				fail(err)
				return
			}
			mu.Lock()
			batch.Seasons[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return batch, nil
}

// uniqueSeasons keeps the first occurrence of each name, in order
func uniqueSeasons(seasons []string) []string {
	seen := make(map[string]bool, len(seasons))
	out := make([]string, 0, len(seasons))
	for _, name := range seasons {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (s *SeasonBatchService) runSeason(ctx context.Context, runID core.RunID, name string, iterations int) (*MonteCarloResult, error) {
	season, err := s.reader.ReadSeason(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load season %s", name)
	}
	return s.simulator.Simulate(ctx, MonteCarloRequest{
		Season:     season,
		Iterations: iterations,
		RunID:      runID,
	})
}
