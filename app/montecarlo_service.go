package app

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"time"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	"penaltysim/domain/standings"
	"penaltysim/internal"
	"penaltysim/internal/comparison"
	"penaltysim/internal/distribution"
	"penaltysim/internal/errors"
	"penaltysim/internal/scoring"
	"penaltysim/ports"

	"golang.org/x/sync/errgroup"
)

// Monte Carlo defaults
const (
	DefaultIterations      = 1000
	DefaultQuickIterations = 10
)

// MonteCarloService replays a season many times, settling every draw with
// a simulated shootout, and compares the shootout standings to the real ones
type MonteCarloService struct {
	resolvers ports.ResolverSource
	control   rules.RuleSet
	test      rules.RuleSet
	workers   int
	logger    *internal.Logger
}

// NewMonteCarloService compares Modified standings against Real using one
// worker per CPU
func NewMonteCarloService(resolvers ports.ResolverSource, logger *internal.Logger) *MonteCarloService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &MonteCarloService{
		resolvers: resolvers,
		control:   rules.NewReal(),
		test:      rules.NewModified(),
		workers:   runtime.NumCPU(),
		logger:    logger,
	}
}

// WithWorkers bounds the number of iterations in flight. Values below one
// run iterations sequentially.
func (s *MonteCarloService) WithWorkers(workers int) *MonteCarloService {
	if workers < 1 {
		workers = 1
	}
	s.workers = workers
	return s
}

// WithRules replaces the control and test rule sets
func (s *MonteCarloService) WithRules(control, test rules.RuleSet) *MonteCarloService {
	s.control = control
	s.test = test
	return s
}

// MonteCarloRequest describes one batch over one season
type MonteCarloRequest struct {
	Season     *fixture.Season
	Iterations int
	RunID      core.RunID // optional, generated when empty
}

// IterationRecord is the outcome of one iteration
type IterationRecord struct {
	Index         int                 `json:"index"`
	Scores        *standings.Table    `json:"-"`
	Ranks         standings.RankTable `json:"ranks"`
	FOM           comparison.Record   `json:"fom"`
	ScoreDeltas   map[core.TeamID]int `json:"score_deltas"`
	RankDeltas    map[core.TeamID]int `json:"rank_deltas"`
	ShootoutsHome int                 `json:"shootouts_home"`
	ShootoutsAway int                 `json:"shootouts_away"`
}

// MonteCarloResult holds a whole batch. Iterations[i] is always iteration i.
type MonteCarloResult struct {
	RunID         core.RunID          `json:"run_id"`
	Season        string              `json:"season"`
	Control       string              `json:"control"`
	Test          string              `json:"test"`
	Fingerprint   core.Hash           `json:"fingerprint"`
	Teams         []core.TeamID       `json:"teams"`
	Baseline      *standings.Table    `json:"-"`
	BaselineRanks standings.RankTable `json:"baseline_ranks"`
	BaselineFOM   comparison.Record   `json:"baseline_fom"`
	Iterations    []IterationRecord   `json:"iterations"`
	Duration      time.Duration       `json:"duration"`
}

// IterationError reports which iteration aborted a batch
type IterationError struct {
	Season string
	Index  int
	Err    error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("season %s iteration %d: %v", e.Season, e.Index, e.Err)
}

func (e *IterationError) Unwrap() error { return e.Err }

// Is makes every iteration failure match core.ErrSimulationFailed
func (e *IterationError) Is(target error) bool {
	return target == core.ErrSimulationFailed
}

// Simulate runs req.Iterations independent iterations. The first failing
// iteration aborts the batch; cancellation is checked between iterations.
func (s *MonteCarloService) Simulate(ctx context.Context, req MonteCarloRequest) (*MonteCarloResult, error) {
	if req.Season == nil || req.Season.Len() == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrEmptyFixtures)
	}
	if req.Iterations <= 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput,
			fmt.Errorf("%w: got %d", core.ErrInvalidIterations, req.Iterations))
	}
	if err := s.test.Covers(resolvable(req.Season)); err != nil {
		return nil, errors.RuleLookup(err)
	}

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}
	season := req.Season
	fingerprint := core.ComputeHash(season.Fingerprint().String(), s.control.String(), s.test.String(), strconv.Itoa(req.Iterations))
	logger := s.logger.WithFields(internal.Fields{
		"run_id":      runID.String(),
		"season":      season.Name(),
		"fingerprint": fingerprint.Short(),
	})
	started := time.Now()

	baseline, err := scoring.Score(season, s.control)
	if err != nil {
		return nil, errors.RuleLookup(err)
	}
	baseFrame := standings.NewFrame(season.Teams())
	if err := baseFrame.Merge(s.control.Name(), baseline); err != nil {
		return nil, errors.Wrap(err, "failed to build baseline frame")
	}
	baseFOM, err := comparison.Compare(baseFrame, s.control.Name(), s.control.Name())
	if err != nil {
		return nil, errors.Wrap(err, "failed to compare baseline")
	}
	baseRanks := scoring.Rank(baseline)

	logger.Info("Starting %d iterations with %d workers (%s vs %s)",
		req.Iterations, s.workers, s.test.Name(), s.control.Name())

	records := make([]IterationRecord, req.Iterations)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < req.Iterations; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.iterate(gctx, season, i, baseline, baseRanks)
			if err != nil {
				return &IterationError{Season: season.Name(), Index: i, Err: err}
			}
			records[i] = rec
			logger.Trace("Iteration %d done: %d home and %d away shootout wins",
				i, rec.ShootoutsHome, rec.ShootoutsAway)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Simulation aborted: %v", err)
		return nil, errors.WithCode(errors.CodeSimulationFailed, err)
	}
	// errgroup's context ends once Wait returns, so only the caller's
	// cancellation can have stopped the loop early
	if err := ctx.Err(); err != nil {
		return nil, errors.WithCode(errors.CodeSimulationFailed, err)
	}

	result := &MonteCarloResult{
		RunID:         runID,
		Season:        season.Name(),
		Control:       s.control.Name(),
		Test:          s.test.Name(),
		Fingerprint:   fingerprint,
		Teams:         season.Teams(),
		Baseline:      baseline,
		BaselineRanks: baseRanks,
		BaselineFOM:   baseFOM,
		Iterations:    records,
		Duration:      time.Since(started),
	}
	logger.Info("Completed %d iterations in %v", req.Iterations, result.Duration)
	return result, nil
}

// iterate resolves an iteration-local copy of the season's results, scores
// it under the test rules and compares it to the baseline
func (s *MonteCarloService) iterate(ctx context.Context, season *fixture.Season, index int, baseline *standings.Table, baseRanks standings.RankTable) (IterationRecord, error) {
	resolver, err := s.resolvers.Resolver(ctx, season.Name(), index)
	if err != nil {
		return IterationRecord{}, fmt.Errorf("failed to create resolver: %w", err)
	}

	results := season.Results()
	rec := IterationRecord{Index: index}
	for i, r := range results {
		results[i] = resolver.Resolve(r)
		switch results[i] {
		case fixture.DrawHomeWinsShootout:
			rec.ShootoutsHome++
		case fixture.DrawAwayWinsShootout:
			rec.ShootoutsAway++
		}
	}

	scores, err := scoring.ScoreResults(season, results, s.test)
	if err != nil {
		return IterationRecord{}, errors.RuleLookup(err)
	}

	frame := standings.NewFrame(season.Teams())
	if err := frame.Merge(s.control.Name(), baseline); err != nil {
		return IterationRecord{}, err
	}
	if err := frame.Merge(s.test.Name(), scores); err != nil {
		return IterationRecord{}, err
	}
	fom, err := comparison.Compare(frame, s.test.Name(), s.control.Name())
	if err != nil {
		return IterationRecord{}, err
	}

	ranks := scoring.Rank(scores)
	scoreDeltas, err := standings.Delta(scores, baseline)
	if err != nil {
		return IterationRecord{}, err
	}
	rankDeltas, err := ranks.Delta(baseRanks)
	if err != nil {
		return IterationRecord{}, err
	}

	rec.Scores = scores
	rec.Ranks = ranks
	rec.FOM = fom
	rec.ScoreDeltas = scoreDeltas
	rec.RankDeltas = rankDeltas
	return rec, nil
}

// resolvable lists the results a resolved copy of season can contain
func resolvable(season *fixture.Season) []fixture.Result {
	seen := make(map[fixture.Result]bool)
	var out []fixture.Result
	add := func(r fixture.Result) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, r := range season.Results() {
		if r.IsDraw() {
			add(fixture.DrawHomeWinsShootout)
			add(fixture.DrawAwayWinsShootout)
			continue
		}
		add(r)
	}
	return out
}

// ScoreDistribution returns the team's test points, one per iteration
func (r *MonteCarloResult) ScoreDistribution(team core.TeamID) []float64 {
	out := make([]float64, len(r.Iterations))
	for i, it := range r.Iterations {
		p, _ := it.Scores.Points(team)
		out[i] = float64(p)
	}
	return out
}

// RankDistribution returns the team's test rank, one per iteration
func (r *MonteCarloResult) RankDistribution(team core.TeamID) []float64 {
	out := make([]float64, len(r.Iterations))
	for i, it := range r.Iterations {
		out[i] = float64(it.Ranks[team])
	}
	return out
}

// MetricDistribution returns one FOM metric, one value per iteration. An
// unknown metric yields NaN entries.
func (r *MonteCarloResult) MetricDistribution(name string) []float64 {
	out := make([]float64, len(r.Iterations))
	for i, it := range r.Iterations {
		v, ok := it.FOM.Metric(name)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// ScoreDeltas pools every team's test-minus-real points over all iterations
func (r *MonteCarloResult) ScoreDeltas() []float64 {
	return r.pool(func(it IterationRecord) map[core.TeamID]int { return it.ScoreDeltas })
}

// RankDeltas pools every team's test-minus-real rank over all iterations
func (r *MonteCarloResult) RankDeltas() []float64 {
	return r.pool(func(it IterationRecord) map[core.TeamID]int { return it.RankDeltas })
}

func (r *MonteCarloResult) pool(field func(IterationRecord) map[core.TeamID]int) []float64 {
	out := make([]float64, 0, len(r.Iterations)*len(r.Teams))
	for _, it := range r.Iterations {
		deltas := field(it)
		for _, team := range r.Teams {
			out = append(out, float64(deltas[team]))
		}
	}
	return out
}

// TeamSummary condenses one team's distributions
type TeamSummary struct {
	Team           core.TeamID          `json:"team"`
	BaselinePoints int                  `json:"baseline_points"`
	BaselineRank   int                  `json:"baseline_rank"`
	Points         distribution.Summary `json:"points"`
	Rank           distribution.Summary `json:"rank"`
}

// Summary returns one TeamSummary per team, best baseline rank first
func (r *MonteCarloResult) Summary() []TeamSummary {
	out := make([]TeamSummary, 0, len(r.Teams))
	for _, team := range r.Teams {
		points, _ := r.Baseline.Points(team)
		out = append(out, TeamSummary{
			Team:           team,
			BaselinePoints: points,
			BaselineRank:   r.BaselineRanks[team],
			Points:         distribution.Summarize(r.ScoreDistribution(team)),
			Rank:           distribution.Summarize(r.RankDistribution(team)),
		})
	}
	sortSummaries(out)
	return out
}

func sortSummaries(out []TeamSummary) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BaselineRank != out[j].BaselineRank {
			return out[i].BaselineRank < out[j].BaselineRank
		}
		return out[i].Team < out[j].Team
	})
}
