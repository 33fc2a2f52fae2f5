package report

import (
	"encoding/json"
	"math"
	"strconv"

	"penaltysim/app"
	"penaltysim/domain/core"
	"penaltysim/internal/comparison"
	"penaltysim/internal/distribution"
)

// Float encodes NaN and infinities as null, which encoding/json rejects
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type summaryDoc struct {
	Count    int   `json:"count"`
	Mean     Float `json:"mean"`
	StdDev   Float `json:"std_dev"`
	Min      Float `json:"min"`
	Max      Float `json:"max"`
	Median   Float `json:"median"`
	P05      Float `json:"p05"`
	P95      Float `json:"p95"`
	Skewness Float `json:"skewness"`
}

func summary(s distribution.Summary) summaryDoc {
	return summaryDoc{
		Count:    s.Count,
		Mean:     Float(s.Mean),
		StdDev:   Float(s.StdDev),
		Min:      Float(s.Min),
		Max:      Float(s.Max),
		Median:   Float(s.Median),
		P05:      Float(s.P05),
		P95:      Float(s.P95),
		Skewness: Float(s.Skewness),
	}
}

type recordDoc struct {
	Test        string                `json:"test"`
	Control     string                `json:"control"`
	Metrics     map[string]Float      `json:"metrics"`
	CL          []core.TeamID         `json:"cl"`
	EL          []core.TeamID         `json:"el"`
	Relegation  []core.TeamID         `json:"relegation"`
	PointDeltas map[core.TeamID]Float `json:"point_deltas"`
}

func record(r comparison.Record) recordDoc {
	doc := recordDoc{
		Test:        r.Test,
		Control:     r.Control,
		Metrics:     make(map[string]Float, len(r.Metrics)),
		CL:          r.CL,
		EL:          r.EL,
		Relegation:  r.Relegation,
		PointDeltas: make(map[core.TeamID]Float, len(r.PointDeltas)),
	}
	for k, v := range r.Metrics {
		doc.Metrics[k] = Float(v)
	}
	for k, v := range r.PointDeltas {
		doc.PointDeltas[k] = Float(v)
	}
	return doc
}

type teamDoc struct {
	Team           core.TeamID `json:"team"`
	BaselinePoints int         `json:"baseline_points"`
	BaselineRank   int         `json:"baseline_rank"`
	Points         summaryDoc  `json:"points"`
	Rank           summaryDoc  `json:"rank"`
	PointsSample   []float64   `json:"points_sample"`
}

type metricDoc struct {
	Baseline           Float      `json:"baseline"`
	Distribution       summaryDoc `json:"distribution"`
	BaselinePercentile Float      `json:"baseline_percentile"`
}

type simulationDoc struct {
	RunID       string                 `json:"run_id"`
	Fingerprint string                 `json:"fingerprint"`
	Season      string                 `json:"season"`
	Control     string                 `json:"control"`
	Test        string                 `json:"test"`
	Iterations  int                    `json:"iterations"`
	DurationMs  int64                  `json:"duration_ms"`
	Teams       []teamDoc              `json:"teams"`
	Metrics     map[string]metricDoc   `json:"metrics"`
	ScoreDeltas distribution.Histogram `json:"score_deltas"`
	RankDeltas  distribution.Histogram `json:"rank_deltas"`
}

// SimulationJSON encodes the distributions of a Monte Carlo run
func SimulationJSON(res *app.MonteCarloResult) ([]byte, error) {
	doc := simulationDoc{
		RunID:       res.RunID.String(),
		Fingerprint: res.Fingerprint.String(),
		Season:      res.Season,
		Control:     res.Control,
		Test:        res.Test,
		Iterations:  len(res.Iterations),
		DurationMs:  res.Duration.Milliseconds(),
		Metrics:     make(map[string]metricDoc),
		ScoreDeltas: distribution.UnitHistogram(res.ScoreDeltas()),
		RankDeltas:  distribution.UnitHistogram(res.RankDeltas()),
	}
	for _, ts := range res.Summary() {
		doc.Teams = append(doc.Teams, teamDoc{
			Team:           ts.Team,
			BaselinePoints: ts.BaselinePoints,
			BaselineRank:   ts.BaselineRank,
			Points:         summary(ts.Points),
			Rank:           summary(ts.Rank),
			PointsSample:   res.ScoreDistribution(ts.Team),
		})
	}
	for _, name := range comparison.MetricNames() {
		base, _ := res.BaselineFOM.Metric(name)
		values := res.MetricDistribution(name)
		doc.Metrics[name] = metricDoc{
			Baseline:           Float(base),
			Distribution:       summary(distribution.Summarize(values)),
			BaselinePercentile: Float(distribution.PercentileOf(base, values)),
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

type comparisonDocument struct {
	Season   string                    `json:"season"`
	Control  string                    `json:"control"`
	Points   map[string]map[string]int `json:"points"`
	Baseline recordDoc                 `json:"baseline"`
	Records  []recordDoc               `json:"records"`
}

func comparisonDoc(cmp *app.RuleComparison) comparisonDocument {
	doc := comparisonDocument{
		Season:   cmp.Season,
		Control:  cmp.Control,
		Points:   make(map[string]map[string]int, len(cmp.Tables)),
		Baseline: record(cmp.Baseline),
	}
	for name, table := range cmp.Tables {
		points := make(map[string]int, table.Len())
		for team, p := range table.Map() {
			points[team.String()] = p
		}
		doc.Points[name] = points
	}
	for _, r := range cmp.Records {
		doc.Records = append(doc.Records, record(r))
	}
	return doc
}
