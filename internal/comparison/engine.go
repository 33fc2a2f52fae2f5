// Package comparison computes figures of merit for one standings column
// against a control column of the same frame.
package comparison

import (
	"math"
	"sort"

	"penaltysim/domain/core"
	"penaltysim/domain/standings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Slice is a half-open [Start, End) window over a column sorted by
// descending points. Bounds beyond the available rows are clamped.
type Slice struct {
	Name  string
	Start int
	End   int
}

// Slices are the windows every record reports on. The unnamed slice covers
// the whole league; middle10 holds nine rows.
var Slices = []Slice{
	{Name: "", Start: 0, End: 20},
	{Name: "top10", Start: 0, End: 10},
	{Name: "bottom10", Start: 10, End: 20},
	{Name: "middle10", Start: 6, End: 15},
	{Name: "noTopBottom", Start: 1, End: 18},
}

// Zone sizes
const (
	ChampionsLeagueSpots = 4
	EuropaLeagueSpots    = 3
	RelegationSpots      = 3
)

// Metric kinds
const (
	KindSpread = "spread"
	KindSigma  = "sigma"
)

const changeSuffix = "_change"

// MetricName builds the record key for a kind over a slice, e.g. "spread_top10"
func MetricName(kind string, slice Slice) string {
	if slice.Name == "" {
		return kind
	}
	return kind + "_" + slice.Name
}

// ChangeName is the key of the test-minus-control delta of a metric
func ChangeName(metric string) string {
	return metric + changeSuffix
}

// MetricNames lists every numeric metric a Record carries, in report order
func MetricNames() []string {
	var names []string
	for _, kind := range []string{KindSpread, KindSigma} {
		for _, s := range Slices {
			name := MetricName(kind, s)
			names = append(names, name, ChangeName(name))
		}
	}
	return names
}

// Record is a read-only snapshot of one test column compared to a control
// column. NaN marks an undefined metric (empty slice, or sigma over fewer
// than two rows).
type Record struct {
	Test        string                  `json:"test"`
	Control     string                  `json:"control"`
	Metrics     map[string]float64      `json:"metrics"`
	CL          []core.TeamID           `json:"cl"`
	EL          []core.TeamID           `json:"el"`
	Relegation  []core.TeamID           `json:"relegation"`
	PointDeltas map[core.TeamID]float64 `json:"point_deltas"`
}

// Metric returns a metric by name
func (r Record) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Compare computes the figures of merit of test against control. Both
// columns must be present in frame. Each column is sorted and sliced on
// its own values; slices are never shared between test and control.
func Compare(frame *standings.Frame, test, control string) (Record, error) {
	testCol, err := frame.Column(test)
	if err != nil {
		return Record{}, err
	}
	controlCol, err := frame.Column(control)
	if err != nil {
		return Record{}, err
	}

	testOrder := sortDescending(testCol)
	controlOrder := sortDescending(controlCol)

	testMetrics := sliceMetrics(testOrder, testCol)
	controlMetrics := sliceMetrics(controlOrder, controlCol)

	rec := Record{
		Test:        test,
		Control:     control,
		Metrics:     make(map[string]float64, 2*len(testMetrics)),
		PointDeltas: make(map[core.TeamID]float64, len(testCol)),
	}
	for name, v := range testMetrics {
		rec.Metrics[name] = v
		rec.Metrics[ChangeName(name)] = v - controlMetrics[name]
	}

	rec.CL = window(testOrder, 0, ChampionsLeagueSpots)
	rec.EL = window(testOrder, ChampionsLeagueSpots, ChampionsLeagueSpots+EuropaLeagueSpots)
	rec.Relegation = window(reversed(testOrder), 0, RelegationSpots)

	for team, v := range testCol {
		rec.PointDeltas[team] = v - controlCol[team]
	}

	return rec, nil
}

// sortDescending orders teams by points, highest first, ties by identifier
func sortDescending(col map[core.TeamID]float64) []core.TeamID {
	teams := make([]core.TeamID, 0, len(col))
	for team := range col {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		a, b := col[teams[i]], col[teams[j]]
		if a != b {
			return a > b
		}
		return teams[i] < teams[j]
	})
	return teams
}

func reversed(teams []core.TeamID) []core.TeamID {
	out := make([]core.TeamID, len(teams))
	for i, team := range teams {
		out[len(teams)-1-i] = team
	}
	return out
}

// window returns teams[start:end] clamped to the available rows
func window(teams []core.TeamID, start, end int) []core.TeamID {
	if end > len(teams) {
		end = len(teams)
	}
	if start >= end {
		return []core.TeamID{}
	}
	out := make([]core.TeamID, end-start)
	copy(out, teams[start:end])
	return out
}

func sliceMetrics(order []core.TeamID, col map[core.TeamID]float64) map[string]float64 {
	out := make(map[string]float64, 2*len(Slices))
	for _, s := range Slices {
		teams := window(order, s.Start, s.End)
		values := make([]float64, len(teams))
		for i, team := range teams {
			values[i] = col[team]
		}
		out[MetricName(KindSpread, s)] = spread(values)
		out[MetricName(KindSigma, s)] = sigma(values)
	}
	return out
}

// spread is max minus min; NaN for an empty slice
func spread(values []float64) float64 {
	max, err := stats.Max(values)
	if err != nil {
		return math.NaN()
	}
	min, err := stats.Min(values)
	if err != nil {
		return math.NaN()
	}
	return max - min
}

// sigma is the sample standard deviation; NaN below two rows
func sigma(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}
