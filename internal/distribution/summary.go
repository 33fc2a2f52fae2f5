// Package distribution summarises the per-iteration samples of a Monte Carlo run.
package distribution

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the basic shape of a sample. Undefined fields are NaN.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	P05      float64 `json:"p05"`
	P95      float64 `json:"p95"`
	Skewness float64 `json:"skewness"`
}

// Summarize describes data, ignoring NaN entries
func Summarize(data []float64) Summary {
	clean := finite(data)
	s := Summary{
		Count:    len(clean),
		Mean:     math.NaN(),
		StdDev:   math.NaN(),
		Min:      math.NaN(),
		Max:      math.NaN(),
		Median:   math.NaN(),
		P05:      math.NaN(),
		P95:      math.NaN(),
		Skewness: math.NaN(),
	}
	if len(clean) == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(clean)
	s.Min, _ = stats.Min(clean)
	s.Max, _ = stats.Max(clean)
	s.Median, _ = stats.Median(clean)
	s.P05, _ = stats.Percentile(clean, 5)
	s.P95, _ = stats.Percentile(clean, 95)

	if len(clean) > 1 {
		s.StdDev, _ = stats.StandardDeviationSample(clean)
	}
	if len(clean) > 2 && s.StdDev > 0 {
		s.Skewness = skewness(clean, s.Mean, s.StdDev)
	}
	return s
}

// skewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}
	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// PercentileOf returns the fraction of data at or below value. It places an
// observed figure (the real season) within its simulated distribution.
func PercentileOf(value float64, data []float64) float64 {
	clean := finite(data)
	if len(clean) == 0 || math.IsNaN(value) {
		return math.NaN()
	}
	count := 0
	for _, x := range clean {
		if x <= value {
			count++
		}
	}
	return float64(count) / float64(len(clean))
}

// Histogram is a binned sample: Counts[i] covers [Dividers[i], Dividers[i+1])
type Histogram struct {
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// UnitHistogram bins integer-valued data (points, ranks, deltas) one value
// per bin, each bin centred on its integer
func UnitHistogram(data []float64) Histogram {
	clean := finite(data)
	if len(clean) == 0 {
		return Histogram{}
	}
	sort.Float64s(clean)

	lo := math.Floor(clean[0]+0.5) - 0.5
	hi := math.Floor(clean[len(clean)-1]+0.5) + 0.5
	dividers := make([]float64, 0, int(hi-lo)+1)
	for d := lo; d <= hi; d++ {
		dividers = append(dividers, d)
	}

	return Histogram{
		Dividers: dividers,
		Counts:   stat.Histogram(nil, dividers, clean, nil),
	}
}

// Centre returns the midpoint of bin i
func (h Histogram) Centre(i int) float64 {
	return (h.Dividers[i] + h.Dividers[i+1]) / 2
}

func finite(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
