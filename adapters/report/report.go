// Package report renders simulation and rule comparison results as
// Markdown, HTML and JSON files.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"penaltysim/app"
	"penaltysim/internal"
	"penaltysim/internal/comparison"
	"penaltysim/internal/distribution"
	"penaltysim/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const barWidth = 40

// Writer writes report files into one directory
type Writer struct {
	dir    string
	logger *internal.Logger
}

// NewWriter creates a writer over dir, created on first write
func NewWriter(dir string, logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteSimulation writes <season>_simulation.md, .html and .json and returns
// their paths
func (w *Writer) WriteSimulation(res *app.MonteCarloResult) ([]string, error) {
	base := fmt.Sprintf("%s_simulation", res.Season)
	payload, err := SimulationJSON(res)
	if err != nil {
		return nil, errors.ReportFailed(err)
	}
	md := SimulationMarkdown(res)
	return w.write(base, fmt.Sprintf("Season %s simulation", res.Season), md, payload)
}

// WriteComparison writes <season>_rules.md, .html and .json
func (w *Writer) WriteComparison(cmp *app.RuleComparison) ([]string, error) {
	base := fmt.Sprintf("%s_rules", cmp.Season)
	payload, err := json.MarshalIndent(comparisonDoc(cmp), "", "  ")
	if err != nil {
		return nil, errors.ReportFailed(err)
	}
	return w.write(base, fmt.Sprintf("Season %s rule comparison", cmp.Season), ComparisonMarkdown(cmp), payload)
}

func (w *Writer) write(base, title, md string, payload []byte) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, errors.ReportFailed(err)
	}
	files := map[string][]byte{
		base + ".md":   []byte(md),
		base + ".html": RenderHTML(title, md),
		base + ".json": payload,
	}
	var paths []string
	for _, name := range []string{base + ".md", base + ".html", base + ".json"} {
		path := filepath.Join(w.dir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return nil, errors.ReportFailed(err)
		}
		paths = append(paths, path)
	}
	w.logger.Info("Wrote %s reports to %s", base, w.dir)
	return paths, nil
}

// RenderHTML turns a Markdown report into a standalone HTML page
func RenderHTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// SimulationMarkdown summarises a Monte Carlo run
func SimulationMarkdown(res *app.MonteCarloResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Season %s: %s vs %s\n\n", res.Season, res.Test, res.Control)
	fmt.Fprintf(&b, "Run `%s` (inputs `%s`), %d iterations in %v.\n\n",
		res.RunID, res.Fingerprint.Short(), len(res.Iterations), res.Duration.Round(time.Millisecond))

	b.WriteString("## Standings\n\n")
	b.WriteString("| Team | Real pts | Real rank | Mean pts | P05 | P95 | Mean rank | Best | Worst |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, ts := range res.Summary() {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s | %s | %s | %s |\n",
			ts.Team, ts.BaselinePoints, ts.BaselineRank,
			num(ts.Points.Mean), num(ts.Points.P05), num(ts.Points.P95),
			num(ts.Rank.Mean), num(ts.Rank.Min), num(ts.Rank.Max))
	}

	b.WriteString("\n## Figures of merit\n\n")
	b.WriteString("| Metric | Real | Mean | Std dev | Real percentile |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, name := range comparison.MetricNames() {
		if strings.HasSuffix(name, comparison.ChangeName("")) {
			continue
		}
		base, _ := res.BaselineFOM.Metric(name)
		values := res.MetricDistribution(name)
		s := distribution.Summarize(values)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			name, num(base), num(s.Mean), num(s.StdDev), num(distribution.PercentileOf(base, values)))
	}

	b.WriteString("\n## Score change\n\n")
	writeHistogram(&b, "Points", distribution.UnitHistogram(res.ScoreDeltas()))
	b.WriteString("\n## Rank change\n\n")
	writeHistogram(&b, "Places", distribution.UnitHistogram(res.RankDeltas()))
	return b.String()
}

// ComparisonMarkdown lays the rule sets side by side
func ComparisonMarkdown(cmp *app.RuleComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Season %s: rule sets vs %s\n\n", cmp.Season, cmp.Control)

	columns := cmp.Frame.Columns()
	b.WriteString("| Team |")
	for _, c := range columns {
		fmt.Fprintf(&b, " %s |", c)
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(columns)) + "\n")
	for _, team := range cmp.Frame.Teams() {
		fmt.Fprintf(&b, "| %s |", team)
		for _, c := range columns {
			v, _ := cmp.Frame.Value(c, team)
			fmt.Fprintf(&b, " %s |", num(v))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n| Metric |")
	for _, rec := range cmp.Records {
		fmt.Fprintf(&b, " %s |", rec.Test)
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(cmp.Records)) + "\n")
	for _, name := range comparison.MetricNames() {
		fmt.Fprintf(&b, "| %s |", name)
		for _, rec := range cmp.Records {
			v, _ := rec.Metric(name)
			fmt.Fprintf(&b, " %s |", num(v))
		}
		b.WriteString("\n")
	}

	for _, rec := range cmp.Records {
		fmt.Fprintf(&b, "\n**%s** CL: %s; EL: %s; relegated: %s\n",
			rec.Test, joinTeams(rec.CL), joinTeams(rec.EL), joinTeams(rec.Relegation))
	}
	return b.String()
}

// DrawsMarkdown lists draws per team
func DrawsMarkdown(stats *app.DrawStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Season %s draws\n\n", stats.Season)
	fmt.Fprintf(&b, "%d of %d matches drawn (%.1f%%).\n\n", stats.Draws, stats.Fixtures, 100*stats.Rate)
	b.WriteString("| Team | Draws |\n|---|---:|\n")
	for _, td := range stats.PerTeam {
		fmt.Fprintf(&b, "| %s | %d |\n", td.Team, td.Draws)
	}
	return b.String()
}

func writeHistogram(b *strings.Builder, label string, h distribution.Histogram) {
	if len(h.Counts) == 0 {
		b.WriteString("No data.\n")
		return
	}
	peak := 0.0
	for _, c := range h.Counts {
		peak = math.Max(peak, c)
	}
	fmt.Fprintf(b, "| %s | Count | |\n|---:|---:|---|\n", label)
	for i, c := range h.Counts {
		bar := 0
		if peak > 0 {
			bar = int(math.Round(c / peak * barWidth))
		}
		fmt.Fprintf(b, "| %+.0f | %.0f | %s |\n", h.Centre(i), c, strings.Repeat("#", bar))
	}
}

func joinTeams[T fmt.Stringer](teams []T) string {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// num formats a metric, printing undefined values as n/a
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
