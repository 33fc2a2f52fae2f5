package app

import (
	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	"penaltysim/domain/standings"
	"penaltysim/internal"
	"penaltysim/internal/comparison"
	"penaltysim/internal/errors"
	"penaltysim/internal/scoring"
)

// RuleComparisonService scores one season under several rule sets and
// compares each against a control rule set, without any simulation
type RuleComparisonService struct {
	registry *rules.Registry
	logger   *internal.Logger
}

// NewRuleComparisonService creates the service over a rule registry
func NewRuleComparisonService(registry *rules.Registry, logger *internal.Logger) *RuleComparisonService {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &RuleComparisonService{registry: registry, logger: logger}
}

// RuleComparison is the outcome of one comparison. Records follow the
// order the test rule sets were requested in.
type RuleComparison struct {
	Season   string                         `json:"season"`
	Control  string                         `json:"control"`
	Frame    *standings.Frame               `json:"-"`
	Tables   map[string]*standings.Table    `json:"-"`
	Ranks    map[string]standings.RankTable `json:"ranks"`
	Baseline comparison.Record              `json:"baseline"`
	Records  []comparison.Record            `json:"records"`
}

// Record returns the comparison of one test rule set
func (c *RuleComparison) Record(test string) (comparison.Record, bool) {
	for _, r := range c.Records {
		if r.Test == test {
			return r, true
		}
	}
	return comparison.Record{}, false
}

// CompareDefault compares HomeWins and AwayWins against Real
func (s *RuleComparisonService) CompareDefault(season *fixture.Season) (*RuleComparison, error) {
	return s.Compare(season, rules.Real, rules.HomeWins, rules.AwayWins)
}

// Compare scores season under control and every test rule set, merges the
// tables into one frame and compares each test column to the control
func (s *RuleComparisonService) Compare(season *fixture.Season, control string, tests ...string) (*RuleComparison, error) {
	if season == nil || season.Len() == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrEmptyFixtures)
	}

	names := append([]string{control}, tests...)
	out := &RuleComparison{
		Season:  season.Name(),
		Control: control,
		Frame:   standings.NewFrame(season.Teams()),
		Tables:  make(map[string]*standings.Table, len(names)),
		Ranks:   make(map[string]standings.RankTable, len(names)),
	}

	for _, name := range names {
		ruleSet, err := s.registry.Get(name)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, err)
		}
		table, err := scoring.Score(season, ruleSet)
		if err != nil {
			return nil, errors.RuleLookup(err)
		}
		if err := out.Frame.Merge(name, table); err != nil {
			return nil, errors.Wrapf(err, "failed to merge %s standings", name)
		}
		out.Tables[name] = table
		out.Ranks[name] = scoring.Rank(table)
	}

	baseline, err := comparison.Compare(out.Frame, control, control)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compare control with itself")
	}
	out.Baseline = baseline

	for _, name := range tests {
		rec, err := comparison.Compare(out.Frame, name, control)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compare %s", name)
		}
		out.Records = append(out.Records, rec)
		spread, _ := rec.Metric(comparison.ChangeName(comparison.KindSpread))
		s.logger.WithField("season", season.Name()).Debug("%s vs %s: spread change %.2f", name, control, spread)
	}
	return out, nil
}
