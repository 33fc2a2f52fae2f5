package rules

import (
	"fmt"
	"sort"
	"strings"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
)

// Rule set names
const (
	Real     = "Real"
	HomeWins = "HomeWins"
	AwayWins = "AwayWins"
	Modified = "Modified"
)

// PointPair holds the points awarded to the home and away side for one result
type PointPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// RuleSet maps every result code it supports to the points it awards
type RuleSet struct {
	name   string
	points map[fixture.Result]PointPair
}

// NewRuleSet copies points into a named rule set
func NewRuleSet(name string, points map[fixture.Result]PointPair) RuleSet {
	copied := make(map[fixture.Result]PointPair, len(points))
	for r, p := range points {
		copied[r] = p
	}
	return RuleSet{name: name, points: copied}
}

// Name returns the rule set name
func (r RuleSet) Name() string { return r.name }

// Points looks up the award for a result. A missing entry is a
// configuration error.
func (r RuleSet) Points(result fixture.Result) (PointPair, error) {
	p, ok := r.points[result]
	if !ok {
		return PointPair{}, core.NewMissingRuleError(r.name, result.String())
	}
	return p, nil
}

// Supports reports whether the rule set has an entry for result
func (r RuleSet) Supports(result fixture.Result) bool {
	_, ok := r.points[result]
	return ok
}

// Covers checks that every result in results has an entry
func (r RuleSet) Covers(results []fixture.Result) error {
	for _, res := range results {
		if !r.Supports(res) {
			return core.NewMissingRuleError(r.name, res.String())
		}
	}
	return nil
}

// Results lists the codes the rule set supports, sorted
func (r RuleSet) Results() []fixture.Result {
	out := make([]fixture.Result, 0, len(r.points))
	for res := range r.points {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String lists the awards in result order, e.g. "A=0/3 D=1/1 H=3/0"
func (r RuleSet) String() string {
	var b strings.Builder
	for i, res := range r.Results() {
		if i > 0 {
			b.WriteByte(' ')
		}
		p := r.points[res]
		fmt.Fprintf(&b, "%s=%d/%d", res, p.Home, p.Away)
	}
	return b.String()
}

// NewReal is the standard 3/1/0 scoring
func NewReal() RuleSet {
	return NewRuleSet(Real, map[fixture.Result]PointPair{
		fixture.HomeWin: {Home: 3, Away: 0},
		fixture.AwayWin: {Home: 0, Away: 3},
		fixture.Draw:    {Home: 1, Away: 1},
	})
}

// NewHomeWins awards the home side the bonus point on every draw
func NewHomeWins() RuleSet {
	return NewRuleSet(HomeWins, map[fixture.Result]PointPair{
		fixture.HomeWin: {Home: 3, Away: 0},
		fixture.AwayWin: {Home: 0, Away: 3},
		fixture.Draw:    {Home: 2, Away: 1},
	})
}

// NewAwayWins awards the away side the bonus point on every draw
func NewAwayWins() RuleSet {
	return NewRuleSet(AwayWins, map[fixture.Result]PointPair{
		fixture.HomeWin: {Home: 3, Away: 0},
		fixture.AwayWin: {Home: 0, Away: 3},
		fixture.Draw:    {Home: 1, Away: 2},
	})
}

// NewModified settles draws with a shootout: winner 2, loser 1.
// An unresolved draw keeps its 1/1 award.
func NewModified() RuleSet {
	return NewRuleSet(Modified, map[fixture.Result]PointPair{
		fixture.HomeWin:              {Home: 3, Away: 0},
		fixture.AwayWin:              {Home: 0, Away: 3},
		fixture.Draw:                 {Home: 1, Away: 1},
		fixture.DrawHomeWinsShootout: {Home: 2, Away: 1},
		fixture.DrawAwayWinsShootout: {Home: 1, Away: 2},
	})
}

// Registry holds named rule sets
type Registry struct {
	sets map[string]RuleSet
}

// NewRegistry creates a registry from rule sets, later names win
func NewRegistry(sets ...RuleSet) *Registry {
	r := &Registry{sets: make(map[string]RuleSet, len(sets))}
	for _, s := range sets {
		r.sets[s.Name()] = s
	}
	return r
}

// DefaultRegistry holds the four standard rule sets
func DefaultRegistry() *Registry {
	return NewRegistry(NewReal(), NewHomeWins(), NewAwayWins(), NewModified())
}

// Get returns a rule set by name
func (r *Registry) Get(name string) (RuleSet, error) {
	s, ok := r.sets[name]
	if !ok {
		return RuleSet{}, fmt.Errorf("%w: %s", core.ErrUnknownRuleSet, name)
	}
	return s, nil
}

// Names lists registered rule set names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
