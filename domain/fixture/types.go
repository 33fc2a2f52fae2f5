package fixture

import (
	"fmt"
	"strings"

	"penaltysim/domain/core"
)

// Result is a match result code. Raw season data only carries H, A and D;
// DH and DA are produced by resolving a draw with a penalty shootout.
type Result string

const (
	HomeWin              Result = "H"
	AwayWin              Result = "A"
	Draw                 Result = "D"
	DrawHomeWinsShootout Result = "DH"
	DrawAwayWinsShootout Result = "DA"
)

// AllResults lists every result code in a stable order
var AllResults = []Result{HomeWin, AwayWin, Draw, DrawHomeWinsShootout, DrawAwayWinsShootout}

func (r Result) String() string { return string(r) }

// IsDraw reports whether the result is an unresolved draw
func (r Result) IsDraw() bool { return r == Draw }

// IsShootout reports whether the result is a draw settled on penalties
func (r Result) IsShootout() bool {
	return r == DrawHomeWinsShootout || r == DrawAwayWinsShootout
}

// Valid reports whether r is one of the known codes
func (r Result) Valid() bool {
	for _, known := range AllResults {
		if r == known {
			return true
		}
	}
	return false
}

// ParseResult parses a full-time result code as recorded in season files.
// Only H, A and D are accepted: shootout codes are derived, never read.
func ParseResult(s string) (Result, error) {
	switch r := Result(strings.ToUpper(strings.TrimSpace(s))); r {
	case HomeWin, AwayWin, Draw:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidResult, s)
	}
}

// Fixture is one played match
type Fixture struct {
	Date      string      `json:"date,omitempty"`
	HomeTeam  core.TeamID `json:"home_team"`
	AwayTeam  core.TeamID `json:"away_team"`
	HomeGoals int         `json:"home_goals"`
	AwayGoals int         `json:"away_goals"`
	Result    Result      `json:"result"`
}

// WithResult returns a copy of the fixture carrying a different result code
func (f Fixture) WithResult(r Result) Fixture {
	f.Result = r
	return f
}

// Involves reports whether team played in the fixture
func (f Fixture) Involves(team core.TeamID) bool {
	return f.HomeTeam == team || f.AwayTeam == team
}
