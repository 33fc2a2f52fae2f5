package standings

import (
	"fmt"

	"penaltysim/domain/core"
)

// Frame holds several named standings columns over one team universe.
// Columns are merged by team identifier, never by position.
type Frame struct {
	teams   []core.TeamID
	columns map[string]map[core.TeamID]float64
	order   []string
}

// NewFrame creates an empty frame over teams
func NewFrame(teams []core.TeamID) *Frame {
	f := &Frame{
		teams:   make([]core.TeamID, len(teams)),
		columns: make(map[string]map[core.TeamID]float64),
	}
	copy(f.teams, teams)
	return f
}

// Merge adds table as column name. The table must cover exactly the
// frame's teams; an existing column of the same name is replaced.
func (f *Frame) Merge(name string, table *Table) error {
	if table.Len() != len(f.teams) {
		return fmt.Errorf("merge %s: %w: %d vs %d teams", name, core.ErrTeamMismatch, table.Len(), len(f.teams))
	}

	col := make(map[core.TeamID]float64, len(f.teams))
	for _, team := range f.teams {
		p, ok := table.Points(team)
		if !ok {
			return fmt.Errorf("merge %s: %w: %s missing", name, core.ErrTeamMismatch, team)
		}
		col[team] = float64(p)
	}

	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}
	f.columns[name] = col
	return nil
}

// Column returns a copy of the named column
func (f *Frame) Column(name string) (map[core.TeamID]float64, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	out := make(map[core.TeamID]float64, len(col))
	for team, v := range col {
		out[team] = v
	}
	return out, nil
}

// HasColumn reports whether name has been merged
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Columns lists column names in merge order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Teams returns the frame's universe
func (f *Frame) Teams() []core.TeamID {
	out := make([]core.TeamID, len(f.teams))
	copy(out, f.teams)
	return out
}

// Value returns one cell
func (f *Frame) Value(column string, team core.TeamID) (float64, bool) {
	col, ok := f.columns[column]
	if !ok {
		return 0, false
	}
	v, ok := col[team]
	return v, ok
}
