// Package rulesfile loads custom point rule sets from YAML or JSON files.
//
// A file lists rule sets by name, each mapping result codes to home and
// away points:
//
//	ruleSets:
//	  ThreeTwo:
//	    H:  {home: 3, away: 0}
//	    A:  {home: 0, away: 3}
//	    D:  {home: 1, away: 1}
//	    DH: {home: 3, away: 2}
//	    DA: {home: 2, away: 3}
package rulesfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"penaltysim/domain/fixture"
	"penaltysim/domain/rules"
	"penaltysim/internal/errors"

	yaml "gopkg.in/yaml.v2"
)

// File is the on-disk layout
type File struct {
	RuleSets map[string]map[string]Points `json:"ruleSets" yaml:"ruleSets"`
}

// Points is one result's award
type Points struct {
	Home int `json:"home" yaml:"home"`
	Away int `json:"away" yaml:"away"`
}

// Load reads rule sets from path, picking the decoder from the extension.
// Rule sets are returned sorted by name.
func Load(path string) ([]rules.RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %s", path)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("bad JSON in %s: %w", path, err))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("bad YAML in %s: %w", path, err))
		}
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported rules file format: %s", ext))
	}

	return f.RuleSetList()
}

// RuleSetList validates the decoded file and builds its rule sets
func (f File) RuleSetList() ([]rules.RuleSet, error) {
	if len(f.RuleSets) == 0 {
		return nil, errors.ConfigInvalid("rules file defines no rule sets")
	}

	names := make([]string, 0, len(f.RuleSets))
	for name := range f.RuleSets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]rules.RuleSet, 0, len(names))
	for _, name := range names {
		points := make(map[fixture.Result]rules.PointPair, len(f.RuleSets[name]))
		for code, p := range f.RuleSets[name] {
			result := fixture.Result(strings.ToUpper(strings.TrimSpace(code)))
			if !result.Valid() {
				return nil, errors.ConfigInvalid(fmt.Sprintf("rule set %s: unknown result code %q", name, code))
			}
			points[result] = rules.PointPair{Home: p.Home, Away: p.Away}
		}
		out = append(out, rules.NewRuleSet(name, points))
	}
	return out, nil
}

// Registry returns the default rule sets plus those in path. A file rule
// set named like a default one replaces it.
func Registry(path string) (*rules.Registry, error) {
	sets := []rules.RuleSet{rules.NewReal(), rules.NewHomeWins(), rules.NewAwayWins(), rules.NewModified()}
	if path == "" {
		return rules.NewRegistry(sets...), nil
	}
	custom, err := Load(path)
	if err != nil {
		return nil, err
	}
	return rules.NewRegistry(append(sets, custom...)...), nil
}
