package app

import (
	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/internal/distribution"
)

// TeamDraws is one team's draw count
type TeamDraws struct {
	Team  core.TeamID `json:"team"`
	Draws int         `json:"draws"`
}

// DrawStats describes how many matches a season left level
type DrawStats struct {
	Season   string               `json:"season"`
	Fixtures int                  `json:"fixtures"`
	Draws    int                  `json:"draws"`
	Rate     float64              `json:"rate"`
	PerTeam  []TeamDraws          `json:"per_team"`
	Spread   distribution.Summary `json:"spread"`
}

// DrawStatsService reports draw counts, the matches a shootout would decide
type DrawStatsService struct{}

// NewDrawStatsService creates the service
func NewDrawStatsService() *DrawStatsService {
	return &DrawStatsService{}
}

// DrawsPerTeam counts draws per team, home and away, in universe order
func (s *DrawStatsService) DrawsPerTeam(season *fixture.Season) (*DrawStats, error) {
	if season == nil || season.Len() == 0 {
		return nil, core.ErrEmptyFixtures
	}

	counts := season.DrawsPerTeam()
	stats := &DrawStats{
		Season:   season.Name(),
		Fixtures: season.Len(),
	}
	perTeam := make([]float64, 0, len(counts))
	for _, team := range season.Teams() {
		stats.PerTeam = append(stats.PerTeam, TeamDraws{Team: team, Draws: counts[team]})
		perTeam = append(perTeam, float64(counts[team]))
	}
	for _, r := range season.Results() {
		if r.IsDraw() {
			stats.Draws++
		}
	}
	stats.Rate = float64(stats.Draws) / float64(stats.Fixtures)
	stats.Spread = distribution.Summarize(perTeam)
	return stats, nil
}
