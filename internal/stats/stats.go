// Package stats derives career totals, averages, leaderboards and group summaries
// from game records. Every function is pure: it reads only its arguments, never
// touches storage, and returns identical output for identical input.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
)

// ErrUnknownMetric is returned when a leaderboard is requested for a counter that does not exist.
var ErrUnknownMetric = errors.New("unknown metric")

// CareerTotals sums each counter across records; GamesPlayed is the record count.
func CareerTotals(records []model.GameStatView) model.Totals {
	t := model.Totals{GamesPlayed: len(records)}
	for _, r := range records {
		t.Counters = t.Counters.Add(r.Counters)
	}
	return t
}

// CareerAverages divides every total by the number of games, rounded to two decimals.
func CareerAverages(records []model.GameStatView) model.Averages {
	return averagesOf(CareerTotals(records))
}

func averagesOf(t model.Totals) model.Averages {
	if t.GamesPlayed == 0 {
		return model.Averages{}
	}
	n := float64(t.GamesPlayed)
	return model.Averages{
		GamesPlayed: t.GamesPlayed,
		Points:      Round2(float64(t.Points) / n),
		Rebounds:    Round2(float64(t.Rebounds) / n),
		Assists:     Round2(float64(t.Assists) / n),
		Steals:      Round2(float64(t.Steals) / n),
		Blocks:      Round2(float64(t.Blocks) / n),
		Turnovers:   Round2(float64(t.Turnovers) / n),
	}
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Leaderboard ranks player groups by the summed metric, highest first.
// Groups are keyed by player name; each keeps the team name of its first record.
// Equal totals keep the order in which their groups first appeared in records.
func Leaderboard(records []model.GameStatView, metric model.Metric) ([]model.LeaderboardEntry, error) {
	if !metric.Valid() {
		return nil, ErrUnknownMetric
	}
	groups := groupByPlayer(records)
	out := make([]model.LeaderboardEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.LeaderboardEntry{
			PlayerName: g.name,
			TeamName:   g.teamName,
			Total:      g.totals.Value(metric),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// PlayerSummaries returns totals and averages per player name in first-appearance order.
func PlayerSummaries(records []model.GameStatView) []model.PlayerSummary {
	groups := groupByPlayer(records)
	out := make([]model.PlayerSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.PlayerSummary{
			PlayerName: g.name,
			TeamName:   g.teamName,
			Totals:     g.totals,
			Averages:   averagesOf(g.totals),
		})
	}
	return out
}

// TeamAggregates groups records by team name in first-appearance order.
// Unaffiliated players share one group with a nil TeamName.
// Averages are per game record of the team's players. Players counts distinct
// player ids, since names are not unique.
func TeamAggregates(records []model.GameStatView) []model.TeamAggregate {
	type teamKey struct {
		name    string
		present bool
	}
	type teamGroup struct {
		name    *string
		players map[int64]struct{}
		totals  model.Totals
	}

	index := make(map[teamKey]int)
	var groups []*teamGroup
	for _, r := range records {
		k := teamKey{}
		if r.TeamName != nil {
			k = teamKey{name: *r.TeamName, present: true}
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, &teamGroup{name: r.TeamName, players: make(map[int64]struct{})})
		}
		g := groups[i]
		g.players[r.PlayerID] = struct{}{}
		g.totals.GamesPlayed++
		g.totals.Counters = g.totals.Counters.Add(r.Counters)
	}

	out := make([]model.TeamAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.TeamAggregate{
			TeamName:    g.name,
			Players:     len(g.players),
			GamesPlayed: g.totals.GamesPlayed,
			Totals:      g.totals.Counters,
			Averages:    averagesOf(g.totals),
		})
	}
	return out
}

// FilterByPlayer keeps the records whose player name equals name exactly, preserving order.
func FilterByPlayer(records []model.GameStatView, name string) []model.GameStatView {
	out := make([]model.GameStatView, 0)
	for _, r := range records {
		if r.PlayerName == name {
			out = append(out, r)
		}
	}
	return out
}

// RecentGames returns up to n records, most recent game date first.
// Records are stable-sorted by date ascending and the last n are reversed,
// so among equal dates the later input record comes first.
func RecentGames(records []model.GameStatView, n int) []model.GameStatView {
	if n <= 0 || len(records) == 0 {
		return []model.GameStatView{}
	}
	sorted := make([]model.GameStatView, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].GameDate.Before(sorted[j].GameDate) })

	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	out := make([]model.GameStatView, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		out = append(out, sorted[i])
	}
	return out
}

type playerGroup struct {
	name     string
	teamName *string
	totals   model.Totals
}

// groupByPlayer folds records into per-name groups ordered by first appearance.
func groupByPlayer(records []model.GameStatView) []*playerGroup {
	index := make(map[string]int)
	var groups []*playerGroup
	for _, r := range records {
		i, ok := index[r.PlayerName]
		if !ok {
			i = len(groups)
			index[r.PlayerName] = i
			groups = append(groups, &playerGroup{name: r.PlayerName, teamName: r.TeamName})
		}
		g := groups[i]
		g.totals.GamesPlayed++
		g.totals.Counters = g.totals.Counters.Add(r.Counters)
	}
	return groups
}
