// Package model contains domain entities and read models used across layers.
// I keep it lean and focused on data shapes; the only behavior is counter access by metric.
package model

import "time"

// DateLayout is the calendar-date wire and storage format for game dates.
const DateLayout = "2006-01-02"

// Team represents a basketball team. Names are unique and compared case-sensitively.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Player represents an athlete. A nil TeamID means the player is unaffiliated.
type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	TeamID *int64 `json:"team_id"`
}

// PlayerWithTeam is a player joined with the name of its team.
// TeamName stays nil for unaffiliated players; display labels are the caller's concern.
type PlayerWithTeam struct {
	Player
	TeamName *string `json:"team_name"`
}

// Counters holds the six counting stats tracked per game.
type Counters struct {
	Points    int `json:"points"`
	Rebounds  int `json:"rebounds"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Turnovers int `json:"turnovers"`
}

// Add returns the field-wise sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Points:    c.Points + o.Points,
		Rebounds:  c.Rebounds + o.Rebounds,
		Assists:   c.Assists + o.Assists,
		Steals:    c.Steals + o.Steals,
		Blocks:    c.Blocks + o.Blocks,
		Turnovers: c.Turnovers + o.Turnovers,
	}
}

// GameStat is one immutable per-game observation for a player.
// GameDate carries a calendar date at UTC midnight.
type GameStat struct {
	ID       int64     `json:"id"`
	PlayerID int64     `json:"player_id"`
	GameDate time.Time `json:"game_date"`
	Counters
}

// GameStatView is a stat record joined with its player's name and team name.
type GameStatView struct {
	GameStat
	PlayerName string  `json:"player_name"`
	TeamName   *string `json:"team_name"`
}
