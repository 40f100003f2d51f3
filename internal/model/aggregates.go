package model

// Totals holds summed counters for a set of game records.
// This model is a read-only derivation and is never persisted.
type Totals struct {
	GamesPlayed int `json:"games_played"`
	Counters
}

// Averages holds per-game means rounded to two decimals. All fields are zero when GamesPlayed is zero.
type Averages struct {
	GamesPlayed int     `json:"games_played"`
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	Turnovers   float64 `json:"turnovers"`
}

// LeaderboardEntry is one ranked row for a single metric.
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	TeamName   *string `json:"team_name"`
	Total      int     `json:"total"`
}

// PlayerSummary aggregates every record sharing a player name.
type PlayerSummary struct {
	PlayerName string   `json:"player_name"`
	TeamName   *string  `json:"team_name"`
	Totals     Totals   `json:"totals"`
	Averages   Averages `json:"averages"`
}

// TeamAggregate aggregates the records of all players of a team.
// A nil TeamName groups unaffiliated players.
type TeamAggregate struct {
	TeamName    *string  `json:"team_name"`
	Players     int      `json:"players"`
	GamesPlayed int      `json:"games_played"`
	Totals      Counters `json:"totals"`
	Averages    Averages `json:"averages"`
}

// PlayerProfile is the career view of a single player name.
type PlayerProfile struct {
	PlayerName  string         `json:"player_name"`
	Totals      Totals         `json:"totals"`
	Averages    Averages       `json:"averages"`
	RecentGames []GameStatView `json:"recent_games"`
}
