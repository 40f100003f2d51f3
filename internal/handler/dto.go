package handler

import (
	"strings"
	"time"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
)

// gameStatResponse renders game_date as a calendar date instead of a timestamp.
type gameStatResponse struct {
	ID       int64  `json:"id"`
	PlayerID int64  `json:"player_id"`
	GameDate string `json:"game_date"`
	model.Counters
}

func newGameStatResponse(s model.GameStat) gameStatResponse {
	return gameStatResponse{
		ID:       s.ID,
		PlayerID: s.PlayerID,
		GameDate: s.GameDate.Format(model.DateLayout),
		Counters: s.Counters,
	}
}

// gameStatViewResponse keeps team_name present (as null) for unaffiliated players.
// Undated legacy records render game_date as null.
type gameStatViewResponse struct {
	ID         int64   `json:"id"`
	PlayerID   int64   `json:"player_id"`
	GameDate   *string `json:"game_date"`
	PlayerName string  `json:"player_name"`
	TeamName   *string `json:"team_name"`
	model.Counters
}

func newGameStatViews(in []model.GameStatView) []gameStatViewResponse {
	out := make([]gameStatViewResponse, 0, len(in))
	for _, v := range in {
		out = append(out, gameStatViewResponse{
			ID:         v.ID,
			PlayerID:   v.PlayerID,
			GameDate:   calendarDate(v.GameDate),
			PlayerName: v.PlayerName,
			TeamName:   v.TeamName,
			Counters:   v.Counters,
		})
	}
	return out
}

func calendarDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	d := t.Format(model.DateLayout)
	return &d
}

type playerProfileResponse struct {
	PlayerName  string                 `json:"player_name"`
	Totals      model.Totals           `json:"totals"`
	Averages    model.Averages         `json:"averages"`
	RecentGames []gameStatViewResponse `json:"recent_games"`
}

func newPlayerProfileResponse(p model.PlayerProfile) playerProfileResponse {
	return playerProfileResponse{
		PlayerName:  p.PlayerName,
		Totals:      p.Totals,
		Averages:    p.Averages,
		RecentGames: newGameStatViews(p.RecentGames),
	}
}

type createStatRequest struct {
	PlayerID  int64  `json:"player_id"`
	GameDate  string `json:"game_date"`
	Points    *int   `json:"points"`
	Rebounds  *int   `json:"rebounds"`
	Assists   *int   `json:"assists"`
	Steals    *int   `json:"steals"`
	Blocks    *int   `json:"blocks"`
	Turnovers *int   `json:"turnovers"`
}

// toInput parses game_date as YYYY-MM-DD or RFC 3339. An empty date is left for the service to reject.
func (r createStatRequest) toInput() (service.GameStatInput, error) {
	in := service.GameStatInput{
		PlayerID:  r.PlayerID,
		Points:    r.Points,
		Rebounds:  r.Rebounds,
		Assists:   r.Assists,
		Steals:    r.Steals,
		Blocks:    r.Blocks,
		Turnovers: r.Turnovers,
	}
	raw := strings.TrimSpace(r.GameDate)
	if raw == "" {
		return in, nil
	}
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		ts, terr := time.Parse(time.RFC3339, raw)
		if terr != nil {
			return in, service.InvalidInput(service.FieldError{Field: "game_date", Message: "must be YYYY-MM-DD"})
		}
		d = ts
	}
	in.GameDate = d
	return in, nil
}
