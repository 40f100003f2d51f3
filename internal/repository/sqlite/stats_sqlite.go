package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type statsRepository struct{ db *sql.DB }

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Create(ctx context.Context, s model.GameStat) (model.GameStat, error) {
	if err := ensureDB(r.db); err != nil {
		return model.GameStat{}, err
	}
	res, err := getQ(ctx, r.db).ExecContext(ctx,
		`INSERT INTO stats (player_id, game_date, points, rebounds, assists, steals, blocks, turnovers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.PlayerID, s.GameDate.Format(model.DateLayout),
		s.Points, s.Rebounds, s.Assists, s.Steals, s.Blocks, s.Turnovers,
	)
	if err != nil {
		return model.GameStat{}, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.GameStat{}, mapError(err)
	}
	out := s
	out.ID = id
	out.GameDate = dateOnly(s.GameDate)
	return out, nil
}

// ListWithNames reads counters through COALESCE so legacy NULLs come back as zero.
// A game_date that cannot be parsed yields a zero GameDate instead of failing the listing.
func (r *statsRepository) ListWithNames(ctx context.Context) ([]model.GameStatView, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT s.id, s.player_id, COALESCE(s.game_date, ''),
		        COALESCE(s.points, 0), COALESCE(s.rebounds, 0), COALESCE(s.assists, 0),
		        COALESCE(s.steals, 0), COALESCE(s.blocks, 0), COALESCE(s.turnovers, 0),
		        p.name, t.name
		 FROM stats s
		 JOIN player p ON p.id = s.player_id
		 LEFT JOIN team t ON t.id = p.team_id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]model.GameStatView, 0)
	for rows.Next() {
		var (
			v        model.GameStatView
			gameDate string
			teamName sql.NullString
		)
		if err := rows.Scan(
			&v.ID, &v.PlayerID, &gameDate,
			&v.Points, &v.Rebounds, &v.Assists,
			&v.Steals, &v.Blocks, &v.Turnovers,
			&v.PlayerName, &teamName,
		); err != nil {
			return nil, mapError(err)
		}
		// legacy rows may carry a NULL or free-form date; they stay listed as undated
		if d, err := parseDate(gameDate); err == nil {
			v.GameDate = d
		}
		v.TeamName = nullString(teamName)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// parseDate accepts the calendar-date layout and full timestamps written by older clients.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(model.DateLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return dateOnly(ts), nil
	}
	if len(s) >= len(model.DateLayout) {
		if d, err := time.Parse(model.DateLayout, s[:len(model.DateLayout)]); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable game_date %q", s)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ repository.StatsRepository = (*statsRepository)(nil)
