package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type statsRepository struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Create(ctx context.Context, s model.GameStat) (model.GameStat, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameStat{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO stats (player_id, game_date, points, rebounds, assists, steals, blocks, turnovers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		s.PlayerID, dateOnly(s.GameDate),
		s.Points, s.Rebounds, s.Assists, s.Steals, s.Blocks, s.Turnovers,
	)
	out := s
	if err := row.Scan(&out.ID); err != nil {
		return model.GameStat{}, mapError(err)
	}
	out.GameDate = dateOnly(s.GameDate)
	return out, nil
}

// ListWithNames reads counters through COALESCE so legacy NULLs come back as zero.
func (r *statsRepository) ListWithNames(ctx context.Context) ([]model.GameStatView, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT s.id, s.player_id, s.game_date,
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
			gameDate *time.Time
		)
		if err := rows.Scan(
			&v.ID, &v.PlayerID, &gameDate,
			&v.Points, &v.Rebounds, &v.Assists,
			&v.Steals, &v.Blocks, &v.Turnovers,
			&v.PlayerName, &v.TeamName,
		); err != nil {
			return nil, mapError(err)
		}
		// NULL dates from older rows stay zero
		if gameDate != nil {
			v.GameDate = dateOnly(*gameDate)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ repository.StatsRepository = (*statsRepository)(nil)
