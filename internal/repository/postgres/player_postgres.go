package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO player (name, team_id) VALUES ($1, $2) RETURNING id, name, team_id`,
		p.Name, p.TeamID,
	)
	var out model.Player
	if err := row.Scan(&out.ID, &out.Name, &out.TeamID); err != nil {
		return model.Player{}, mapError(err)
	}
	return out, nil
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM player WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *playerRepository) ListWithTeams(ctx context.Context) ([]model.PlayerWithTeam, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT p.id, p.name, p.team_id, t.name
		 FROM player p
		 LEFT JOIN team t ON t.id = p.team_id
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]model.PlayerWithTeam, 0)
	for rows.Next() {
		var p model.PlayerWithTeam
		if err := rows.Scan(&p.ID, &p.Name, &p.TeamID, &p.TeamName); err != nil {
			return nil, mapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
