package sqlite

import (
	"context"
	"database/sql"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type teamRepository struct{ db *sql.DB }

func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Team{}, err
	}
	res, err := getQ(ctx, r.db).ExecContext(ctx, `INSERT INTO team (name) VALUES (?)`, t.Name)
	if err != nil {
		return model.Team{}, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Team{}, mapError(err)
	}
	return model.Team{ID: id, Name: t.Name}, nil
}

func (r *teamRepository) List(ctx context.Context) ([]model.Team, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM team ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]model.Team, 0)
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, mapError(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db); err != nil {
		return false, err
	}
	var exists bool
	if err := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM team WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
