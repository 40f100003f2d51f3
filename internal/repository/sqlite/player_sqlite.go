package sqlite

import (
	"context"
	"database/sql"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type playerRepository struct{ db *sql.DB }

func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Player{}, err
	}
	var teamID sql.NullInt64
	if p.TeamID != nil {
		teamID = sql.NullInt64{Int64: *p.TeamID, Valid: true}
	}
	res, err := getQ(ctx, r.db).ExecContext(ctx, `INSERT INTO player (name, team_id) VALUES (?, ?)`, p.Name, teamID)
	if err != nil {
		return model.Player{}, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Player{}, mapError(err)
	}
	out := model.Player{ID: id, Name: p.Name}
	if p.TeamID != nil {
		v := *p.TeamID
		out.TeamID = &v
	}
	return out, nil
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db); err != nil {
		return false, err
	}
	var exists bool
	if err := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM player WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *playerRepository) ListWithTeams(ctx context.Context) ([]model.PlayerWithTeam, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
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
		var (
			p        model.PlayerWithTeam
			teamID   sql.NullInt64
			teamName sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &teamID, &teamName); err != nil {
			return nil, mapError(err)
		}
		p.TeamID = nullInt(teamID)
		p.TeamName = nullString(teamName)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
