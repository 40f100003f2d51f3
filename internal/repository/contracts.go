package repository

import (
	"context"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Repositories called with the ctx handed to fn run on the same transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
// I return domain models and surface domain errors from errors.go rather than driver codes.
type TeamRepository interface {
	// Create inserts a team; a duplicate name yields ErrAlreadyExists.
	Create(ctx context.Context, t model.Team) (model.Team, error)
	List(ctx context.Context) ([]model.Team, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	// Create inserts a player; an unknown team_id yields ErrConflict.
	Create(ctx context.Context, p model.Player) (model.Player, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// ListWithTeams left-joins teams, so unaffiliated players carry a nil team name.
	ListWithTeams(ctx context.Context) ([]model.PlayerWithTeam, error)
}

// StatsRepository declares operations for per-game stat records.
type StatsRepository interface {
	// Create inserts a record; an unknown player_id yields ErrConflict.
	Create(ctx context.Context, s model.GameStat) (model.GameStat, error)
	// ListWithNames returns every record with its player name and (nullable) team name, oldest first.
	ListWithNames(ctx context.Context) ([]model.GameStatView, error)
}

// Store bundles the repositories of one storage backend around a single handle.
// Close releases the handle; it is safe to call once at shutdown.
type Store struct {
	Driver  string
	Teams   TeamRepository
	Players PlayerRepository
	Stats   StatsRepository
	Tx      TxManager
	Pinger  Pinger
	Schema  schema.Migrator
	Close   func()
}
