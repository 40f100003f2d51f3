// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// InvalidInput builds a validation error for callers outside the package, such as request decoding.
func InvalidInput(fields ...FieldError) error {
	if len(fields) == 0 {
		return ErrInvalidInput
	}
	return newInvalidInput(fields)
}

// notFoundError reports a referenced entity that does not exist. It unwraps to repository.ErrNotFound.
type notFoundError struct {
	fields []FieldError
}

func (e *notFoundError) Error() string        { return repository.ErrNotFound.Error() }
func (e *notFoundError) Unwrap() error        { return repository.ErrNotFound }
func (e *notFoundError) Fields() []FieldError { return e.fields }

func newNotFound(field, message string) error {
	return &notFoundError{fields: []FieldError{{Field: field, Message: message}}}
}

// FieldErrors extracts field details from a validation or not-found error anywhere in err's chain.
func FieldErrors(err error) []FieldError {
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) {
		return v.Fields()
	}
	return nil
}

// GameStatInput is an unvalidated stat submission. Nil counters default to zero.
type GameStatInput struct {
	PlayerID  int64
	GameDate  time.Time
	Points    *int
	Rebounds  *int
	Assists   *int
	Steals    *int
	Blocks    *int
	Turnovers *int
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (model.Team, error)
}

// PlayerService defines player-oriented use cases. A nil teamID creates an unaffiliated player.
type PlayerService interface {
	CreatePlayer(ctx context.Context, name string, teamID *int64) (model.Player, error)
}

// StatsService defines stat record use cases.
type StatsService interface {
	AddGameStat(ctx context.Context, in GameStatInput) (model.GameStat, error)
}

// QueryService composes repository reads with the aggregation engine. Slices are never nil.
type QueryService interface {
	GetTeams(ctx context.Context) ([]model.Team, error)
	GetPlayers(ctx context.Context) ([]model.PlayerWithTeam, error)
	GetStats(ctx context.Context) ([]model.GameStatView, error)
	GetLeaderboard(ctx context.Context, metric string) ([]model.LeaderboardEntry, error)
	GetPlayerProfile(ctx context.Context, playerName string) (model.PlayerProfile, error)
	GetPlayerSummaries(ctx context.Context) ([]model.PlayerSummary, error)
	GetTeamAggregates(ctx context.Context) ([]model.TeamAggregate, error)
}
