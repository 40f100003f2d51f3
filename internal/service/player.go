package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, tx repository.TxManager, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, tx: tx, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, name string, teamID *int64) (model.Player, error) {
	start := time.Now()
	rawName := name

	name, ferrs := requireName("name", name)
	if teamID != nil && *teamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("name_raw", rawName).Msg("player validation failed")
		return model.Player{}, err
	}

	var out model.Player
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if teamID != nil {
			ok, err := s.teams.Exists(ctx, *teamID)
			if err != nil {
				return err
			}
			if !ok {
				return newNotFound("team_id", "team does not exist")
			}
		}
		var err error
		out, err = s.players.Create(ctx, model.Player{Name: name, TeamID: teamID})
		return err
	})
	if errors.Is(err, repository.ErrConflict) {
		// team removed between the check and the insert
		err = newNotFound("team_id", "team does not exist")
	}
	if err != nil {
		ev := s.log.Error()
		if errors.Is(err, repository.ErrNotFound) {
			ev = s.log.Debug()
		}
		ev.Err(err).Str("name", name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}
