package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type statsService struct {
	stats   repository.StatsRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewStatsService(stats repository.StatsRepository, players repository.PlayerRepository, tx repository.TxManager, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, players: players, tx: tx, log: l}
}

func (s *statsService) AddGameStat(ctx context.Context, in GameStatInput) (model.GameStat, error) {
	var ferrs []FieldError
	if in.PlayerID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must be > 0"})
	}
	if in.GameDate.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "game_date", Message: "is required"})
	}
	counters, cerrs := in.counters()
	ferrs = append(ferrs, cerrs...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Int64("player_id", in.PlayerID).Msg("stat validation failed")
		return model.GameStat{}, err
	}

	y, m, d := in.GameDate.Date()
	record := model.GameStat{
		PlayerID: in.PlayerID,
		GameDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Counters: counters,
	}

	var out model.GameStat
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.players.Exists(ctx, in.PlayerID)
		if err != nil {
			return err
		}
		if !ok {
			return newNotFound("player_id", "player does not exist")
		}
		out, err = s.stats.Create(ctx, record)
		return err
	})
	if errors.Is(err, repository.ErrConflict) {
		err = newNotFound("player_id", "player does not exist")
	}
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("player_id", in.PlayerID).Msg("add game stat failed")
		}
		return model.GameStat{}, err
	}
	s.log.Info().Int64("stat_id", out.ID).Int64("player_id", out.PlayerID).Msg("game stat recorded")
	return out, nil
}
