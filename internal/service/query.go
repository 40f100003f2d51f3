package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/stats"
)

// RecentGamesLimit is how many games a player profile lists.
const RecentGamesLimit = 5

type queryService struct {
	teams   repository.TeamRepository
	players repository.PlayerRepository
	stats   repository.StatsRepository
	log     zerolog.Logger
}

func NewQueryService(teams repository.TeamRepository, players repository.PlayerRepository, st repository.StatsRepository, logger zerolog.Logger) QueryService {
	l := logger.With().Str("module", "service").Str("component", "query").Logger()
	return &queryService{teams: teams, players: players, stats: st, log: l}
}

func (s *queryService) GetTeams(ctx context.Context) ([]model.Team, error) {
	out, err := s.teams.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list teams failed")
		return nil, err
	}
	return nonNil(out), nil
}

func (s *queryService) GetPlayers(ctx context.Context) ([]model.PlayerWithTeam, error) {
	out, err := s.players.ListWithTeams(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list players failed")
		return nil, err
	}
	return nonNil(out), nil
}

func (s *queryService) GetStats(ctx context.Context) ([]model.GameStatView, error) {
	out, err := s.stats.ListWithNames(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list stats failed")
		return nil, err
	}
	return nonNil(out), nil
}

// GetLeaderboard validates metric before touching storage.
func (s *queryService) GetLeaderboard(ctx context.Context, metric string) ([]model.LeaderboardEntry, error) {
	m, ok := model.ParseMetric(metric)
	if !ok {
		return nil, invalidMetric()
	}
	records, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	out, err := stats.Leaderboard(records, m)
	if errors.Is(err, stats.ErrUnknownMetric) {
		return nil, invalidMetric()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func invalidMetric() error {
	return newInvalidInput([]FieldError{{Field: "metric", Message: "must be one of points, rebounds, assists, steals, blocks, turnovers"}})
}

// GetPlayerProfile matches playerName exactly. A name without records yields a zeroed profile.
func (s *queryService) GetPlayerProfile(ctx context.Context, playerName string) (model.PlayerProfile, error) {
	if playerName == "" {
		return model.PlayerProfile{}, newInvalidInput([]FieldError{{Field: "name", Message: "must not be empty"}})
	}
	records, err := s.GetStats(ctx)
	if err != nil {
		return model.PlayerProfile{}, err
	}
	own := stats.FilterByPlayer(records, playerName)
	return model.PlayerProfile{
		PlayerName:  playerName,
		Totals:      stats.CareerTotals(own),
		Averages:    stats.CareerAverages(own),
		RecentGames: nonNil(stats.RecentGames(own, RecentGamesLimit)),
	}, nil
}

func (s *queryService) GetPlayerSummaries(ctx context.Context) ([]model.PlayerSummary, error) {
	records, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(stats.PlayerSummaries(records)), nil
}

func (s *queryService) GetTeamAggregates(ctx context.Context) ([]model.TeamAggregate, error) {
	records, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(stats.TeamAggregates(records)), nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
