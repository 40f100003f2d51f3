package service_test

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
)

var discard = zerolog.New(io.Discard)

// memStore is an in-memory backend for all repositories. WithinTx snapshots
// the rows and restores them when fn fails.
type memStore struct {
	teams   []model.Team
	players []model.Player
	stats   []model.GameStat

	// injected failures
	listErr   error
	createErr error
	// dropTeams simulates a concurrent delete between Exists and Create
	dropTeams bool
	txCalls   int
}

func (m *memStore) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	m.txCalls++
	teams := append([]model.Team(nil), m.teams...)
	players := append([]model.Player(nil), m.players...)
	stats := append([]model.GameStat(nil), m.stats...)
	if err := fn(ctx); err != nil {
		m.teams, m.players, m.stats = teams, players, stats
		return err
	}
	return nil
}

type memTeams struct{ *memStore }

func (r memTeams) Create(_ context.Context, t model.Team) (model.Team, error) {
	if r.createErr != nil {
		return model.Team{}, r.createErr
	}
	for _, existing := range r.teams {
		if existing.Name == t.Name {
			return model.Team{}, repository.ErrAlreadyExists
		}
	}
	t.ID = int64(len(r.teams) + 1)
	r.teams = append(r.teams, t)
	return t, nil
}

func (r memTeams) List(context.Context) ([]model.Team, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]model.Team(nil), r.teams...), nil
}

func (r memTeams) Exists(_ context.Context, id int64) (bool, error) {
	for _, t := range r.teams {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type memPlayers struct{ *memStore }

func (r memPlayers) Create(_ context.Context, p model.Player) (model.Player, error) {
	if r.createErr != nil {
		return model.Player{}, r.createErr
	}
	if p.TeamID != nil {
		if r.dropTeams {
			return model.Player{}, repository.ErrConflict
		}
		if ok, _ := (memTeams{r.memStore}).Exists(context.Background(), *p.TeamID); !ok {
			return model.Player{}, repository.ErrConflict
		}
	}
	p.ID = int64(len(r.players) + 1)
	r.players = append(r.players, p)
	return p, nil
}

func (r memPlayers) Exists(_ context.Context, id int64) (bool, error) {
	for _, p := range r.players {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r memPlayers) teamName(id *int64) *string {
	if id == nil {
		return nil
	}
	for _, t := range r.teams {
		if t.ID == *id {
			name := t.Name
			return &name
		}
	}
	return nil
}

func (r memPlayers) ListWithTeams(context.Context) ([]model.PlayerWithTeam, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.PlayerWithTeam
	for _, p := range r.players {
		out = append(out, model.PlayerWithTeam{Player: p, TeamName: r.teamName(p.TeamID)})
	}
	return out, nil
}

type memStats struct{ *memStore }

func (r memStats) Create(_ context.Context, s model.GameStat) (model.GameStat, error) {
	if r.createErr != nil {
		return model.GameStat{}, r.createErr
	}
	if ok, _ := (memPlayers{r.memStore}).Exists(context.Background(), s.PlayerID); !ok {
		return model.GameStat{}, repository.ErrConflict
	}
	s.ID = int64(len(r.stats) + 1)
	r.stats = append(r.stats, s)
	return s, nil
}

func (r memStats) ListWithNames(context.Context) ([]model.GameStatView, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	players := memPlayers{r.memStore}
	var out []model.GameStatView
	for _, s := range r.stats {
		for _, p := range r.players {
			if p.ID == s.PlayerID {
				out = append(out, model.GameStatView{GameStat: s, PlayerName: p.Name, TeamName: players.teamName(p.TeamID)})
			}
		}
	}
	return out, nil
}

var (
	_ repository.TeamRepository   = memTeams{}
	_ repository.PlayerRepository = memPlayers{}
	_ repository.StatsRepository  = memStats{}
	_ repository.TxManager        = (*memStore)(nil)
)

// services wires every service onto one memStore.
type services struct {
	store   *memStore
	teams   service.TeamService
	players service.PlayerService
	stats   service.StatsService
	query   service.QueryService
}

func newServices() services {
	m := &memStore{}
	return services{
		store:   m,
		teams:   service.NewTeamService(memTeams{m}, discard),
		players: service.NewPlayerService(memPlayers{m}, memTeams{m}, m, discard),
		stats:   service.NewStatsService(memStats{m}, memPlayers{m}, m, discard),
		query:   service.NewQueryService(memTeams{m}, memPlayers{m}, memStats{m}, discard),
	}
}

func hasField(err error, field string) bool {
	for _, f := range service.FieldErrors(err) {
		if f.Field == field {
			return true
		}
	}
	return false
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

var errBackend = repository.Storage(errors.New("backend down"))
