package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/basketball-stat-tracker/internal/config"
	"github.com/maxviazov/basketball-stat-tracker/internal/handler"
	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
)

var discard = zerolog.New(io.Discard)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

// stubServices lets each test control every use case outcome and captures inputs.
type stubServices struct {
	err error

	team        model.Team
	gotTeamName string

	player       model.Player
	gotPlayer    string
	gotPlayerTID *int64

	stat     model.GameStat
	gotStat  service.GameStatInput
	statCall bool

	teams      []model.Team
	players    []model.PlayerWithTeam
	views      []model.GameStatView
	board      []model.LeaderboardEntry
	gotMetric  string
	profile    model.PlayerProfile
	gotProfile string
	summaries  []model.PlayerSummary
	aggregates []model.TeamAggregate
}

func (s *stubServices) CreateTeam(_ context.Context, name string) (model.Team, error) {
	s.gotTeamName = name
	return s.team, s.err
}

func (s *stubServices) CreatePlayer(_ context.Context, name string, teamID *int64) (model.Player, error) {
	s.gotPlayer, s.gotPlayerTID = name, teamID
	return s.player, s.err
}

func (s *stubServices) AddGameStat(_ context.Context, in service.GameStatInput) (model.GameStat, error) {
	s.gotStat, s.statCall = in, true
	return s.stat, s.err
}

func (s *stubServices) GetTeams(context.Context) ([]model.Team, error) { return s.teams, s.err }
func (s *stubServices) GetPlayers(context.Context) ([]model.PlayerWithTeam, error) {
	return s.players, s.err
}
func (s *stubServices) GetStats(context.Context) ([]model.GameStatView, error) { return s.views, s.err }
func (s *stubServices) GetLeaderboard(_ context.Context, metric string) ([]model.LeaderboardEntry, error) {
	s.gotMetric = metric
	return s.board, s.err
}
func (s *stubServices) GetPlayerProfile(_ context.Context, name string) (model.PlayerProfile, error) {
	s.gotProfile = name
	return s.profile, s.err
}
func (s *stubServices) GetPlayerSummaries(context.Context) ([]model.PlayerSummary, error) {
	return s.summaries, s.err
}
func (s *stubServices) GetTeamAggregates(context.Context) ([]model.TeamAggregate, error) {
	return s.aggregates, s.err
}

var (
	_ service.TeamService   = (*stubServices)(nil)
	_ service.PlayerService = (*stubServices)(nil)
	_ service.StatsService  = (*stubServices)(nil)
	_ service.QueryService  = (*stubServices)(nil)
)

func newRouter(stub *stubServices, p repository.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, p, handler.Services{Teams: stub, Players: stub, Stats: stub, Query: stub}, discard)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strp(s string) *string { return &s }

func TestHealth(t *testing.T) {
	ok := newRouter(&stubServices{}, stubPinger{})
	for _, path := range []string{"/live", "/ready", "/api/v1/health/live", "/api/v1/health/ready"} {
		assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, path, nil).Code, path)
	}

	down := newRouter(&stubServices{}, stubPinger{err: errors.New("dial tcp: connection refused")})
	w := do(down, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, http.StatusOK, do(down, http.MethodGet, "/live", nil).Code)
}

func TestCreateTeam(t *testing.T) {
	stub := &stubServices{team: model.Team{ID: 1, Name: "Lakers"}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodPost, "/api/v1/teams", map[string]string{"name": "Lakers"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"Lakers"}`, w.Body.String())
	assert.Equal(t, "Lakers", stub.gotTeamName)
}

func TestCreateTeam_Errors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		body     any
		wantCode int
		wantErr  string
	}{
		{"bad json", nil, "{", http.StatusBadRequest, "invalid_input"},
		{"validation", &fakeInvalid{fe: []service.FieldError{{Field: "name", Message: "must not be empty"}}}, map[string]string{"name": ""}, http.StatusBadRequest, "invalid_input"},
		{"duplicate", repository.ErrAlreadyExists, map[string]string{"name": "Lakers"}, http.StatusConflict, "already_exists"},
		{"storage", repository.Storage(errors.New("disk full")), map[string]string{"name": "Lakers"}, http.StatusInternalServerError, "storage_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&stubServices{err: tc.err}, stubPinger{})
			w := do(r, http.MethodPost, "/api/v1/teams", tc.body)
			require.Equal(t, tc.wantCode, w.Code, w.Body.String())
			var payload map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			assert.Equal(t, tc.wantErr, payload["error"])
		})
	}
}

func TestListTeamsAndAggregates(t *testing.T) {
	stub := &stubServices{
		teams:      []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		aggregates: []model.TeamAggregate{{TeamName: nil, Players: 1, GamesPlayed: 2}},
	}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodGet, "/api/v1/teams", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/teams/aggregates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Nil(t, got[0]["team_name"])
}

func TestCreatePlayer(t *testing.T) {
	teamID := int64(3)
	stub := &stubServices{player: model.Player{ID: 7, Name: "MJ", TeamID: &teamID}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodPost, "/api/v1/players", map[string]any{"name": "MJ", "team_id": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":7,"name":"MJ","team_id":3}`, w.Body.String())
	require.NotNil(t, stub.gotPlayerTID)
	assert.Equal(t, int64(3), *stub.gotPlayerTID)

	w = do(r, http.MethodPost, "/api/v1/players", map[string]any{"name": "Solo"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, stub.gotPlayerTID)
}

func TestCreatePlayer_UnknownTeam(t *testing.T) {
	notFound := &fakeNotFound{fe: []service.FieldError{{Field: "team_id", Message: "team does not exist"}}}
	r := newRouter(&stubServices{err: notFound}, stubPinger{})

	w := do(r, http.MethodPost, "/api/v1/players", map[string]any{"name": "Ghost", "team_id": 99})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"team_id"`)
}

type fakeNotFound struct{ fe []service.FieldError }

func (f *fakeNotFound) Error() string                { return repository.ErrNotFound.Error() }
func (f *fakeNotFound) Unwrap() error                { return repository.ErrNotFound }
func (f *fakeNotFound) Fields() []service.FieldError { return f.fe }

func TestListPlayers(t *testing.T) {
	stub := &stubServices{players: []model.PlayerWithTeam{
		{Player: model.Player{ID: 1, Name: "A"}, TeamName: strp("Lakers")},
		{Player: model.Player{ID: 2, Name: "B"}},
	}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`[{"id":1,"name":"A","team_id":null,"team_name":"Lakers"},{"id":2,"name":"B","team_id":null,"team_name":null}]`,
		w.Body.String())
}

func TestPlayerProfile(t *testing.T) {
	stub := &stubServices{profile: model.PlayerProfile{
		PlayerName: "A Player",
		Totals:     model.Totals{GamesPlayed: 1, Counters: model.Counters{Points: 10}},
		RecentGames: []model.GameStatView{{
			GameStat:   model.GameStat{ID: 1, PlayerID: 1, GameDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Counters: model.Counters{Points: 10}},
			PlayerName: "A Player",
		}},
	}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodGet, "/api/v1/players/profile?name=A+Player", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "A Player", stub.gotProfile)
	var got struct {
		PlayerName  string `json:"player_name"`
		RecentGames []struct {
			GameDate string `json:"game_date"`
		} `json:"recent_games"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.RecentGames, 1)
	assert.Equal(t, "2024-03-01", got.RecentGames[0].GameDate)
}

func TestPlayerSummaries(t *testing.T) {
	stub := &stubServices{summaries: []model.PlayerSummary{{PlayerName: "A"}}}
	w := do(newRouter(stub, stubPinger{}), http.MethodGet, "/api/v1/players/summaries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"player_name":"A"`)
}

func TestCreateStat(t *testing.T) {
	stub := &stubServices{stat: model.GameStat{
		ID: 5, PlayerID: 2, GameDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Counters: model.Counters{Points: 12},
	}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodPost, "/api/v1/stats", map[string]any{"player_id": 2, "game_date": "2024-03-01", "points": 12})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t,
		`{"id":5,"player_id":2,"game_date":"2024-03-01","points":12,"rebounds":0,"assists":0,"steals":0,"blocks":0,"turnovers":0}`,
		w.Body.String())
	require.NotNil(t, stub.gotStat.Points)
	assert.Equal(t, 12, *stub.gotStat.Points)
	assert.Nil(t, stub.gotStat.Rebounds)
	assert.Equal(t, "2024-03-01", stub.gotStat.GameDate.Format(model.DateLayout))
}

func TestCreateStat_Dates(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodPost, "/api/v1/stats", map[string]any{"player_id": 2, "game_date": "2024-03-01T20:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, stub.gotStat.GameDate.Day())

	stub.statCall = false
	w = do(r, http.MethodPost, "/api/v1/stats", map[string]any{"player_id": 2, "game_date": "03/01/2024"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"game_date"`)
	assert.False(t, stub.statCall, "service must not be called with an unparsable date")
}

func TestListStats(t *testing.T) {
	stub := &stubServices{views: []model.GameStatView{{
		GameStat:   model.GameStat{ID: 1, PlayerID: 1, GameDate: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		PlayerName: "A",
	}}}
	w := do(newRouter(stub, stubPinger{}), http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"game_date":"2023-12-31"`)
	assert.Contains(t, w.Body.String(), `"team_name":null`)
}

func TestListStats_UndatedRecord(t *testing.T) {
	stub := &stubServices{views: []model.GameStatView{{
		GameStat:   model.GameStat{ID: 2, PlayerID: 1, Counters: model.Counters{Points: 7}},
		PlayerName: "Old Timer",
	}}}
	w := do(newRouter(stub, stubPinger{}), http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"game_date":null`)
	assert.Contains(t, w.Body.String(), `"points":7`)
}

func TestLeaderboard(t *testing.T) {
	stub := &stubServices{board: []model.LeaderboardEntry{{PlayerName: "A", Total: 30}}}
	r := newRouter(stub, stubPinger{})

	w := do(r, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "points", stub.gotMetric)
	assert.JSONEq(t, `[{"player_name":"A","team_name":null,"total":30}]`, w.Body.String())

	do(r, http.MethodGet, "/api/v1/leaderboard?metric=assists", nil)
	assert.Equal(t, "assists", stub.gotMetric)
}

func TestLeaderboard_InvalidMetric(t *testing.T) {
	stub := &stubServices{err: &fakeInvalid{fe: []service.FieldError{{Field: "metric", Message: "unknown"}}}}
	w := do(newRouter(stub, stubPinger{}), http.MethodGet, "/api/v1/leaderboard?metric=dunks", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"metric"`)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.RateLimit(2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// burst is half the window allowance
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/x", nil).Code)
	w := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.Timeout(50 * time.Millisecond))
	var deadline time.Time
	var ok bool
	r.GET("/x", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})
	do(r, http.MethodGet, "/x", nil)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), deadline, time.Second)
}

func TestNewEngine(t *testing.T) {
	cfg := config.HTTPConfig{RequestTimeout: 5, RateLimit: config.RateLimitConfig{Enabled: true, Requests: 2, WindowSeconds: 60}}
	r := handler.NewEngine(cfg, discard)
	handler.Register(r, stubPinger{}, handler.Services{}, discard)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/live", nil).Code)
}
