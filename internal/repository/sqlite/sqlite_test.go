package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository/contract"
	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
)

// openTestDB opens a fresh database file under t.TempDir.
func openTestDB(t *testing.T, migrate bool) *sql.DB {
	t.Helper()
	db, err := OpenDB(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	if migrate {
		require.NoError(t, schema.Apply(context.Background(), NewMigrator(db), zerolog.Nop()))
	}
	return db
}

func seeder(db *sql.DB) contract.Seeder {
	teams := NewTeamRepository(db)
	players := NewPlayerRepository(db)
	return contract.Seeder{
		Team: func(ctx context.Context, name string) (int64, error) {
			team, err := teams.Create(ctx, model.Team{Name: name})
			return team.ID, err
		},
		Player: func(ctx context.Context, name string, teamID *int64) (int64, error) {
			p, err := players.Create(ctx, model.Player{Name: name, TeamID: teamID})
			return p.ID, err
		},
	}
}

func TestTeamRepository_SQLiteContract(t *testing.T) {
	contract.RunTeamRepositoryContract(t, func(t *testing.T) (repository.TeamRepository, func()) {
		return NewTeamRepository(openTestDB(t, true)), func() {}
	})
}

func TestPlayerRepository_SQLiteContract(t *testing.T) {
	contract.RunPlayerRepositoryContract(t, func(t *testing.T) (repository.PlayerRepository, func(ctx context.Context, name string) (int64, error), func()) {
		db := openTestDB(t, true)
		return NewPlayerRepository(db), seeder(db).Team, func() {}
	})
}

func TestStatsRepository_SQLiteContract(t *testing.T) {
	contract.RunStatsRepositoryContract(t, func(t *testing.T) (repository.StatsRepository, contract.Seeder, func()) {
		db := openTestDB(t, true)
		return NewStatsRepository(db), seeder(db), func() {}
	})
}

func TestTxManager_SQLiteContract(t *testing.T) {
	contract.RunTxManagerContract(t, func(t *testing.T) (repository.TxManager, repository.TeamRepository, func()) {
		db := openTestDB(t, true)
		return NewTxManager(db), NewTeamRepository(db), func() {}
	})
}

func TestPinger_SQLiteContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return NewPinger(openTestDB(t, false)), func() {}
	})
}

func TestSchema_SQLiteContract(t *testing.T) {
	contract.RunSchemaContract(t, func(t *testing.T) (schema.Migrator, func()) {
		return NewMigrator(openTestDB(t, false)), func() {}
	})
}

// legacyDDL is the layout written by the first release, before steals, blocks
// and turnovers existed.
const legacyDDL = `
CREATE TABLE team (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE);
CREATE TABLE player (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, team_id INTEGER, FOREIGN KEY (team_id) REFERENCES team(id));
CREATE TABLE stats (id INTEGER PRIMARY KEY AUTOINCREMENT, player_id INTEGER, game_date TEXT, points INTEGER, rebounds INTEGER, assists INTEGER, FOREIGN KEY (player_id) REFERENCES player(id));
INSERT INTO team (name) VALUES ('Legacy');
INSERT INTO player (name, team_id) VALUES ('Old Timer', 1);
INSERT INTO stats (player_id, game_date, points, rebounds, assists) VALUES (1, '2020-01-05', 12, NULL, 3);
INSERT INTO stats (player_id, game_date, points) VALUES (1, NULL, 7);
INSERT INTO stats (player_id, game_date, points) VALUES (1, 'last tuesday', 4);
`

func TestApply_MigratesLegacyStatsTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, false)
	_, err := db.ExecContext(ctx, legacyDDL)
	require.NoError(t, err)

	m := NewMigrator(db)
	require.NoError(t, schema.Apply(ctx, m, zerolog.Nop()))
	require.NoError(t, schema.Apply(ctx, m, zerolog.Nop()))

	cols, err := m.Columns(ctx, schema.StatsTable)
	require.NoError(t, err)
	seen := map[string]int{}
	for _, c := range cols {
		seen[c]++
	}
	for _, c := range schema.CounterColumns {
		assert.Equal(t, 1, seen[c.Name], "column %s", c.Name)
	}

	got, err := NewStatsRepository(db).ListWithNames(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Old Timer", got[0].PlayerName)
	require.NotNil(t, got[0].TeamName)
	assert.Equal(t, "Legacy", *got[0].TeamName)
	assert.Equal(t, model.Counters{Points: 12, Assists: 3}, got[0].Counters)
	assert.Equal(t, "2020-01-05", got[0].GameDate.Format(model.DateLayout))
	// undated legacy rows are kept with their counters
	assert.True(t, got[1].GameDate.IsZero())
	assert.Equal(t, 7, got[1].Points)
	assert.True(t, got[2].GameDate.IsZero())
	assert.Equal(t, 4, got[2].Points)

	// new rows land next to the legacy one
	_, err = NewStatsRepository(db).Create(ctx, model.GameStat{
		PlayerID: got[0].PlayerID,
		GameDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Counters: model.Counters{Steals: 2, Turnovers: 1},
	})
	require.NoError(t, err)
	got, err = NewStatsRepository(db).ListWithNames(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 2, got[3].Steals)
}

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-01":               "2024-03-01",
		" 2024-03-01 ":             "2024-03-01",
		"2024-03-01T18:30:00Z":     "2024-03-01",
		"2024-03-01T18:30:00.123Z": "2024-03-01",
		"2024-03-01 18:30":         "2024-03-01",
	}
	for in, want := range cases {
		d, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.Format(model.DateLayout), in)
	}
	_, err := parseDate("yesterday")
	assert.Error(t, err)
}

func TestMapError_SQLite(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(errors.New("disk I/O error")), repository.ErrStorage)
}

func TestConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t, true))
	player, err := store.Players.Create(ctx, model.Player{Name: "Busy"})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Teams.Create(ctx, model.Team{Name: fmt.Sprintf("T%d", i)}); err != nil {
				errs <- err
			}
			err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
				ok, err := store.Players.Exists(ctx, player.ID)
				if err != nil || !ok {
					return fmt.Errorf("exists: %v %w", ok, err)
				}
				_, err = store.Stats.Create(ctx, model.GameStat{PlayerID: player.ID, GameDate: time.Now().UTC(), Counters: model.Counters{Points: i}})
				return err
			})
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}

	teams, err := store.Teams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, writers)
	stats, err := store.Stats.ListWithNames(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, writers)
}
