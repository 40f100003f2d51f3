package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
)

// Seeder creates parent rows for suites that need them.
type Seeder struct {
	Team   func(ctx context.Context, name string) (int64, error)
	Player func(ctx context.Context, name string, teamID *int64) (int64, error)
}

type TeamFactory func(t *testing.T) (repository.TeamRepository, func())

type PlayerFactory func(t *testing.T) (repo repository.PlayerRepository, createTeam func(ctx context.Context, name string) (int64, error), cleanup func())

type StatsFactory func(t *testing.T) (repo repository.StatsRepository, seed Seeder, cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, teams repository.TeamRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

type SchemaFactory func(t *testing.T) (schema.Migrator, func())

func date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

// Team contracts

func RunTeamRepositoryContract(t *testing.T, makeRepo TeamFactory) {
	t.Helper()

	t.Run("create_and_list_in_insertion_order", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		names := []string{"Warriors", "Bulls", "Celtics"}
		for _, n := range names {
			created, err := repo.Create(ctx, model.Team{Name: n})
			if err != nil {
				t.Fatalf("create %s: %v", n, err)
			}
			if created.ID <= 0 || created.Name != n {
				t.Fatalf("unexpected created team: %+v", created)
			}
		}
		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != len(names) {
			t.Fatalf("expected %d teams, got %d", len(names), len(got))
		}
		for i, n := range names {
			if got[i].Name != n {
				t.Fatalf("position %d: expected %s, got %s", i, n, got[i].Name)
			}
		}
	})

	t.Run("list_empty_is_not_nil", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Team{Name: "Dup"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Team{Name: "Dup"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("duplicate insert changed state: %d teams", len(got))
		}
	})

	t.Run("names_are_case_sensitive", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Team{Name: "Lakers"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := repo.Create(ctx, model.Team{Name: "lakers"}); err != nil {
			t.Fatalf("case variant rejected: %v", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "Heat"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected team to exist: ok=%v err=%v", ok, err)
		}
		ok, err = repo.Exists(ctx, created.ID+1000)
		if err != nil || ok {
			t.Fatalf("expected unknown team to be absent: ok=%v err=%v", ok, err)
		}
	})
}

// Player contracts

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_with_team_and_list", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Bulls")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		created, err := repo.Create(ctx, model.Player{Name: "Michael Jordan", TeamID: &teamID})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		if created.ID <= 0 || created.TeamID == nil || *created.TeamID != teamID {
			t.Fatalf("unexpected created player: %+v", created)
		}
		got, err := repo.ListWithTeams(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].TeamName == nil || *got[0].TeamName != "Bulls" {
			t.Fatalf("unexpected listing: %+v", got)
		}
	})

	t.Run("unaffiliated_player_has_no_team_name", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Player{Name: "Free Agent"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.TeamID != nil {
			t.Fatalf("expected nil team id, got %v", *created.TeamID)
		}
		got, err := repo.ListWithTeams(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].TeamName != nil || got[0].TeamID != nil {
			t.Fatalf("unexpected listing: %+v", got)
		}
	})

	t.Run("duplicate_names_allowed_in_insertion_order", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a, err := repo.Create(ctx, model.Player{Name: "Same"})
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		b, err := repo.Create(ctx, model.Player{Name: "Same"})
		if err != nil {
			t.Fatalf("second: %v", err)
		}
		got, err := repo.ListWithTeams(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
			t.Fatalf("unexpected listing: %+v", got)
		}
	})

	t.Run("unknown_team_violates_reference", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := repo.Create(ctx, model.Player{Name: "Ghost", TeamID: ptr(int64(987654))})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		got, err := repo.ListWithTeams(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("failed insert left %d players", len(got))
		}
	})

	t.Run("exists", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Player{Name: "Someone"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if ok, err := repo.Exists(ctx, created.ID); err != nil || !ok {
			t.Fatalf("expected player to exist: ok=%v err=%v", ok, err)
		}
		if ok, err := repo.Exists(ctx, created.ID+1000); err != nil || ok {
			t.Fatalf("expected unknown player to be absent: ok=%v err=%v", ok, err)
		}
	})
}

// Stats contracts

func RunStatsRepositoryContract(t *testing.T, makeRepo StatsFactory) {
	t.Helper()

	t.Run("create_and_list_with_names", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := seed.Team(ctx, "Lakers")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		playerID, err := seed.Player(ctx, "LeBron", &teamID)
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		in := model.GameStat{
			PlayerID: playerID,
			GameDate: date("2024-03-01"),
			Counters: model.Counters{Points: 30, Rebounds: 8, Assists: 9, Steals: 2, Blocks: 1, Turnovers: 4},
		}
		created, err := repo.Create(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID <= 0 || created.Counters != in.Counters || !created.GameDate.Equal(in.GameDate) {
			t.Fatalf("unexpected created record: %+v", created)
		}

		got, err := repo.ListWithNames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		v := got[0]
		if v.PlayerName != "LeBron" || v.TeamName == nil || *v.TeamName != "Lakers" {
			t.Fatalf("unexpected names: %+v", v)
		}
		if v.Counters != in.Counters {
			t.Fatalf("counters mismatch: %+v", v.Counters)
		}
		if v.GameDate.Format(model.DateLayout) != "2024-03-01" {
			t.Fatalf("date mismatch: %v", v.GameDate)
		}
	})

	t.Run("unaffiliated_player_has_no_team_name", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, err := seed.Player(ctx, "Solo", nil)
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		if _, err := repo.Create(ctx, model.GameStat{PlayerID: playerID, GameDate: date("2024-01-01")}); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.ListWithNames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].TeamName != nil {
			t.Fatalf("unexpected listing: %+v", got)
		}
		if got[0].Counters != (model.Counters{}) {
			t.Fatalf("expected zero counters, got %+v", got[0].Counters)
		}
	})

	t.Run("same_player_same_date_allowed_in_insertion_order", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, err := seed.Player(ctx, "Twice", nil)
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		for _, pts := range []int{10, 20} {
			rec := model.GameStat{PlayerID: playerID, GameDate: date("2024-02-02"), Counters: model.Counters{Points: pts}}
			if _, err := repo.Create(ctx, rec); err != nil {
				t.Fatalf("create %d: %v", pts, err)
			}
		}
		got, err := repo.ListWithNames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].Points != 10 || got[1].Points != 20 {
			t.Fatalf("unexpected listing: %+v", got)
		}
	})

	t.Run("unknown_player_violates_reference", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := repo.Create(ctx, model.GameStat{PlayerID: 424242, GameDate: date("2024-01-01")})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list_empty_is_not_nil", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.ListWithNames(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})
}

// Tx contracts

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_persists", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := teams.Create(ctx, model.Team{Name: "Committed"})
			return err
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		got, err := teams.List(ctx)
		if err != nil || len(got) != 1 {
			t.Fatalf("expected committed team: %v %+v", err, got)
		}
	})

	t.Run("error_rolls_back", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		boom := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := teams.Create(ctx, model.Team{Name: "RolledBack"}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error, got %v", err)
		}
		got, err := teams.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("rollback left %d teams", len(got))
		}
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		boom := errors.New("outer failed")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := tx.WithinTx(ctx, func(ctx context.Context) error {
				_, err := teams.Create(ctx, model.Team{Name: "Inner"})
				return err
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected outer error, got %v", err)
		}
		got, err := teams.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("inner write survived outer rollback: %+v", got)
		}
	})
}

// Pinger contracts

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

// Schema contracts

func RunSchemaContract(t *testing.T, makeMigrator SchemaFactory) {
	t.Helper()

	t.Run("apply_is_idempotent", func(t *testing.T) {
		m, cleanup := makeMigrator(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if err := schema.Apply(ctx, m, zerolog.Nop()); err != nil {
				t.Fatalf("apply #%d: %v", i+1, err)
			}
		}
		for _, table := range schema.Tables {
			present, err := m.Columns(ctx, table.Name)
			if err != nil {
				t.Fatalf("columns of %s: %v", table.Name, err)
			}
			if missing := schema.Missing(present, table.Columns); len(missing) != 0 {
				t.Fatalf("table %s lacks %+v", table.Name, missing)
			}
			if len(present) != len(table.Columns) {
				t.Fatalf("table %s has %d columns, want %d: %v", table.Name, len(present), len(table.Columns), present)
			}
		}
	})

	t.Run("ensure_columns_skips_present", func(t *testing.T) {
		m, cleanup := makeMigrator(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := schema.Apply(ctx, m, zerolog.Nop()); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if err := m.EnsureColumns(ctx, schema.StatsTable, schema.CounterColumns); err != nil {
			t.Fatalf("ensure present columns: %v", err)
		}
	})

	t.Run("rejects_non_additive_column", func(t *testing.T) {
		m, cleanup := makeMigrator(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := schema.Apply(ctx, m, zerolog.Nop()); err != nil {
			t.Fatalf("apply: %v", err)
		}
		err := m.EnsureColumns(ctx, schema.TeamTable, []schema.Column{{Name: "code", Type: schema.TypeText, Unique: true}})
		if err == nil {
			t.Fatal("expected unique column to be rejected")
		}
	})
}
