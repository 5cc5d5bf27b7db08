package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/seabattle/internal/storage/postgres"
	"github.com/cory-johannsen/seabattle/internal/testutil"
)

func setupRepo(t *testing.T) (*postgres.ResultRepository, *testutil.PostgresContainer) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewResultRepository(pc.RawPool), pc
}

func result(winner string, finished time.Time) postgres.MatchResult {
	return postgres.MatchResult{
		ID:            uuid.New(),
		Winner:        winner,
		Rounds:        12,
		PlayerName:    "Player",
		CPUName:       "CPU",
		PlayerGuesses: 12,
		PlayerHits:    9,
		CPUGuesses:    11,
		CPUHits:       6,
		Duration:      95 * time.Second,
		StartedAt:     finished.Add(-95 * time.Second),
		FinishedAt:    finished,
	}
}

func TestResultRepository_Integration(t *testing.T) {
	repo, pc := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := result("player", base)
	second := result("cpu", base.Add(time.Hour))
	third := result("player", base.Add(2*time.Hour))

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, first))
		got, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, "player", got.Winner)
		assert.Equal(t, 95*time.Second, got.Duration)
		assert.True(t, first.FinishedAt.Equal(got.FinishedAt))
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.Save(ctx, first)
		assert.ErrorIs(t, err, postgres.ErrResultExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, postgres.ErrResultNotFound)
	})

	t.Run("recent and tally", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, second))
		require.NoError(t, repo.Save(ctx, third))

		recent, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, third.ID, recent[0].ID)
		assert.Equal(t, second.ID, recent[1].ID)

		tally, err := repo.Tally(ctx)
		require.NoError(t, err)
		assert.Equal(t, postgres.Tally{Played: 3, PlayerWins: 2, CPUWins: 1}, tally)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := repo.Recent(ctx, 0)
		assert.Error(t, err)
	})
}

func TestResultRepository_RejectsUnknownWinner(t *testing.T) {
	repo, _ := setupRepo(t)
	err := repo.Save(context.Background(), result("nobody", time.Now()))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, postgres.ErrResultExists)
}

func TestMigrate_DownAndUp(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	url := pc.Config.MigrationsURL()

	status, err := postgres.Migrate(url, pc.DSN(), 0)
	require.NoError(t, err)
	assert.True(t, status.Changed)
	assert.Equal(t, uint(1), status.Version)

	status, err = postgres.Migrate(url, pc.DSN(), 0)
	require.NoError(t, err)
	assert.False(t, status.Changed)

	status, err = postgres.MigrateDown(url, pc.DSN())
	require.NoError(t, err)
	assert.True(t, status.Changed)
	assert.Equal(t, uint(0), status.Version)
}
