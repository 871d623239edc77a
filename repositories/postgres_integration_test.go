//go:build integration

package repositories

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tournament"),
		postgres.WithUsername("tournament"),
		postgres.WithPassword("tournament"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, err := db.Connect(dsn, 10*time.Second, db.DefaultPool, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = db.Migrate(ctx, conn)
	require.NoError(t, err)
	return conn
}

func TestPostgresRepositories(t *testing.T) {
	conn := setupPostgres(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	players := NewPostgresPlayerRepository(conn)
	matches := NewPostgresMatchRepository(conn)
	tx := NewPostgresTransactor(conn, logger)

	for _, name := range []string{"Bruno Walton", "Boots O'Neal", "Cathy Burton"} {
		require.NoError(t, players.Create(ctx, nil, &models.Player{Name: name}))
	}
	assert.ErrorIs(t, players.Create(ctx, nil, &models.Player{Name: "  "}), ErrPlayerNameInvalid)

	list, err := players.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	a, b, c := list[0].ID, list[1].ID, list[2].ID

	err = tx.WithinTx(ctx, func(exec SQLExecutor) error {
		return matches.Create(ctx, exec, &models.Match{PlayerA: a, PlayerB: b, WinnerID: a})
	})
	require.NoError(t, err)

	assert.ErrorIs(t, matches.Create(ctx, nil, &models.Match{PlayerA: b, PlayerB: a, WinnerID: b}), ErrMatchAlreadyPlayed)
	assert.ErrorIs(t, matches.Create(ctx, nil, &models.Match{PlayerA: c, PlayerB: c, WinnerID: c}), ErrMatchInvalid)
	assert.ErrorIs(t, matches.Create(ctx, nil, &models.Match{PlayerA: a, PlayerB: c, WinnerID: b}), ErrMatchInvalid)
	assert.ErrorIs(t, matches.Create(ctx, nil, &models.Match{PlayerA: a, PlayerB: 9999, WinnerID: a}), ErrMatchPlayerInvalid)

	played, err := matches.HasPlayed(ctx, nil, b, a)
	require.NoError(t, err)
	assert.True(t, played)

	_, err = conn.ExecContext(ctx, `UPDATE matches SET winner = player_b`)
	assert.Error(t, err, "matches are append-only")

	_, err = players.DeleteAll(ctx, nil)
	assert.ErrorIs(t, err, ErrPlayersReferenced)

	n, err := matches.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = players.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	count, err := players.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
