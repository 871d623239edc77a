package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

func seedPlayers(t *testing.T, repo PlayerRepository, names ...string) []*models.Player {
	t.Helper()
	out := make([]*models.Player, 0, len(names))
	for _, n := range names {
		p := &models.Player{Name: n}
		require.NoError(t, repo.Create(context.Background(), nil, p))
		out = append(out, p)
	}
	return out
}

func TestMemoryPlayerRepository(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	players := store.Players()

	created := seedPlayers(t, players, "Twilight Sparkle", "Fluttershy", "Applejack")
	assert.Equal(t, []int{1, 2, 3}, []int{created[0].ID, created[1].ID, created[2].ID})
	assert.False(t, created[0].CreatedAt.IsZero())

	count, err := players.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	err = players.Create(ctx, nil, &models.Player{Name: "   "})
	assert.ErrorIs(t, err, ErrPlayerNameInvalid)

	got, err := players.GetByID(ctx, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, "Fluttershy", got.Name)

	_, err = players.GetByID(ctx, nil, 42)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	n, err := players.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	again := seedPlayers(t, players, "Pinkie Pie")
	assert.Equal(t, 4, again[0].ID, "ids are not reused after a delete")
}

func TestMemoryMatchRepository(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedPlayers(t, store.Players(), "A", "B", "C")
	matches := store.Matches()

	m := &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 2}
	require.NoError(t, matches.Create(ctx, nil, m))
	assert.Equal(t, 1, m.ID)

	tests := []struct {
		name  string
		match models.Match
		want  error
	}{
		{"rematch in reverse order", models.Match{PlayerA: 2, PlayerB: 1, WinnerID: 1}, ErrMatchAlreadyPlayed},
		{"self match", models.Match{PlayerA: 3, PlayerB: 3, WinnerID: 3}, ErrMatchInvalid},
		{"winner outside pair", models.Match{PlayerA: 1, PlayerB: 3, WinnerID: 2}, ErrMatchInvalid},
		{"unknown player", models.Match{PlayerA: 1, PlayerB: 9, WinnerID: 1}, ErrMatchPlayerInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := tt.match
			assert.ErrorIs(t, matches.Create(ctx, nil, &match), tt.want)
		})
	}

	played, err := matches.HasPlayed(ctx, nil, 2, 1)
	require.NoError(t, err)
	assert.True(t, played)
	played, err = matches.HasPlayed(ctx, nil, 1, 3)
	require.NoError(t, err)
	assert.False(t, played)

	count, err := matches.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = store.Players().DeleteAll(ctx, nil)
	assert.ErrorIs(t, err, ErrPlayersReferenced)

	n, err := matches.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Players().DeleteAll(ctx, nil)
	assert.NoError(t, err)
}

func TestMemoryTransactor_RollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedPlayers(t, store.Players(), "A", "B")

	boom := errors.New("boom")
	err := store.Transactor().WithinTx(ctx, func(exec SQLExecutor) error {
		if err := store.Matches().Create(ctx, exec, &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := store.Matches().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = store.Transactor().WithinTx(ctx, func(exec SQLExecutor) error {
		return store.Matches().Create(ctx, exec, &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 1})
	})
	require.NoError(t, err)
	list, err := store.Matches().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID, "sequence advances past the rolled back insert")
}

func TestMemoryTransactor_RollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedPlayers(t, store.Players(), "A", "B")

	late := &models.Player{Name: "late"}
	done := make(chan error, 1)
	boom := errors.New("boom")

	err := store.Transactor().WithinTx(ctx, func(exec SQLExecutor) error {
		if err := store.Matches().Create(ctx, exec, &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 1}); err != nil {
			return err
		}
		go func() { done <- store.Players().Create(ctx, nil, late) }()

		select {
		case err := <-done:
			t.Errorf("write outside the transaction ran inside it: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
		count, err := store.Players().Count(ctx, exec)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	players, err := store.Players().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "late", players[2].Name)
	assert.Equal(t, 3, late.ID)

	count, err := store.Matches().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count, "the transaction's own insert is rolled back")
}

func TestMemoryTransactor_DeleteOutsideFailedTxStays(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedPlayers(t, store.Players(), "A", "B", "C")
	require.NoError(t, store.Matches().Create(ctx, nil, &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 1}))

	done := make(chan error, 1)
	err := store.Transactor().WithinTx(ctx, func(exec SQLExecutor) error {
		go func() {
			_, err := store.Matches().DeleteAll(ctx, nil)
			done <- err
		}()
		played, err := store.Matches().HasPlayed(ctx, exec, 2, 1)
		require.NoError(t, err)
		if played {
			return ErrMatchAlreadyPlayed
		}
		return store.Matches().Create(ctx, exec, &models.Match{PlayerA: 1, PlayerB: 2, WinnerID: 2})
	})
	require.ErrorIs(t, err, ErrMatchAlreadyPlayed)
	require.NoError(t, <-done)

	count, err := store.Matches().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count, "deleted matches do not come back on rollback")
}
