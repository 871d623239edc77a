package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

func TestAdjacentGenerator(t *testing.T) {
	standings := []models.Standing{
		standing(1, 0, 0), standing(2, 0, 0), standing(3, 0, 0), standing(4, 0, 0),
	}

	tests := []struct {
		name    string
		matches []models.Match
		want    []models.Pairing
	}{
		{
			name: "first player meets the bottom of the group",
			want: []models.Pairing{
				{PlayerAID: 1, PlayerAName: "p1", PlayerBID: 4, PlayerBName: "p4"},
				{PlayerAID: 2, PlayerAName: "p2", PlayerBID: 3, PlayerBName: "p3"},
			},
		},
		{
			name:    "previous opponents are skipped",
			matches: []models.Match{{PlayerA: 1, PlayerB: 4, WinnerID: 4}},
			want: []models.Pairing{
				{PlayerAID: 1, PlayerAName: "p1", PlayerBID: 3, PlayerBName: "p3"},
				{PlayerAID: 2, PlayerAName: "p2", PlayerBID: 4, PlayerBName: "p4"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewAdjacentGenerator()
			got, err := g.GeneratePairings(context.Background(), GeneratePairingsParams{
				Standings: standings,
				History:   NewMatchHistory(tt.matches),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdjacentGenerator_Failures(t *testing.T) {
	t.Run("only a previous opponent left", func(t *testing.T) {
		obs := &recordingObserver{}
		g := NewAdjacentGenerator(WithObserver(obs))
		_, err := g.GeneratePairings(context.Background(), GeneratePairingsParams{
			Standings: []models.Standing{standing(1, 1, 1), standing(2, 1, 1)},
			History:   NewMatchHistory([]models.Match{{PlayerA: 1, PlayerB: 2, WinnerID: 2}}),
		})

		var exhausted *PairingExhaustedError
		require.True(t, errors.As(err, &exhausted))
		assert.Equal(t, []int{1, 2}, exhausted.Unpaired)
		assert.Equal(t, 1, exhausted.Attempts)
		assert.Len(t, obs.rematches, 1)
	})

	t.Run("odd player out", func(t *testing.T) {
		_, err := NewAdjacentGenerator().GeneratePairings(context.Background(), GeneratePairingsParams{
			Standings: []models.Standing{standing(1, 0, 0), standing(2, 0, 0), standing(3, 0, 0)},
		})
		assert.ErrorIs(t, err, ErrOddPlayerCount)
	})
}
