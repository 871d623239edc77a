package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// AdjacentGenerator is the deterministic greedy strategy: the top remaining
// player is matched with the lowest ranked player sharing the same win count
// that they have not met yet. Scanning from the bottom of the group lowers
// the chance of hitting a previous opponent.
//
// Unlike the randomized SwissGenerator it never crosses rank groups, so a
// player without a fresh opponent of equal wins fails the round.
type AdjacentGenerator struct {
	observer Observer
}

func NewAdjacentGenerator(opts ...Option) *AdjacentGenerator {
	o := buildOptions(opts)
	return &AdjacentGenerator{observer: o.observer}
}

func (g *AdjacentGenerator) GetName() string {
	return StrategyAdjacent
}

func (g *AdjacentGenerator) GeneratePairings(ctx context.Context, params GeneratePairingsParams) ([]models.Pairing, error) {
	history := params.History
	if history == nil {
		history = NewMatchHistory(nil)
	}

	remaining := make([]models.Standing, len(params.Standings))
	copy(remaining, params.Standings)
	pairings := make([]models.Pairing, 0, len(remaining)/2)

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		first := remaining[0]
		remaining = remaining[1:]

		partner := -1
		attempts := 0
		for k := len(remaining) - 1; k >= 0; k-- {
			candidate := remaining[k]
			if candidate.Wins != first.Wins {
				continue
			}
			if history.HasPlayed(first.PlayerID, candidate.PlayerID) {
				attempts++
				g.observer.RematchRejected(first.Wins, first.PlayerID, candidate.PlayerID, attempts)
				continue
			}
			partner = k
			break
		}

		if partner < 0 {
			if len(remaining) == 0 {
				return nil, &UnpairedPlayerError{Wins: first.Wins, PlayerID: first.PlayerID}
			}
			unpaired := []int{first.PlayerID}
			for _, r := range remaining {
				if r.Wins == first.Wins {
					unpaired = append(unpaired, r.PlayerID)
				}
			}
			g.observer.GroupExhausted(first.Wins, unpaired, attempts)
			return nil, &PairingExhaustedError{Wins: first.Wins, Unpaired: unpaired, Attempts: attempts}
		}

		p := newPairing(first, remaining[partner])
		pairings = append(pairings, p)
		g.observer.PairCommitted(first.Wins, p)
		remaining = append(remaining[:partner:partner], remaining[partner+1:]...)
	}
	return pairings, nil
}
