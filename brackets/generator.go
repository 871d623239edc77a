package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

const (
	StrategySwiss    = "swiss"
	StrategyAdjacent = "adjacent"
)

type GeneratePairingsParams struct {
	// Standings must already be ordered: wins descending, ties by registration order.
	Standings []models.Standing
	History   History
}

type PairingGenerator interface {
	GeneratePairings(ctx context.Context, params GeneratePairingsParams) ([]models.Pairing, error)

	GetName() string
}

// NewGenerator builds the generator registered under strategy.
func NewGenerator(strategy string, opts ...Option) (PairingGenerator, error) {
	switch strategy {
	case StrategySwiss, "":
		return NewSwissGenerator(opts...), nil
	case StrategyAdjacent:
		return NewAdjacentGenerator(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func newPairing(a, b models.Standing) models.Pairing {
	return models.Pairing{
		PlayerAID:   a.PlayerID,
		PlayerAName: a.Name,
		PlayerBID:   b.PlayerID,
		PlayerBName: b.Name,
	}
}

func playerIDs(rows []models.Standing) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	return ids
}
