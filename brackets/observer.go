package brackets

import "github.com/Dosada05/swiss-tournament/models"

// Observer receives diagnostic events while a round is being paired.
// Implementations must not block; they run inline with the generator.
type Observer interface {
	GroupStarted(wins int, playerIDs []int)
	PlayerDeferred(fromWins int, playerID int)
	RematchRejected(wins int, playerA, playerB int, attempt int)
	PairCommitted(wins int, pairing models.Pairing)
	GroupEscalated(fromWins int, playerIDs []int)
	GroupExhausted(wins int, playerIDs []int, attempts int)
}

type NopObserver struct{}

func (NopObserver) GroupStarted(int, []int) {}

func (NopObserver) PlayerDeferred(int, int) {}

func (NopObserver) RematchRejected(int, int, int, int) {}

func (NopObserver) PairCommitted(int, models.Pairing) {}

func (NopObserver) GroupEscalated(int, []int) {}

func (NopObserver) GroupExhausted(int, []int, int) {}
