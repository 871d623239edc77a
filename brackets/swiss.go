package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// groupState is the lifecycle of one rank group while it is being paired.
type groupState int

const (
	stateSelecting groupState = iota
	stateCommitted
	stateExhausted
)

// SwissGenerator pairs players inside rank groups by drawing two unpaired
// members at random and accepting the draw when they have not met before.
//
// Group order and the order inside a group are fixed by the standings, so
// for a fixed Source the result (including the failure point) is fully
// reproducible; only the choice of partner is random.
type SwissGenerator struct {
	retryLimit int
	escalate   bool
	source     Source
	observer   Observer
}

func NewSwissGenerator(opts ...Option) *SwissGenerator {
	o := buildOptions(opts)
	return &SwissGenerator{
		retryLimit: o.retryLimit,
		escalate:   o.escalate,
		source:     o.source,
		observer:   o.observer,
	}
}

func (g *SwissGenerator) GetName() string {
	return StrategySwiss
}

// GeneratePairings walks the rank groups from the highest win count down.
// An odd group defers its lowest ranked member to the next group. A group
// that exhausts its retry budget either escalates its unpaired members to the
// next group or, when it is the last group or escalation is off, fails the
// whole round with *PairingExhaustedError.
func (g *SwissGenerator) GeneratePairings(ctx context.Context, params GeneratePairingsParams) ([]models.Pairing, error) {
	history := params.History
	if history == nil {
		history = NewMatchHistory(nil)
	}

	groups := GroupByWins(params.Standings)
	wins := groups.Wins()
	pairings := make([]models.Pairing, 0, len(params.Standings)/2)

	var carried []models.Standing
	var escalatedFrom []int
	for i, w := range wins {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hasLower := i < len(wins)-1

		pool := make([]models.Standing, 0, len(carried)+len(groups[w]))
		pool = append(pool, carried...)
		pool = append(pool, groups[w]...)
		carried = nil

		if len(pool)%2 == 1 && hasLower {
			deferred := pool[len(pool)-1]
			pool = pool[:len(pool)-1]
			carried = append(carried, deferred)
			g.observer.PlayerDeferred(w, deferred.PlayerID)
		}

		g.observer.GroupStarted(w, playerIDs(pool))
		committed, remaining, attempts := g.pairGroup(w, pool, history)
		pairings = append(pairings, committed...)

		switch {
		case len(remaining) == 0:
			escalatedFrom = nil
			continue
		case len(remaining) == 1:
			// Only reachable in the last group: everything above carried down.
			return nil, &UnpairedPlayerError{Wins: w, PlayerID: remaining[0].PlayerID}
		case hasLower && g.escalate:
			ids := playerIDs(remaining)
			g.observer.GroupEscalated(w, ids)
			escalatedFrom = append(escalatedFrom, w)
			next := make([]models.Standing, 0, len(remaining)+len(carried))
			next = append(next, remaining...)
			carried = append(next, carried...)
		default:
			ids := playerIDs(remaining)
			g.observer.GroupExhausted(w, ids, attempts)
			return nil, &PairingExhaustedError{Wins: w, Unpaired: ids, Attempts: attempts, EscalatedFrom: escalatedFrom}
		}
	}
	return pairings, nil
}

// pairGroup runs the Selecting/Committed/Exhausted machine over pool. It
// returns the committed pairings, the members left unpaired and the number of
// rejected draws since the last commit.
func (g *SwissGenerator) pairGroup(wins int, pool []models.Standing, history History) ([]models.Pairing, []models.Standing, int) {
	var pairings []models.Pairing
	remaining := pool
	retries := 0
	state := stateSelecting

	for len(remaining) >= 2 {
		switch state {
		case stateSelecting:
			i, j := drawTwo(g.source, len(remaining))
			a, b := remaining[i], remaining[j]
			if history.HasPlayed(a.PlayerID, b.PlayerID) {
				retries++
				g.observer.RematchRejected(wins, a.PlayerID, b.PlayerID, retries)
				if retries >= g.retryLimit {
					state = stateExhausted
				}
				continue
			}
			p := newPairing(a, b)
			pairings = append(pairings, p)
			remaining = removeTwo(remaining, i, j)
			g.observer.PairCommitted(wins, p)
			state = stateCommitted

		case stateCommitted:
			retries = 0
			state = stateSelecting

		case stateExhausted:
			return pairings, remaining, retries
		}
	}
	return pairings, remaining, retries
}

// drawTwo picks two distinct indexes in [0, n) uniformly; the lower index is
// returned first so the higher ranked player takes seat A.
func drawTwo(src Source, n int) (int, int) {
	i := src.Intn(n)
	j := src.Intn(n - 1)
	if j >= i {
		j++
	}
	if j < i {
		i, j = j, i
	}
	return i, j
}

// removeTwo returns rows without positions i and j (i < j), keeping order.
func removeTwo(rows []models.Standing, i, j int) []models.Standing {
	out := make([]models.Standing, 0, len(rows)-2)
	out = append(out, rows[:i]...)
	out = append(out, rows[i+1:j]...)
	out = append(out, rows[j+1:]...)
	return out
}
