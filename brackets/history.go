package brackets

import "github.com/Dosada05/swiss-tournament/models"

// History answers whether two players have already met.
type History interface {
	HasPlayed(a, b int) bool
}

type pairKey struct {
	low, high int
}

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// MatchHistory is an in-memory set of unordered player pairs built from
// the recorded matches of a tournament.
type MatchHistory struct {
	played map[pairKey]struct{}
}

func NewMatchHistory(matches []models.Match) *MatchHistory {
	h := &MatchHistory{played: make(map[pairKey]struct{}, len(matches))}
	for _, m := range matches {
		h.Record(m.PlayerA, m.PlayerB)
	}
	return h
}

// Record adds the pair and reports whether it was new.
func (h *MatchHistory) Record(a, b int) bool {
	key := newPairKey(a, b)
	if _, ok := h.played[key]; ok {
		return false
	}
	h.played[key] = struct{}{}
	return true
}

func (h *MatchHistory) HasPlayed(a, b int) bool {
	_, ok := h.played[newPairKey(a, b)]
	return ok
}

func (h *MatchHistory) Len() int {
	return len(h.played)
}
