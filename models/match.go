package models

import "time"

// Match is an append-only record of a decided game between two players.
// The pair (PlayerA, PlayerB) is unordered; WinnerID is always one of them.
type Match struct {
	ID        int       `json:"id" db:"id"`
	PlayerA   int       `json:"player_a" db:"player_a"`
	PlayerB   int       `json:"player_b" db:"player_b"`
	WinnerID  int       `json:"winner_id" db:"winner"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LoserID returns the player of the pair that did not win.
func (m Match) LoserID() int {
	if m.WinnerID == m.PlayerA {
		return m.PlayerB
	}
	return m.PlayerA
}

// Involves reports whether the player took a seat in the match.
func (m Match) Involves(playerID int) bool {
	return m.PlayerA == playerID || m.PlayerB == playerID
}
