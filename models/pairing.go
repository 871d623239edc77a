package models

import "time"

// Pairing is one match to be played in the next round.
type Pairing struct {
	PlayerAID   int    `json:"player_a_id"`
	PlayerAName string `json:"player_a_name"`
	PlayerBID   int    `json:"player_b_id"`
	PlayerBName string `json:"player_b_name"`
}

// Round groups the pairings computed for one round together with the
// seed that produced them, so a round can be regenerated exactly.
type Round struct {
	Number      int       `json:"number"`
	Seed        int64     `json:"seed"`
	Strategy    string    `json:"strategy"`
	Pairings    []Pairing `json:"pairings"`
	GeneratedAt time.Time `json:"generated_at"`
	ArchiveURL  *string   `json:"archive_url,omitempty"`
}
