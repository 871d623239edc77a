package models

// Standing is a derived row of the standings table. It is never stored.
type Standing struct {
	PlayerID int    `json:"id"`
	Name     string `json:"name"`
	Wins     int    `json:"wins"`
	Matches  int    `json:"matches"`
}
