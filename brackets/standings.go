package brackets

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

// ComputeStandings derives one row per registered player from the match log.
// Rows are ordered by wins descending; equal wins keep registration order
// (ascending player id), which keeps pairing deterministic for a fixed seed.
// Matches referencing unknown players are ignored.
func ComputeStandings(players []models.Player, matches []models.Match) []models.Standing {
	ordered := make([]models.Player, len(players))
	copy(ordered, players)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	standings := make([]models.Standing, len(ordered))
	index := make(map[int]int, len(ordered))
	for i, p := range ordered {
		standings[i] = models.Standing{PlayerID: p.ID, Name: p.Name}
		index[p.ID] = i
	}

	for _, m := range matches {
		if i, ok := index[m.PlayerA]; ok {
			standings[i].Matches++
		}
		if i, ok := index[m.PlayerB]; ok {
			standings[i].Matches++
		}
		if i, ok := index[m.WinnerID]; ok {
			standings[i].Wins++
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Wins > standings[j].Wins
	})
	return standings
}
