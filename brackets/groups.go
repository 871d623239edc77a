package brackets

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Dosada05/swiss-tournament/models"
)

// RankGroups maps a win count to the standings rows sharing it, in
// standings order. Win counts nobody has are absent.
type RankGroups map[int][]models.Standing

func GroupByWins(standings []models.Standing) RankGroups {
	groups := make(RankGroups)
	for _, row := range standings {
		groups[row.Wins] = append(groups[row.Wins], row)
	}
	return groups
}

// Wins returns the win counts present, highest first.
func (g RankGroups) Wins() []int {
	wins := lo.Keys(g)
	sort.Sort(sort.Reverse(sort.IntSlice(wins)))
	return wins
}

// Size is the total number of players across all groups.
func (g RankGroups) Size() int {
	return lo.SumBy(lo.Values(g), func(rows []models.Standing) int { return len(rows) })
}
