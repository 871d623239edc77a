package services

import (
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
)

// pairingObserver turns engine events into debug logs and counters.
type pairingObserver struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ brackets.Observer = (*pairingObserver)(nil)

func newPairingObserver(logger *slog.Logger, m *metrics.Metrics) *pairingObserver {
	return &pairingObserver{logger: logger, metrics: m}
}

func (o *pairingObserver) GroupStarted(wins int, playerIDs []int) {
	o.logger.Debug("pairing rank group", slog.Int("wins", wins), slog.Any("players", playerIDs))
}

func (o *pairingObserver) PlayerDeferred(fromWins int, playerID int) {
	o.logger.Debug("odd group, player moves down", slog.Int("wins", fromWins), slog.Int("player_id", playerID))
}

func (o *pairingObserver) RematchRejected(wins int, playerA, playerB int, attempt int) {
	o.metrics.RematchRejected()
	o.logger.Debug("rematch rejected",
		slog.Int("wins", wins), slog.Int("player_a", playerA), slog.Int("player_b", playerB), slog.Int("attempt", attempt))
}

func (o *pairingObserver) PairCommitted(wins int, p models.Pairing) {
	o.logger.Debug("pair committed", slog.Int("wins", wins), slog.Int("player_a", p.PlayerAID), slog.Int("player_b", p.PlayerBID))
}

func (o *pairingObserver) GroupEscalated(fromWins int, playerIDs []int) {
	o.metrics.GroupEscalated()
	o.logger.Info("rank group escalated", slog.Int("wins", fromWins), slog.Any("players", playerIDs))
}

func (o *pairingObserver) GroupExhausted(wins int, playerIDs []int, attempts int) {
	o.logger.Warn("rank group exhausted", slog.Int("wins", wins), slog.Any("players", playerIDs), slog.Int("attempts", attempts))
}
