package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/live"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type MatchService interface {
	// Report records a decided match. The unordered pair may be reported
	// only once.
	Report(ctx context.Context, winnerID, loserID int) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type matchService struct {
	tx        repositories.Transactor
	matchRepo repositories.MatchRepository
	events    EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	events EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		events:    publisherOrNop(events),
		metrics:   m,
		logger:    logger.With(slog.String("service", "matches")),
	}
}

func validateReport(winnerID, loserID int) error {
	if winnerID <= 0 || loserID <= 0 {
		return invalidInput(ErrInvalidPlayerID)
	}
	if winnerID == loserID {
		return invalidInput(ErrSelfMatch)
	}
	return nil
}

func (s *matchService) Report(ctx context.Context, winnerID, loserID int) (*models.Match, error) {
	if err := validateReport(winnerID, loserID); err != nil {
		s.metrics.MatchReported(metrics.OutcomeInvalid)
		return nil, err
	}

	match := &models.Match{PlayerA: winnerID, PlayerB: loserID, WinnerID: winnerID}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		played, err := s.matchRepo.HasPlayed(ctx, exec, winnerID, loserID)
		if err != nil {
			return err
		}
		if played {
			return repositories.ErrMatchAlreadyPlayed
		}
		return s.matchRepo.Create(ctx, exec, match)
	})
	if err != nil {
		err = handleRepositoryError(err, "report match")
		s.metrics.MatchReported(reportOutcome(err))
		s.logger.WarnContext(ctx, "match report rejected",
			slog.Int("winner_id", winnerID), slog.Int("loser_id", loserID), slog.Any("error", err))
		return nil, err
	}

	s.metrics.MatchReported(metrics.OutcomeOK)
	s.events.Publish(live.EventMatchReported, match)
	s.logger.InfoContext(ctx, "match reported",
		slog.Int("match_id", match.ID), slog.Int("winner_id", winnerID), slog.Int("loser_id", loserID))
	return match, nil
}

func reportOutcome(err error) string {
	switch {
	case errors.Is(err, ErrMatchAlreadyPlayed):
		return metrics.OutcomeDuplicate
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownPlayer):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func (s *matchService) List(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "list matches")
	}
	return matches, nil
}

func (s *matchService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.matchRepo.DeleteAll(ctx, nil)
	if err != nil {
		return 0, handleRepositoryError(err, "delete matches")
	}
	s.events.Publish(live.EventReset, map[string]int64{"matches_deleted": n})
	s.logger.InfoContext(ctx, "matches deleted", slog.Int64("matches", n))
	return n, nil
}
