package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/live"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// RoundArchiver persists a published round and returns where it lives.
// *storage.RoundArchiver satisfies it.
type RoundArchiver interface {
	Archive(ctx context.Context, round *models.Round) (string, error)
}

type PairingSettings struct {
	Strategy   string
	RetryLimit int
	Escalation bool
}

type PairingRequest struct {
	// Seed makes the round reproducible. A nil seed is drawn from the clock.
	Seed *int64
}

type PairingService interface {
	NextRound(ctx context.Context, req PairingRequest) (*models.Round, error)
}

type pairingService struct {
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	settings   PairingSettings
	archiver   RoundArchiver
	events     EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	// mu serializes reading the standings with computing a round from them.
	mu       sync.Mutex
	seedFunc func() int64
	now      func() time.Time
}

// NewPairingService validates the strategy eagerly. archiver may be nil.
func NewPairingService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	settings PairingSettings,
	archiver RoundArchiver,
	events EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) (PairingService, error) {
	if settings.Strategy == "" {
		settings.Strategy = brackets.StrategySwiss
	}
	if _, err := brackets.NewGenerator(settings.Strategy); err != nil {
		return nil, err
	}
	return &pairingService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		settings:   settings,
		archiver:   archiver,
		events:     publisherOrNop(events),
		metrics:    m,
		logger:     logger.With(slog.String("service", "pairings")),
		seedFunc:   func() int64 { return time.Now().UnixNano() },
		now:        time.Now,
	}, nil
}

func (s *pairingService) generator(seed int64) (brackets.PairingGenerator, error) {
	return brackets.NewGenerator(s.settings.Strategy,
		brackets.WithSeed(seed),
		brackets.WithRetryLimit(s.settings.RetryLimit),
		brackets.WithEscalation(s.settings.Escalation),
		brackets.WithObserver(newPairingObserver(s.logger, s.metrics)),
	)
}

func (s *pairingService) NextRound(ctx context.Context, req PairingRequest) (*models.Round, error) {
	seed := s.seedFunc()
	if req.Seed != nil {
		seed = *req.Seed
	}

	s.mu.Lock()
	start := time.Now()
	round, err := s.computeRound(ctx, seed)
	s.metrics.ObservePairing(s.settings.Strategy, pairingOutcome(err), time.Since(start))
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "pairing failed", slog.Int64("seed", seed), slog.Any("error", err))
		return nil, err
	}

	if s.archiver != nil {
		location, archErr := s.archiver.Archive(ctx, round)
		if archErr != nil {
			s.logger.ErrorContext(ctx, "failed to archive round", slog.Int("round", round.Number), slog.Any("error", archErr))
		} else {
			round.ArchiveURL = &location
		}
	}

	s.events.Publish(live.EventPairingsPublished, round)
	s.logger.InfoContext(ctx, "round paired",
		slog.Int("round", round.Number), slog.Int64("seed", seed), slog.Int("pairings", len(round.Pairings)))
	return round, nil
}

func (s *pairingService) computeRound(ctx context.Context, seed int64) (*models.Round, error) {
	snap, err := loadSnapshot(ctx, s.playerRepo, s.matchRepo)
	if err != nil {
		return nil, err
	}
	standings := brackets.ComputeStandings(snap.players, snap.matches)

	gen, err := s.generator(seed)
	if err != nil {
		return nil, err
	}
	pairings, err := gen.GeneratePairings(ctx, brackets.GeneratePairingsParams{
		Standings: standings,
		History:   brackets.NewMatchHistory(snap.matches),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPairingFailed, err)
	}

	played := lo.MaxBy(standings, func(a, b models.Standing) bool { return a.Matches > b.Matches })
	return &models.Round{
		Number:      played.Matches + 1,
		Seed:        seed,
		Strategy:    gen.GetName(),
		Pairings:    pairings,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func pairingOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, brackets.ErrPairingExhausted):
		return metrics.OutcomeExhausted
	case errors.Is(err, brackets.ErrOddPlayerCount):
		return metrics.OutcomeOdd
	default:
		return metrics.OutcomeError
	}
}
