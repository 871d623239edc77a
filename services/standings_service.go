package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type StandingsService interface {
	Standings(ctx context.Context) ([]models.Standing, error)
}

type standingsService struct {
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	logger     *slog.Logger
}

func NewStandingsService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		logger:     logger.With(slog.String("service", "standings")),
	}
}

// tournamentSnapshot holds everything a standings table or a round is
// derived from.
type tournamentSnapshot struct {
	players []models.Player
	matches []models.Match
}

// loadSnapshot reads players and matches concurrently.
func loadSnapshot(
	ctx context.Context,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
) (*tournamentSnapshot, error) {
	var players []*models.Player
	var matches []*models.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = playerRepo.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = matchRepo.List(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load tournament state")
	}

	return &tournamentSnapshot{
		players: lo.Map(players, func(p *models.Player, _ int) models.Player { return *p }),
		matches: lo.Map(matches, func(m *models.Match, _ int) models.Match { return *m }),
	}, nil
}

func (s *standingsService) Standings(ctx context.Context) ([]models.Standing, error) {
	snap, err := loadSnapshot(ctx, s.playerRepo, s.matchRepo)
	if err != nil {
		return nil, err
	}
	return brackets.ComputeStandings(snap.players, snap.matches), nil
}
