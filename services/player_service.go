package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/swiss-tournament/live"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

const maxPlayerNameLength = 200

type PlayerService interface {
	Register(ctx context.Context, name string) (*models.Player, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.Player, error)
	// DeleteAll removes every player. Without cascade it fails with
	// ErrPlayersReferenced while matches exist.
	DeleteAll(ctx context.Context, cascade bool) (int64, error)
}

type playerService struct {
	tx         repositories.Transactor
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	events     EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewPlayerService(
	tx repositories.Transactor,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	events EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		tx:         tx,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		events:     publisherOrNop(events),
		metrics:    m,
		logger:     logger.With(slog.String("service", "players")),
	}
}

func (s *playerService) Register(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput(ErrPlayerNameRequired)
	}
	if utf8.RuneCountInString(name) > maxPlayerNameLength {
		return nil, invalidInput(ErrPlayerNameTooLong)
	}

	player := &models.Player{Name: name}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, handleRepositoryError(err, "register player")
	}

	s.metrics.PlayerRegistered()
	s.events.Publish(live.EventPlayerRegistered, player)
	s.logger.InfoContext(ctx, "player registered", slog.Int("player_id", player.ID), slog.String("name", player.Name))
	return player, nil
}

func (s *playerService) Count(ctx context.Context) (int, error) {
	n, err := s.playerRepo.Count(ctx, nil)
	if err != nil {
		return 0, handleRepositoryError(err, "count players")
	}
	return n, nil
}

func (s *playerService) List(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "list players")
	}
	return players, nil
}

func (s *playerService) DeleteAll(ctx context.Context, cascade bool) (int64, error) {
	var deleted, matchesDeleted int64
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if cascade {
			n, err := s.matchRepo.DeleteAll(ctx, exec)
			if err != nil {
				return err
			}
			matchesDeleted = n
		}
		n, err := s.playerRepo.DeleteAll(ctx, exec)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, handleRepositoryError(err, "delete players")
	}

	s.events.Publish(live.EventReset, map[string]int64{"players_deleted": deleted, "matches_deleted": matchesDeleted})
	s.logger.InfoContext(ctx, "players deleted",
		slog.Int64("players", deleted), slog.Int64("matches", matchesDeleted), slog.Bool("cascade", cascade))
	return deleted, nil
}
