package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrMatchAlreadyPlayed = errors.New("these players have already played each other")
	ErrMatchPlayerInvalid = errors.New("match references an unknown player")
	ErrMatchInvalid       = errors.New("match violates constraints")
)

const (
	matchPairUniqueConstraint      = "matches_pair_uniq"
	matchDistinctPlayersConstraint = "matches_distinct_players"
	matchWinnerInPairConstraint    = "matches_winner_in_pair"
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	List(ctx context.Context, exec SQLExecutor) ([]*models.Match, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	HasPlayed(ctx context.Context, exec SQLExecutor, playerA, playerB int) (bool, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (player_a, player_b, winner)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, match.PlayerA, match.PlayerB, match.WinnerID).
		Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err, "create match")
	}
	return nil
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Match, error) {
	query := `SELECT id, player_a, player_b, winner, created_at FROM matches ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.PlayerA, &m.PlayerB, &m.WinnerID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var count int
	if err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// HasPlayed reports whether the unordered pair already has a recorded match.
func (r *postgresMatchRepository) HasPlayed(ctx context.Context, exec SQLExecutor, playerA, playerB int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE LEAST(player_a, player_b) = LEAST($1::int, $2::int)
			  AND GREATEST(player_a, player_b) = GREATEST($1::int, $2::int)
		)`

	var played bool
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, playerA, playerB).Scan(&played); err != nil {
		return false, fmt.Errorf("failed to check match history for %d-%d: %w", playerA, playerB, err)
	}
	return played, nil
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresMatchRepository) handleMatchError(err error, op string) error {
	pqErr, ok := asPQError(err)
	if !ok {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		if pqErr.Constraint == matchPairUniqueConstraint {
			return ErrMatchAlreadyPlayed
		}
	case pqForeignKeyViolation:
		return ErrMatchPlayerInvalid
	case pqCheckViolation:
		switch pqErr.Constraint {
		case matchDistinctPlayersConstraint, matchWinnerInPairConstraint:
			return ErrMatchInvalid
		}
	}
	return fmt.Errorf("failed to %s: database error %s (%s): %w", op, pqErr.Code, pqErr.Constraint, err)
}
