package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/repositories"
)

var (
	// ErrInvalidInput is returned before any storage access when arguments
	// cannot describe a valid operation.
	ErrInvalidInput = errors.New("invalid input")

	ErrPlayerNameRequired = errors.New("player name is required")
	ErrPlayerNameTooLong  = errors.New("player name is too long")
	ErrSelfMatch          = errors.New("a player cannot play against themselves")
	ErrInvalidPlayerID    = errors.New("player ids must be positive")

	ErrMatchAlreadyPlayed = errors.New("these players have already played each other")
	ErrUnknownPlayer      = errors.New("player not found")
	ErrPlayersReferenced  = errors.New("players still have recorded matches")

	ErrPairingFailed = errors.New("failed to compute pairings")
)

func invalidInput(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, reason)
}

// handleRepositoryError translates storage sentinels into service errors.
// Anything unknown is wrapped with the operation name.
func handleRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchAlreadyPlayed):
		return ErrMatchAlreadyPlayed
	case errors.Is(err, repositories.ErrMatchPlayerInvalid), errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrUnknownPlayer
	case errors.Is(err, repositories.ErrMatchInvalid):
		return invalidInput(err)
	case errors.Is(err, repositories.ErrPlayerNameInvalid):
		return invalidInput(ErrPlayerNameRequired)
	case errors.Is(err, repositories.ErrPlayersReferenced):
		return ErrPlayersReferenced
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
