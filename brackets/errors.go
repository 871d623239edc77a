package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrPairingExhausted = errors.New("no valid pairing found within the retry budget")
	ErrOddPlayerCount   = errors.New("odd number of players: one player is left without an opponent")
	ErrUnknownStrategy  = errors.New("unknown pairing strategy")
)

// PairingExhaustedError reports the rank group that could not be paired.
// EscalatedFrom lists, highest first, the win counts of the groups whose
// unpaired members were escalated into that group.
type PairingExhaustedError struct {
	Wins          int
	Unpaired      []int
	Attempts      int
	EscalatedFrom []int
}

func (e *PairingExhaustedError) Error() string {
	msg := fmt.Sprintf("%v: rank group with %d wins, %d rejected draws, unpaired players %v",
		ErrPairingExhausted, e.Wins, e.Attempts, e.Unpaired)
	if len(e.EscalatedFrom) > 0 {
		msg += fmt.Sprintf(", escalated from groups with %v wins", e.EscalatedFrom)
	}
	return msg
}

func (e *PairingExhaustedError) Is(target error) bool {
	return target == ErrPairingExhausted
}

// UnpairedPlayerError is returned when a single player remains after the
// lowest rank group was processed.
type UnpairedPlayerError struct {
	Wins     int
	PlayerID int
}

func (e *UnpairedPlayerError) Error() string {
	return fmt.Sprintf("%v: player %d (%d wins)", ErrOddPlayerCount, e.PlayerID, e.Wins)
}

func (e *UnpairedPlayerError) Is(target error) bool {
	return target == ErrOddPlayerCount
}
