package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

type simulationOptions struct {
	Players int
	Seed    int64
	// Tries bounds how many seeds a single round may consume.
	Tries int
}

type simulationResult struct {
	Rounds    []*models.Round
	Standings []models.Standing
}

type tournamentServices struct {
	players   services.PlayerService
	matches   services.MatchService
	standings services.StandingsService
	pairings  services.PairingService
}

// roundsFor returns floor(log2(n)), the number of rounds needed to leave a
// single undefeated player when n is a power of two.
func roundsFor(n int) int {
	if n < 2 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}

// runSimulation registers fake players and plays every round, reporting the
// first player of each pairing as the winner. A round that cannot be paired
// is retried with the next seed.
func runSimulation(ctx context.Context, svc tournamentServices, opts simulationOptions, logger *slog.Logger) (*simulationResult, error) {
	if opts.Players < 2 || opts.Players%2 != 0 {
		return nil, fmt.Errorf("%w: simulation needs an even number of players, got %d", services.ErrInvalidInput, opts.Players)
	}
	if opts.Tries < 1 {
		opts.Tries = 1
	}

	faker := gofakeit.New(uint64(opts.Seed))
	for i := 0; i < opts.Players; i++ {
		if _, err := svc.players.Register(ctx, faker.Name()); err != nil {
			return nil, err
		}
	}

	result := &simulationResult{}
	seed := opts.Seed
	for n := 1; n <= roundsFor(opts.Players); n++ {
		var round *models.Round
		var err error
		for try := 1; try <= opts.Tries; try++ {
			s := seed
			seed++
			round, err = svc.pairings.NextRound(ctx, services.PairingRequest{Seed: &s})
			if err == nil {
				break
			}
			if !errors.Is(err, services.ErrPairingFailed) {
				return nil, err
			}
			logger.Warn("round could not be paired, retrying", slog.Int("round", n), slog.Int("try", try), slog.Any("error", err))
		}
		if err != nil {
			return nil, fmt.Errorf("round %d: gave up after %d tries: %w", n, opts.Tries, err)
		}

		for _, p := range round.Pairings {
			if _, err := svc.matches.Report(ctx, p.PlayerAID, p.PlayerBID); err != nil {
				return nil, fmt.Errorf("round %d: %w", n, err)
			}
		}
		result.Rounds = append(result.Rounds, round)
	}

	standings, err := svc.standings.Standings(ctx)
	if err != nil {
		return nil, err
	}
	result.Standings = standings
	return result, nil
}
