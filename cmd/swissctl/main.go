package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "swissctl",
		Usage: "administer a Swiss-system tournament",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			simulateCommand(),
			tokenCommand(),
		},
	}
}

func newLogger(c *cli.Context, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

var databaseFlag = &cli.StringFlag{
	Name:     "database-url",
	Usage:    "Postgres DSN",
	EnvVars:  []string{"DATABASE_URL"},
	Required: true,
}

func openDB(c *cli.Context, logger *slog.Logger) (*sql.DB, error) {
	return db.Connect(c.String("database-url"), 5*time.Second, db.DefaultPool, logger)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Flags: []cli.Flag{databaseFlag},
				Action: func(c *cli.Context) error {
					logger, err := newLogger(c, os.Stderr)
					if err != nil {
						return err
					}
					conn, err := openDB(c, logger)
					if err != nil {
						return err
					}
					defer conn.Close()

					n, err := db.Migrate(c.Context, conn)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "applied %d migrations\n", n)
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					databaseFlag,
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "how many migrations to revert, 0 for all"},
				},
				Action: func(c *cli.Context) error {
					logger, err := newLogger(c, os.Stderr)
					if err != nil {
						return err
					}
					conn, err := openDB(c, logger)
					if err != nil {
						return err
					}
					defer conn.Close()

					n, err := db.Rollback(c.Context, conn, c.Int("steps"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "reverted %d migrations\n", n)
					return nil
				},
			},
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "register fake players and play a full tournament",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "players", Value: 16},
			&cli.Int64Flag{Name: "seed", Value: time.Now().UnixNano()},
			&cli.IntFlag{Name: "tries", Value: 5, Usage: "seeds a round may consume before giving up"},
			&cli.StringFlag{Name: "strategy", Value: brackets.StrategySwiss, EnvVars: []string{"PAIRING_STRATEGY"}},
			&cli.IntFlag{Name: "retry-limit", Value: brackets.DefaultRetryLimit, EnvVars: []string{"PAIRING_RETRY_LIMIT"}},
			&cli.BoolFlag{Name: "escalation", Value: true, EnvVars: []string{"PAIRING_ESCALATION"}},
			&cli.StringFlag{Name: "database-url", Usage: "play against Postgres instead of memory", EnvVars: []string{"SIMULATE_DATABASE_URL"}},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c, os.Stderr)
			if err != nil {
				return err
			}

			var (
				tx         repositories.Transactor
				playerRepo repositories.PlayerRepository
				matchRepo  repositories.MatchRepository
			)
			if c.String("database-url") != "" {
				conn, err := openDB(c, logger)
				if err != nil {
					return err
				}
				defer conn.Close()
				if _, err := db.Migrate(c.Context, conn); err != nil {
					return err
				}
				tx = repositories.NewPostgresTransactor(conn, logger)
				playerRepo = repositories.NewPostgresPlayerRepository(conn)
				matchRepo = repositories.NewPostgresMatchRepository(conn)
			} else {
				store := repositories.NewMemoryStore()
				tx, playerRepo, matchRepo = store.Transactor(), store.Players(), store.Matches()
			}

			svc, err := buildServices(tx, playerRepo, matchRepo, services.PairingSettings{
				Strategy:   c.String("strategy"),
				RetryLimit: c.Int("retry-limit"),
				Escalation: c.Bool("escalation"),
			}, logger)
			if err != nil {
				return err
			}

			result, err := runSimulation(c.Context, svc, simulationOptions{
				Players: c.Int("players"),
				Seed:    c.Int64("seed"),
				Tries:   c.Int("tries"),
			}, logger)
			if err != nil {
				return err
			}
			return printResult(c.App.Writer, result)
		},
	}
}

func buildServices(
	tx repositories.Transactor,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	settings services.PairingSettings,
	logger *slog.Logger,
) (tournamentServices, error) {
	m := metrics.New()
	pairings, err := services.NewPairingService(playerRepo, matchRepo, settings, nil, nil, m, logger)
	if err != nil {
		return tournamentServices{}, err
	}
	return tournamentServices{
		players:   services.NewPlayerService(tx, playerRepo, matchRepo, nil, m, logger),
		matches:   services.NewMatchService(tx, matchRepo, nil, m, logger),
		standings: services.NewStandingsService(playerRepo, matchRepo, logger),
		pairings:  pairings,
	}, nil
}

func printResult(w io.Writer, result *simulationResult) error {
	for _, r := range result.Rounds {
		fmt.Fprintf(w, "round %d (seed %d)\n", r.Number, r.Seed)
		for _, p := range r.Pairings {
			fmt.Fprintf(w, "  %s def. %s\n", p.PlayerAName, p.PlayerBName)
		}
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tWINS\tMATCHES")
	for i, s := range result.Standings {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\n", i+1, s.PlayerID, s.Name, s.Wins, s.Matches)
	}
	return tw.Flush()
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for the mutating API routes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET_KEY"}, Required: true},
			&cli.StringFlag{Name: "subject", Value: "organizer"},
			&cli.StringFlag{Name: "role", Value: middleware.RoleOrganizer},
			&cli.DurationFlag{Name: "ttl", Value: 12 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			token, err := middleware.IssueToken([]byte(c.String("secret")), c.String("subject"), c.String("role"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
