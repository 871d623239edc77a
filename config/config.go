package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/storage"
)

var (
	ErrDatabaseURLMissing = errors.New("DATABASE_URL environment variable is not set")
	ErrJWTSecretMissing   = errors.New("JWT_SECRET_KEY environment variable is not set")
)

type PairingConfig struct {
	Strategy   string
	RetryLimit int
	Escalation bool
}

type Config struct {
	DatabaseURL        string
	JWTSecretKey       string
	ServerPort         int
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	Pairing            PairingConfig
	R2                 storage.R2Config
	ArchivePrefix      string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present and never overrides
// variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, ErrDatabaseURLMissing
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, ErrJWTSecretMissing
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	pairing, err := loadPairing()
	if err != nil {
		return nil, err
	}

	r2 := storage.R2Config{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	prefix := os.Getenv("ARCHIVE_PREFIX")
	if prefix == "" {
		prefix = "rounds/"
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		LogLevel:           level,
		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Pairing:            pairing,
		R2:                 r2,
		ArchivePrefix:      prefix,
	}

	return cfg, nil
}

func loadPairing() (PairingConfig, error) {
	strategy := strings.ToLower(strings.TrimSpace(os.Getenv("PAIRING_STRATEGY")))
	switch strategy {
	case "":
		strategy = brackets.StrategySwiss
	case brackets.StrategySwiss, brackets.StrategyAdjacent:
	default:
		return PairingConfig{}, fmt.Errorf("invalid PAIRING_STRATEGY %q: %w", strategy, brackets.ErrUnknownStrategy)
	}

	limit, err := intEnv("PAIRING_RETRY_LIMIT", brackets.DefaultRetryLimit)
	if err != nil {
		return PairingConfig{}, err
	}
	if limit < 1 {
		return PairingConfig{}, fmt.Errorf("PAIRING_RETRY_LIMIT must be positive, got %d", limit)
	}

	escalation := true
	if v := os.Getenv("PAIRING_ESCALATION"); v != "" {
		escalation, err = strconv.ParseBool(v)
		if err != nil {
			return PairingConfig{}, fmt.Errorf("invalid PAIRING_ESCALATION: %w", err)
		}
	}

	return PairingConfig{Strategy: strategy, RetryLimit: limit, Escalation: escalation}, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
