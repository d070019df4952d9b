package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	DatabaseURL    string
	DatabaseDriver string
	JWTSecretKey   string
	ServerPort     int

	SleeperBaseURL    string
	SleeperRPS        float64
	LeagueIDs         []string
	SyncInterval      time.Duration
	UpsertBatchSize   int
	LeagueConcurrency int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string
}

// Load reads the configuration from environment variables, loading a .env file first
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rps := 10.0
	if v := os.Getenv("SLEEPER_RPS"); v != "" {
		rps, err = strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid SLEEPER_RPS %q: must be a positive number", v)
		}
	}

	syncInterval := 15 * time.Minute
	if v := os.Getenv("SYNC_INTERVAL"); v != "" {
		syncInterval, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL environment variable: %w", err)
		}
		if syncInterval <= 0 {
			return nil, fmt.Errorf("SYNC_INTERVAL must be positive, got %s", syncInterval)
		}
	}

	batchSize, err := intEnv("UPSERT_BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("UPSERT_BATCH_SIZE must be positive, got %d", batchSize)
	}

	leagueConcurrency, err := intEnv("LEAGUE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if leagueConcurrency <= 0 {
		return nil, fmt.Errorf("LEAGUE_CONCURRENCY must be positive, got %d", leagueConcurrency)
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		DatabaseDriver:    os.Getenv("DB_DRIVER"),
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		SleeperBaseURL:    os.Getenv("SLEEPER_BASE_URL"),
		SleeperRPS:        rps,
		LeagueIDs:         ParseLeagueIDs(os.Getenv("LEAGUE_IDS")),
		SyncInterval:      syncInterval,
		UpsertBatchSize:   batchSize,
		LeagueConcurrency: leagueConcurrency,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:        os.Getenv("R2_ENDPOINT"),
	}

	return cfg, nil
}

// ParseLeagueIDs splits a comma separated list, dropping blanks and duplicates.
func ParseLeagueIDs(raw string) []string {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
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
