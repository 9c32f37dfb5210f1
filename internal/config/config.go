// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything read from the environment (or a .env file loaded by
// godotenv/autoload in the binaries).
type Config struct {
	LogLevel string

	// HistoryFile is the append-only text log of finished games.
	HistoryFile string
	// Seed fixes the shuffle; 0 means a new random deck every game.
	Seed int64
	// PlayerCountAttempts bounds the retries for the player count at startup.
	PlayerCountAttempts int
	NoColor             bool

	// RedisAddr enables publishing summaries to the historian queue when set.
	RedisAddr string
	RedisDB   int
	QueueName string

	// DatabaseURL enables writing summaries straight to Postgres when set.
	DatabaseURL string

	HistorianAddr      string
	HistorianBatchSize int
	HistorianFlush     time.Duration
	// AllowedOrigins restricts CORS on the historian API. Empty allows any origin.
	AllowedOrigins []string
}

// Load reads the configuration. Unset variables take their defaults; malformed numbers
// are an error.
func Load() (*Config, error) {
	c := &Config{
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
		HistoryFile:   getEnv("COLORTRICK_HISTORY_FILE", "history.txt"),
		NoColor:       os.Getenv("NO_COLOR") != "",
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		QueueName:     getEnv("HISTORIAN_QUEUE_NAME", "colortrick_games"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HistorianAddr: getEnv("HISTORIAN_ADDR", ":8081"),
	}

	var err error
	if c.Seed, err = getEnvInt64("COLORTRICK_SEED", 0); err != nil {
		return nil, err
	}
	if c.PlayerCountAttempts, err = getEnvInt("COLORTRICK_PLAYER_COUNT_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if c.PlayerCountAttempts < 1 {
		return nil, fmt.Errorf("COLORTRICK_PLAYER_COUNT_ATTEMPTS must be at least 1, got %d", c.PlayerCountAttempts)
	}
	if c.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if c.HistorianBatchSize, err = getEnvInt("HISTORIAN_BATCH_SIZE", 20); err != nil {
		return nil, err
	}
	flushMs, err := getEnvInt("HISTORIAN_FLUSH_MS", 500)
	if err != nil {
		return nil, err
	}
	if flushMs < 1 {
		return nil, fmt.Errorf("HISTORIAN_FLUSH_MS must be at least 1, got %d", flushMs)
	}
	c.HistorianFlush = time.Duration(flushMs) * time.Millisecond

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return c, nil
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvInt64(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
