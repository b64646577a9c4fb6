package config

import (
	"fmt"
	"os"
	"strings"

	"xsweep/utils"
)

// Queue backend identifiers accepted in QUEUE_BACKEND.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	ScreenName        string

	Mode   string
	DryRun bool

	DeleteBatchSize int
	PageSize        int
	RetrieveCap     int

	QueueBackend string
	QueuePath    string
	MarkerPath   string

	RedisAddr    string
	PostgresConn string

	PushgatewayURL string
	LogLevel       string
}

// FromEnv builds the configuration from environment variables. The four
// OAuth credentials and the target screen name are required; everything
// else has a default.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ConsumerKey:       os.Getenv("CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("CONSUMER_SECRET"),
		AccessToken:       os.Getenv("ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		ScreenName:        os.Getenv("TWITTER_SCREEN_NAME"),

		Mode:   getenvDefault("MODE", "auto"),
		DryRun: utils.BoolFromString(os.Getenv("DRY_RUN"), false),

		DeleteBatchSize: utils.IntFromString(os.Getenv("DELETE_BATCH_SIZE"), 17),
		PageSize:        utils.IntFromString(os.Getenv("PAGE_SIZE"), 100),
		RetrieveCap:     utils.IntFromString(os.Getenv("RETRIEVE_CAP"), 3200),

		QueueBackend: getenvDefault("QUEUE_BACKEND", BackendFile),
		QueuePath:    getenvDefault("QUEUE_PATH", "pending_posts.json"),
		MarkerPath:   getenvDefault("MARKER_PATH", "last_run.txt"),

		RedisAddr: fmt.Sprintf(
			"%s:%s",
			getenvDefault("REDIS_HOST", "localhost"),
			getenvDefault("REDIS_PORT", "6379"),
		),
		PostgresConn: fmt.Sprintf(
			"user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			getenvDefault("DB_NAME", "xsweep"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
		),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
	}

	var missing []string
	for _, required := range []struct {
		name  string
		value string
	}{
		{"CONSUMER_KEY", cfg.ConsumerKey},
		{"CONSUMER_SECRET", cfg.ConsumerSecret},
		{"ACCESS_TOKEN", cfg.AccessToken},
		{"ACCESS_TOKEN_SECRET", cfg.AccessTokenSecret},
		{"TWITTER_SCREEN_NAME", cfg.ScreenName},
	} {
		if required.value == "" {
			missing = append(missing, required.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getenvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
