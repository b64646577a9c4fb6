package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"xsweep/config"
	"xsweep/monitoring"
	"xsweep/storage"
	"xsweep/tasks"
	"xsweep/twitter"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Credentials may live in a .env file next to the binary
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Errorf("Configuration error: %v", err)
		return 1
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()

	queue, err := buildQueue(ctx, cfg)
	if err != nil {
		log.Errorf("Error setting up queue backend: %v", err)
		return 1
	}
	manager := storage.NewManager(queue, cfg.MarkerPath)
	defer manager.Close()

	state, err := manager.LoadState(ctx)
	if err != nil {
		log.Errorf("Error loading state: %v", err)
		return 1
	}

	now := time.Now()
	mode, err := tasks.SelectMode(cfg.Mode, now, state.LastRun)
	if err != nil {
		log.Errorf("Error selecting mode: %v", err)
		return 1
	}
	log.Infof("Running in %s mode (queue length %d)", mode, len(state.Pending))

	client := twitter.NewClient(
		twitter.Credentials{
			ConsumerKey:       cfg.ConsumerKey,
			ConsumerSecret:    cfg.ConsumerSecret,
			AccessToken:       cfg.AccessToken,
			AccessTokenSecret: cfg.AccessTokenSecret,
		},
		cfg.ScreenName,
	)
	retriever := tasks.NewRetriever(client, manager, cfg.PageSize, cfg.RetrieveCap)

	var runErr error
	switch mode {
	case tasks.ModeInitialize:
		runErr = tasks.NewInitializer(client, retriever).Run(ctx, state, now)
	case tasks.ModeRetrieve:
		runErr = retriever.Run(ctx, state, now)
	case tasks.ModeDelete:
		runErr = tasks.NewDeleter(client, manager, cfg.DeleteBatchSize, cfg.DryRun).Run(ctx, state, now)
	}

	if cfg.PushgatewayURL != "" {
		if err := monitoring.Push(cfg.PushgatewayURL, mode.String()); err != nil {
			log.Warnf("Error pushing metrics: %v", err)
		}
	}

	if runErr != nil {
		log.Errorf("Run failed: %v", runErr)
		return exitCode(runErr)
	}
	return 0
}

// exitCode maps a run failure to the process exit code contract the
// external scheduler acts on: 401 auth, 429 rate limited, 2 monthly quota,
// 3 daily cap, 1 anything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, twitter.ErrUnauthorized):
		return 401
	case errors.Is(err, twitter.ErrMonthlyCapExceeded):
		return 2
	case errors.Is(err, twitter.ErrRateLimited):
		return 429
	case errors.Is(err, tasks.ErrDailyCapReached):
		return 3
	}
	return 1
}

func buildQueue(ctx context.Context, cfg *config.Config) (storage.Queue, error) {
	switch cfg.QueueBackend {
	case config.BackendFile:
		return storage.NewFileQueue(cfg.QueuePath), nil
	case config.BackendRedis:
		return storage.NewRedisQueue(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: "", // no password set
			DB:       0,  // use default DB
		}), nil
	case config.BackendPostgres:
		return storage.NewPostgresQueue(ctx, cfg.PostgresConn)
	}
	return nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
}
