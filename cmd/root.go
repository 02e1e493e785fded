package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/rueidis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	config "task-tracker.com/task-tracker/internal/configs"
	"task-tracker.com/task-tracker/internal/feed"
)

var rootCmd = &cobra.Command{
	Use:           "task-tracker",
	Short:         "Role-based task tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is what every command needs: config, logger, database and the
// change feed writes are announced on.
type runtime struct {
	cfg    config.Config
	logger *zap.SugaredLogger
	db     *gorm.DB
	feed   feed.Feed
	redis  rueidis.Client
}

func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := config.NewDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger, db: db}

	switch cfg.FeedDriver {
	case config.FeedRedis:
		client, err := config.NewRedisClient(cfg.RedisAddr())
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.redis = client
		rt.feed = feed.NewRedisFeed(client, cfg.FeedChannel, logger)
	default:
		rt.feed = feed.NewLocalFeed()
	}

	logger.Infow("runtime ready",
		"database_driver", cfg.DatabaseDriver,
		"feed_driver", cfg.FeedDriver,
	)
	return rt, nil
}

func (rt *runtime) close() {
	if rt.redis != nil {
		rt.redis.Close()
	}
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.logger.Sync()
}

func (rt *runtime) ping(ctx context.Context) error {
	if rt.redis == nil {
		return nil
	}
	return rt.redis.Do(ctx, rt.redis.B().Ping().Build()).Error()
}
