package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dailyMotivatorAPI/internal/config"
	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/internal/storage/mongodb"
	"dailyMotivatorAPI/internal/storage/postgres"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "daily-motivator",
	Short:         "Daily Motivator API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		store, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info().Msg("Connected to PostgreSQL")
		return store, nil
	case config.DriverMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
