package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/greenspark-api/internal/api"
	"github.com/vietanh2810/greenspark-api/internal/config"
	"github.com/vietanh2810/greenspark-api/internal/db"
	"github.com/vietanh2810/greenspark-api/internal/logger"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
	"github.com/vietanh2810/greenspark-api/internal/scheduler"
)

const defaultConfigPath = "./cmd/app/config.yml"

// Execute runs the command line. Without a subcommand it serves the API.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "greenspark",
		Short:         "GreenSpark volunteer campaign API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Start(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Create missing tables, seed sample campaigns and serve the API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return Start(configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables, seed sample campaigns and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, _, err := bootstrap(cmd.Context(), configPath)
				return err
			},
		},
	)

	return root
}

func Start(configPath string) error {
	conf, postgresDB, err := bootstrap(context.Background(), configPath)
	if err != nil {
		return err
	}

	s, err := api.NewServer(conf, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}
	defer s.Close()

	sched, err := scheduler.New(s.Auth, conf.Session.PurgeInterval)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler -> %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Shutdown(); err != nil {
			zap.L().Warn("failed to stop scheduler", zap.Error(err))
		}
	}()

	config.Watch(configPath, func(updated *config.AppConfig) {
		if err := logger.SetLevel(updated.API.LogLevel); err != nil {
			zap.L().Warn("ignoring invalid log level", zap.String("log_level", updated.API.LogLevel), zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", updated.API.LogLevel))
	}, func(err error) {
		zap.L().Warn("config watch", zap.Error(err))
	})

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// bootstrap loads the config, opens the database and brings the schema and
// sample data up to date.
func bootstrap(ctx context.Context, configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.API.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tables -> %w", err)
	}

	seeded, err := dao.SeedCampaigns(ctx, postgresDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seed campaigns -> %w", err)
	}
	if seeded > 0 {
		zap.L().Info("seeded sample campaigns", zap.Int("count", seeded))
	}

	return conf, postgresDB, nil
}
