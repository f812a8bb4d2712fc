package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/database"
	"github.com/community-cms-api/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the document store schema",
	Long:  `Apply or roll back PostgreSQL migrations. With the mongo store, "up" creates the collection indexes.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Store.Driver != config.StorePostgres {
			m, err := database.NewMongo(ctx, &cfg.Mongo, log)
			if err != nil {
				return err
			}
			defer m.Close(ctx)
			if err := repository.EnsureMongoIndexes(ctx, m.DB); err != nil {
				return err
			}
			log.Info().Msg("MongoDB indexes ensured")
			return nil
		}

		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.RunMigrations(cfg.Database.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(func(db *database.DB, path string) error {
			return db.MigrateDown(path)
		})
	},
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto VERSION",
	Short: "Migrate up or down to VERSION",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withPostgres(func(db *database.DB, path string) error {
			return db.MigrateToVersion(path, uint(version))
		})
	},
}

func withPostgres(fn func(db *database.DB, migrationsPath string) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.StorePostgres {
		return fmt.Errorf("migrations need STORE_DRIVER=%s, got %q", config.StorePostgres, cfg.Store.Driver)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, cfg.Database.MigrationsPath)
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateGotoCmd)
	rootCmd.AddCommand(migrateCmd)
}
