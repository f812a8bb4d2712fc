package main

import (
	"context"
	"fmt"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/database"
	"github.com/community-cms-api/internal/places"
	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/storage"
	"github.com/community-cms-api/pkg/logger"
	"github.com/rs/zerolog"
)

// app holds everything a command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	services *service.Services
	closers  []func(context.Context) error
}

func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

// loadConfig reads configuration and builds the logger
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load configuration: %w", err)
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Env), nil
}

// bootstrap connects the document store and blob store and builds the services.
// prepare runs schema migrations or index creation first.
func bootstrap(ctx context.Context, prepare bool) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	repos, ping, err := a.openStore(ctx, prepare)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	blobs, err := openBlobStore(ctx, cfg, log)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	var source service.ReviewSource
	if cfg.Google.PlaceID != "" {
		client, err := places.New(ctx, cfg.Google.APIKey, cfg.Google.PlaceID, log)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		source = client
	} else {
		log.Warn().Msg("GOOGLE_PLACE_ID not set, review sync disabled")
	}

	a.services = service.NewServices(repos, blobs, source, cfg, log)
	a.services.Ping = ping
	return a, nil
}

func (a *app) openStore(ctx context.Context, prepare bool) (*repository.Repositories, func(context.Context) error, error) {
	switch a.cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.New(&a.cfg.Database, a.log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		if prepare {
			if err := db.RunMigrations(a.cfg.Database.MigrationsPath); err != nil {
				return nil, nil, err
			}
		}
		return repository.NewPostgres(db), db.HealthCheck, nil

	default:
		m, err := database.NewMongo(ctx, &a.cfg.Mongo, a.log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, m.Close)

		if prepare {
			if err := repository.EnsureMongoIndexes(ctx, m.DB); err != nil {
				return nil, nil, err
			}
		}
		return repository.NewMongo(m.DB), m.HealthCheck, nil
	}
}

func openBlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.BlobStore, error) {
	if cfg.Upload.Driver == config.UploadMinio {
		return storage.NewMinioStore(ctx, &cfg.Upload.Minio, log)
	}
	return storage.NewLocalStore(cfg.Upload.Dir, log)
}
