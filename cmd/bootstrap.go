package cmd

import (
	"fmt"

	"entity-kit/core/config"
	"entity-kit/core/database"
	"entity-kit/core/logger"
	"entity-kit/core/storage"
	"entity-kit/feature/catalog"

	"go.uber.org/zap"
)

// app bundles what every catalog command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	repo    *catalog.Repository
	service *catalog.Service
}

// bootstrap loads configuration, the logger and the database. Storage is
// only connected when withStorage is set.
func bootstrap(withStorage bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	repo := catalog.NewRepository(db)

	var exporter *catalog.Exporter
	if withStorage {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		exporter = catalog.NewExporter(client, cfg.Storage, logg)
	}

	return &app{
		cfg:     cfg,
		log:     logg,
		repo:    repo,
		service: catalog.NewService(repo, exporter, cfg.Serializer, logg),
	}, nil
}
