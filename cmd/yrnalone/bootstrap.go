package main

import (
	"context"
	"fmt"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/config"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/database"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/kvstore"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/streak"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/viewmodel"
	"go.uber.org/zap"
)

type application struct {
	accessors    *accessors.Accessors
	model        *viewmodel.Model
	streak       *streak.Engine
	translations *locale.TranslationCache
	crisis       *locale.CrisisTable
	logger       *zap.Logger
	closers      []func() error
}

func bootstrap(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) (*application, error) {
	app := &application{logger: logger}

	device, err := app.openDevice(ctx, appConfig)
	if err != nil {
		return nil, err
	}
	store, err := kvstore.NewStore(kvstore.StoreConfig{
		Device:    device,
		Namespace: appConfig.StorageNamespace,
		Logger:    logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	app.accessors, err = accessors.New(accessors.Config{Store: store, Logger: logger})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.model, err = viewmodel.New(viewmodel.Config{
		Store:       app.accessors,
		DisplayName: appConfig.DisplayName,
		Logger:      logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	location, err := appConfig.Location()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.streak, err = streak.NewEngine(streak.EngineConfig{Store: app.accessors, Location: location, Logger: logger})
	if err != nil {
		app.Close()
		return nil, err
	}

	table, err := locale.DefaultTable()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.translations = locale.NewTranslationCache(table, logger)
	app.crisis, err = locale.DefaultCrisisTable()
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *application) openDevice(ctx context.Context, appConfig config.AppConfig) (kvstore.Device, error) {
	switch appConfig.StorageBackend {
	case config.StorageMemory:
		return kvstore.NewMemoryDevice(0), nil
	case config.StorageRedis:
		device, err := kvstore.ConnectRedis(ctx, appConfig.RedisAddress)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, device.Close)
		return device, nil
	case config.StorageSQLite:
		db, err := database.OpenSQLite(appConfig.DatabasePath, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		return kvstore.NewSQLiteDevice(db, nil)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", appConfig.StorageBackend)
	}
}

// Close releases storage connections in reverse order of opening.
func (a *application) Close() {
	for index := len(a.closers) - 1; index >= 0; index-- {
		if err := a.closers[index](); err != nil {
			a.logger.Warn("storage close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
