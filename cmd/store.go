package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/engine"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "ecotrack.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.MaxConns, cfg.Store.MinConns)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEngine(ctx context.Context) (*engine.Engine, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(st, cfg.Engine), st, nil
}
