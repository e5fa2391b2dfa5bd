package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amas-erp/supplier-portal/modules"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/eventbus"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, configuration.Use().Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// loadApp connects and registers the built-in modules. The returned context
// carries the pool for repository calls.
func loadApp(ctx context.Context) (context.Context, application.Application, func(), error) {
	pool, err := connectDB(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := configuration.Use().Logger()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("load modules: %w", err)
	}
	return composables.WithPool(ctx, pool), app, pool.Close, nil
}
