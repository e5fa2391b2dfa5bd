// Package itf builds throwaway PostgreSQL databases for integration tests.
package itf

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/eventbus"
)

const maxDBNameLength = 63

// TestEnvironment holds a migrated database and an application wired with the
// given modules.
type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
	App  application.Application
}

func IsCI() bool {
	return strings.TrimSpace(os.Getenv("CI")) != "" ||
		strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true")
}

// Setup creates a fresh database named after the test, registers mods and
// runs their migrations. Without a reachable server the test is skipped,
// except under CI where it fails.
func Setup(tb testing.TB, mods ...application.Module) *TestEnvironment {
	tb.Helper()
	ctx := context.Background()
	conf := configuration.Use()

	adminConn, err := pgx.Connect(ctx, adminDSN(conf))
	if err != nil {
		if IsCI() {
			tb.Fatalf("postgres is not reachable: %v", err)
		}
		tb.Skip("postgres is not reachable; skipping integration test")
	}

	dbName := SanitizeDBName(tb.Name())
	_, _ = adminConn.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName)
	if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+dbName); err != nil {
		_ = adminConn.Close(ctx)
		if IsCI() {
			tb.Fatalf("create test database: %v", err)
		}
		tb.Skip("failed to create test database; skipping integration test")
	}

	pool := newPool(tb, dbDSN(conf, dbName))
	tb.Cleanup(func() {
		pool.Close()
		_, _ = adminConn.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName)
		_ = adminConn.Close(ctx)
	})

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			tb.Fatalf("register module %s: %v", m.Name(), err)
		}
	}
	if err := app.Migrations().Run(ctx); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	return &TestEnvironment{
		Ctx:  composables.WithPool(ctx, pool),
		Pool: pool,
		App:  app,
	}
}

// GetService retrieves a registered service by type.
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	return te.App.Service(zero).(*T)
}

func newPool(tb testing.TB, dsn string) *pgxpool.Pool {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		tb.Fatalf("parse dsn: %v", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnIdleTime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		tb.Fatalf("create pool: %v", err)
	}
	return pool
}

func adminDSN(c *configuration.Configuration) string {
	return dbDSN(c, "postgres")
}

func dbDSN(c *configuration.Configuration, name string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, name, c.Database.Password,
	)
}

// SanitizeDBName maps a test name to a valid, at most 63 byte, database name.
func SanitizeDBName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = "itf_" + strings.Trim(sanitized, "_")
	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}
	sum := sha256.Sum256([]byte(name))
	hash := fmt.Sprintf("%x", sum[:])[:8]
	return sanitized[:maxDBNameLength-len(hash)-1] + "_" + hash
}
