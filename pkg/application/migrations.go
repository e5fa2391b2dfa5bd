package application

import (
	"context"
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
	"testing/fstest"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// NewMigrationManager collects module schema files and applies them with goose.
// Files from every module share one version sequence, so names must be unique
// across modules (00001_suppliers.sql, 00002_purchasing.sql, ...).
func NewMigrationManager(pool *pgxpool.Pool, logger *logrus.Logger) MigrationManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &migrationManager{pool: pool, logger: logger}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	logger  *logrus.Logger
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(fs ...*embed.FS) {
	m.schemas = append(m.schemas, fs...)
}

func (m *migrationManager) collect() (fstest.MapFS, error) {
	out := fstest.MapFS{}
	for _, schemaFs := range m.schemas {
		files, err := listFiles(schemaFs, ".")
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if !strings.HasSuffix(file, ".sql") {
				continue
			}
			name := filepath.Base(file)
			if _, dup := out[name]; dup {
				return nil, errors.Errorf("duplicate migration file %s", name)
			}
			data, err := fs.ReadFile(schemaFs, file)
			if err != nil {
				return nil, errors.Wrapf(err, "read %s", file)
			}
			out[name] = &fstest.MapFile{Data: data, Mode: 0o444}
		}
	}
	return out, nil
}

func (m *migrationManager) provider() (*goose.Provider, func() error, error) {
	if m.pool == nil {
		return nil, nil, errors.New("migrations: no database pool")
	}
	files, err := m.collect()
	if err != nil {
		return nil, nil, err
	}
	db := stdlib.OpenDBFromPool(m.pool)
	p, err := goose.NewProvider(goose.DialectPostgres, db, files)
	if err != nil {
		_ = db.Close()
		return nil, nil, errors.Wrap(err, "goose provider")
	}
	return p, db.Close, nil
}

func (m *migrationManager) Run(ctx context.Context) error {
	p, closeDB, err := m.provider()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	results, err := p.Up(ctx)
	for _, r := range results {
		m.logger.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"path":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}
	if err != nil {
		return errors.Wrap(err, "migrate up")
	}
	return nil
}

func (m *migrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	p, closeDB, err := m.provider()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeDB() }()

	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migrate status")
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
