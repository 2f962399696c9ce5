// Package database is the persistence adapter: the only component that talks
// to the storage engine. Every statement carries user values as bound
// parameters.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resourcesvc/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialect identifies the SQL flavour of the open connection.
type Dialect string

const (
	DialectSQLite   Dialect = config.DriverSQLite
	DialectPostgres Dialect = config.DriverPostgres
)

// Store wraps the single shared database handle.
type Store struct {
	db      *gorm.DB
	dialect Dialect
	log     *zap.Logger
}

// Open connects to the configured database. For sqlite the directory holding
// the database file must already exist.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var (
		dialector gorm.Dialector
		dialect   Dialect
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		dialector, dialect = sqlite.Open(cfg.Path), DialectSQLite
	case config.DriverPostgres:
		dialector, dialect = postgres.Open(cfg.DSN), DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if dialect == DialectSQLite {
		// One connection: the engine serializes writes and in-memory
		// databases survive for the life of the store.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}

	log.Info("database connected", zap.String("driver", cfg.Driver))
	return &Store{db: db, dialect: dialect, log: log}, nil
}

// ensureDir fails when the directory that should contain path is missing.
func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("database directory %q is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database directory %q is not a directory", dir)
	}
	return nil
}

// Dialect returns the SQL flavour of the connection.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// InitSchema creates the resources table and its updated_at trigger when
// they do not exist yet. Safe to call repeatedly.
func (s *Store) InitSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == DialectPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return classify("init schema", err)
		}
	}
	s.log.Debug("database schema ready", zap.String("dialect", string(s.dialect)))
	return nil
}

// Exec runs a mutating statement and returns the number of affected rows.
func (s *Store) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res := s.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, classify("exec", res.Error)
	}
	return res.RowsAffected, nil
}

// FetchOne scans at most one row into dest. It reports false, without an
// error, when the query matched nothing.
func (s *Store) FetchOne(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	res := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return false, classify("fetch one", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FetchMany scans every matching row into dest, which must point to a slice.
func (s *Store) FetchMany(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return classify("fetch many", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return classify("ping", err)
	}
	return classify("ping", sqlDB.PingContext(ctx))
}

// Close releases the connection. Only called at shutdown or test teardown.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
