package infra

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending database migrations from dir. An empty dir
// is resolved by walking up from the working directory to db/migrations.
func RunMigrations(dsn, dir string, logger *slog.Logger) error {
	if dir == "" {
		dir = findMigrationDir()
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied", "dir", dir, "version", version, "dirty", dirty)
	return nil
}

func findMigrationDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return filepath.Join("db", "migrations")
	}
	for {
		candidate := filepath.Join(dir, "db", "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join("db", "migrations")
		}
		dir = parent
	}
}
