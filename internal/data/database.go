package data

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go-blog-app/internal/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverMySQL   = "mysql"
	DriverSQLite3 = "sqlite3"
)

// NewDB creates a new database connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMySQL
	}
	if driver != DriverMySQL && driver != DriverSQLite3 {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite3 {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		// between the request pool and open transactions.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// ApplyMigrations runs all up migrations found in <migrationsPath>/<driver>.
func ApplyMigrations(cfg config.DBConfig) error {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMySQL
	}

	var migrateDSN string
	switch driver {
	case DriverMySQL:
		// The migrate library needs the DSN in a URL format, and the
		// migration files hold several statements each.
		migrateDSN = fmt.Sprintf("mysql://%s", withMultiStatements(cfg.DSN))
	case DriverSQLite3:
		migrateDSN = fmt.Sprintf("sqlite3://%s", cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	absPath, err := filepath.Abs(filepath.Join(cfg.MigrationsPath, driver))
	if err != nil {
		return fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}
	sourceURL := fmt.Sprintf("file://%s", absPath)

	m, err := migrate.New(sourceURL, migrateDSN)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	// Up applies all available up migrations.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// withMultiStatements makes sure a go-sql-driver DSN allows multi statement execution.
func withMultiStatements(dsn string) string {
	if strings.Contains(dsn, "multiStatements=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + url.Values{"multiStatements": []string{"true"}}.Encode()
}
