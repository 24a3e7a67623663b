// Package database manages the relational database connection and
// driver-portable SQL helpers. MySQL is the primary driver; PostgreSQL
// and SQLite are supported for deployments and tests respectively.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kickoffhub/kickoffhub/internal/config"
)

// Open connects to the configured database, verifies the connection and
// applies pool settings. The returned handle wraps *sql.DB; repositories
// that prefer plain database/sql use DB.DB.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	SetDriver(cfg.Driver)

	db, err := sqlx.Open(driverName(cfg.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// driverName maps configured driver aliases onto the names the imported
// drivers register under. MariaDB speaks the MySQL protocol, so it rides
// the mysql driver.
func driverName(driver string) string {
	if driver == "mariadb" {
		return "mysql"
	}
	return driver
}

func buildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case "mysql", "mariadb":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name), nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode), nil
	case "sqlite3":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
