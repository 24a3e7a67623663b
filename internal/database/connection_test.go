package database

import (
	"strings"
	"testing"

	"github.com/kickoffhub/kickoffhub/internal/config"
)

func TestDriverNameMapsMariaDBToMySQL(t *testing.T) {
	if got := driverName("mariadb"); got != "mysql" {
		t.Errorf("driverName(mariadb) = %q, want mysql", got)
	}
	for _, d := range []string{"mysql", "postgres", "sqlite3"} {
		if got := driverName(d); got != d {
			t.Errorf("driverName(%s) = %q, want %s", d, got, d)
		}
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: "mariadb", Host: "db", Port: 3306,
		Name: "kickoffhub", User: "app", Password: "secret",
	}
	dsn, err := buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "app:secret@tcp(db:3306)/kickoffhub") {
		t.Errorf("mariadb dsn = %q", dsn)
	}

	cfg.Driver = "sqlite3"
	cfg.Path = ""
	dsn, err = buildDSN(cfg)
	if err != nil {
		t.Fatalf("buildDSN sqlite: %v", err)
	}
	if dsn != ":memory:" {
		t.Errorf("sqlite dsn = %q, want :memory:", dsn)
	}

	cfg.Driver = "oracle"
	if _, err := buildDSN(cfg); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestOpenMariaDBUsesRegisteredDriver(t *testing.T) {
	// sqlx.Open fails immediately for an unregistered driver name, before
	// any network I/O, so a bad alias mapping surfaces here.
	db, err := Open(config.DatabaseConfig{
		Driver: "mariadb", Host: "127.0.0.1", Port: 1,
		Name: "kickoffhub", User: "app", Password: "x",
	})
	if err != nil && strings.Contains(err.Error(), "unknown driver") {
		t.Fatalf("mariadb alias not mapped to a registered driver: %v", err)
	}
	if db != nil {
		db.Close()
	}
}
