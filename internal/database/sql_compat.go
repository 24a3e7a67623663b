package database

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

var (
	driverMu      sync.RWMutex
	currentDriver string
)

// SetDriver records the active database driver. Called once by Open;
// tests may call it directly.
func SetDriver(driver string) {
	driverMu.Lock()
	currentDriver = strings.ToLower(driver)
	driverMu.Unlock()
}

// Driver returns the active database driver. Falls back to the
// DB_DRIVER environment variable, then to mysql.
func Driver() string {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	if d != "" {
		return d
	}
	if env := os.Getenv("DB_DRIVER"); env != "" {
		return strings.ToLower(env)
	}
	return "mysql"
}

// IsMySQL returns true if using MySQL/MariaDB.
func IsMySQL() bool {
	d := Driver()
	return d == "mysql" || d == "mariadb"
}

// IsPostgreSQL returns true if using PostgreSQL.
func IsPostgreSQL() bool {
	return Driver() == "postgres"
}

// IsSQLite returns true if using SQLite.
func IsSQLite() bool {
	return Driver() == "sqlite3"
}

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

// ConvertPlaceholders converts SQL placeholders to the format required by
// the active database. All repository queries are written with ? and run
// through this function.
//
// IMPORTANT: Only ? placeholders are allowed. Using $N placeholders will panic.
//   - For PostgreSQL: ? becomes $1, $2, ...
//   - For MySQL/SQLite: ? passed through as-is
func ConvertPlaceholders(query string) string {
	if dollarPlaceholder.MatchString(query) {
		panic(fmt.Sprintf("ConvertPlaceholders: $N placeholders are not allowed, use ?\nQuery: %s", query))
	}

	if IsPostgreSQL() && strings.Contains(query, "?") {
		var b strings.Builder
		n := 1
		for _, c := range query {
			if c == '?' {
				fmt.Fprintf(&b, "$%d", n)
				n++
			} else {
				b.WriteRune(c)
			}
		}
		query = b.String()
	}

	// MySQL collations are case-insensitive already
	if IsMySQL() || IsSQLite() {
		query = strings.ReplaceAll(query, " ILIKE ", " LIKE ")
		query = strings.ReplaceAll(query, " ilike ", " LIKE ")
	}

	return query
}

// UpsertSuffix returns the driver-specific INSERT conflict clause for an
// upsert keyed on keyCols, updating updateCols from the inserted values.
// Reference-data imports rely on this for idempotence.
func UpsertSuffix(keyCols []string, updateCols []string) string {
	if IsMySQL() {
		parts := make([]string, 0, len(updateCols))
		for _, c := range updateCols {
			parts = append(parts, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(parts, ", ")
	}

	// PostgreSQL and SQLite share ON CONFLICT syntax
	parts := make([]string, 0, len(updateCols))
	for _, c := range updateCols {
		parts = append(parts, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(keyCols, ", "), strings.Join(parts, ", "))
}

// QuoteIdentifier quotes table/column names for the active driver.
func QuoteIdentifier(name string) string {
	if IsMySQL() {
		return fmt.Sprintf("`%s`", name)
	}
	return name
}
