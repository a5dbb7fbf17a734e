package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store/drivers/sqldb"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// NewStore opens a SQLite database. Foreign keys are switched on for every
// pooled connection through the DSN, and timestamps are written in SQLite's
// own format so they compare correctly as text.
func NewStore(dsn string) (*sqldb.Store, error) {
	db, err := sql.Open("sqlite", withDefaults(dsn))
	if err != nil {
		return nil, err
	}
	return sqldb.New(db, Dialect{}, applyMigrations), nil
}

func withDefaults(dsn string) string {
	if !strings.Contains(dsn, "foreign_keys") {
		dsn = appendParam(dsn, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		dsn = appendParam(dsn, "_time_format=sqlite")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// Dialect is the SQLite flavour of sqldb.Dialect.
type Dialect struct{}

func (Dialect) Rebind(query string) string { return sqldb.QuestionRebind(query) }

func (Dialect) IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
