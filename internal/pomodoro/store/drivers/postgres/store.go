package postgres

import (
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store/drivers/sqldb"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// NewStore opens a Postgres pool through pgx's database/sql adapter.
func NewStore(dsn string) (*sqldb.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return sqldb.New(db, Dialect{}, applyMigrations), nil
}

// Dialect is the Postgres flavour of sqldb.Dialect.
type Dialect struct{}

func (Dialect) Rebind(query string) string { return sqldb.DollarRebind(query) }

func (Dialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
