package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var errDBUnavailable = errors.New("db unavailable")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	return hasPgCode(err, pgUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, pgForeignKeyViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps value for an ILIKE substring match, escaping
// LIKE metacharacters in value.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
