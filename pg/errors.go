package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes classified by ErrorType.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// ErrorType classifies a database error for errx: integrity violations caused by the
// written record are conflicts or validation errors, a missing row is not found,
// and everything else is internal.
func ErrorType(err error) errx.Type {
	if errors.Is(err, sql.ErrNoRows) {
		return errx.T_NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errx.T_Internal
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation:
		return errx.T_Conflict
	case codeNotNullViolation, codeCheckViolation:
		return errx.T_Validation
	default:
		return errx.T_Internal
	}
}

// ErrorDetails collects the failed query and, for PostgreSQL errors, the server's
// diagnostic fields. Pass a nil query when there is none.
func ErrorDetails(err error, query fmt.Stringer) errx.D {
	details := errx.D{}
	if s := queryString(query); s != "" {
		details["query"] = strings.ReplaceAll(s, `"`, ``)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return details
	}

	for key, value := range map[string]string{
		"pg.code":       pgErr.Code,
		"pg.severity":   pgErr.Severity,
		"pg.message":    pgErr.Message,
		"pg.detail":     pgErr.Detail,
		"pg.hint":       pgErr.Hint,
		"pg.schema":     pgErr.SchemaName,
		"pg.table":      pgErr.TableName,
		"pg.column":     pgErr.ColumnName,
		"pg.constraint": pgErr.ConstraintName,
	} {
		if value != "" {
			details[key] = value
		}
	}

	return details
}

// queryString renders query, or returns "" when it is nil or rendering panics.
// bun queries panic from String() when their model is incomplete.
func queryString(query fmt.Stringer) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()

	if query == nil {
		return ""
	}
	return query.String()
}
