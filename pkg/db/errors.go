package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether the error is a Postgres unique violation.
// Optional constraint names narrow the check to specific constraints. Falls
// back to message inspection for drivers that do not surface a typed error.
func IsUniqueViolation(err error, constraintNames ...string) bool {
	if err == nil {
		return false
	}

	code, constraint := "", ""
	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		code, constraint = pgxErr.Code, pgxErr.ConstraintName
	case errors.As(err, &pqErr):
		code, constraint = string(pqErr.Code), pqErr.Constraint
	}

	if code != "" {
		if code != uniqueViolationCode {
			return false
		}
		if len(constraintNames) == 0 {
			return true
		}
		for _, name := range constraintNames {
			if constraint == name {
				return true
			}
		}
		return false
	}

	msg := err.Error()
	if len(constraintNames) > 0 {
		for _, name := range constraintNames {
			if strings.Contains(msg, name) {
				return true
			}
		}
		return false
	}
	return strings.Contains(msg, "duplicate key value")
}
