package postgres

import (
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const pqUniqueViolation = pq.ErrorCode("23505")

func isNotFound(err error) bool {
	return crerr.Is(err, sql.ErrNoRows)
}

// uniqueViolation reports whether err is a unique violation on the named
// constraint or index. An empty name matches any unique violation.
func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !crerr.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
