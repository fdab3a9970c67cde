// Package store implements the persistent record and name collections on
// PostgreSQL through GORM. Stores translate driver errors into the
// application error taxonomy; uniqueness is ultimately backstopped by the
// database constraints.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// translateError maps GORM and driver errors onto the apperr taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.ErrDuplicateKey
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateKey
	}
	return err
}

// applyListQuery attaches the filter conditions and substring search of a
// list query to a GORM statement.
func applyListQuery(tx *gorm.DB, q query.ListQuery) *gorm.DB {
	for _, cond := range q.Conditions {
		tx = tx.Where(cond.Column+" = ?", cond.Value)
	}
	if q.Search != nil && q.Search.Term != "" {
		clauses := make([]string, len(q.Search.Columns))
		args := make([]interface{}, len(q.Search.Columns))
		pattern := "%" + q.Search.Term + "%"
		for i, col := range q.Search.Columns {
			clauses[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		tx = tx.Where(fmt.Sprintf("(%s)", strings.Join(clauses, " OR ")), args...)
	}
	return tx
}
