package apperror

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// retryable SQLSTATEs: serialization, deadlock, statement timeout,
// too many connections, admin shutdown
var retryableCodes = map[string]struct{}{
	"40001": {},
	"40P01": {},
	"57014": {},
	"53300": {},
	"57P01": {},
}

// FromDB maps a gorm/pgx error onto the taxonomy. entity names the row kind
// for not-found messages.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	return Remote(err, isTransient(err))
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "08") {
			return true
		}
		_, ok := retryableCodes[pgErr.Code]
		return ok
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
