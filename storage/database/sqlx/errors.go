package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

const (
	uniqueViolation = pq.ErrorCode("23505")
	undefinedTable  = pq.ErrorCode("42P01")
)

// wrapErr wraps err with msg. A missing table means the schema is not migrated
// and is reported as a core shutdown error.
func wrapErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return core.NewShutdownError(msg + ": database schema is not migrated: " + pqErr.Message)
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
