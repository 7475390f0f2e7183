package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateKey signals a unique index rejected a write. Services map it to
// the appropriate domain error (duplicate submission, schedule slot conflict).
var ErrDuplicateKey = errors.New("duplicate key")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
