package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Storage-level constraint violations surfaced to services.
var (
	ErrDuplicate  = errors.New("unique constraint violation")
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// classify maps Postgres constraint failures onto the sentinel errors while
// keeping the driver error in the chain.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrForeignKey, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
