package repository

import (
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when an insert loses a
// race against a unique index. The store is the final arbiter for duplicate
// enrollments, submissions and attendance rows.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}
