package crm

import "errors"

var (
	// ErrInvalidInput marks a field value that violates a domain rule.
	// Always recoverable by re-prompting.
	ErrInvalidInput = errors.New("crm: invalid input")

	// ErrNotFound marks a lookup miss within a set the caller may see.
	ErrNotFound = errors.New("crm: not found")

	// ErrConflict marks a store-level constraint breach (uniqueness or
	// foreign key).
	ErrConflict = errors.New("crm: integrity conflict")

	// ErrUnauthorized marks an operation or record outside the acting
	// role's granted scope.
	ErrUnauthorized = errors.New("crm: unauthorized")
)
