package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity is returned when the store rejects a write because it
	// violates a constraint (NOT NULL, foreign key, check, unique).
	ErrIntegrity = errors.New("integrity constraint violated")
	// ErrDuplicate is the unique-constraint flavour of ErrIntegrity.
	ErrDuplicate = fmt.Errorf("%w: duplicate key", ErrIntegrity)
)
