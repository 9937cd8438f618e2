package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidDuration    = errors.New("invalid duration literal")
	ErrNotAdmin           = errors.New("caller is not a group administrator")
	ErrNoSubscription     = errors.New("group has no subscription")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
