package bsp

import "github.com/aukilabs/go-tooling/pkg/errors"

const (
	// ErrTypeUnsupportedOperation is the error type of queries the index
	// knowingly does not implement.
	ErrTypeUnsupportedOperation = "unsupported-operation"

	// ErrTypeInvariantViolation is the error type reported by CheckInvariants.
	ErrTypeInvariantViolation = "invariant-violation"
)

// IsUnsupported reports whether err signals an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Type(err) == ErrTypeUnsupportedOperation
}

// IsInvariantViolation reports whether err was produced by CheckInvariants.
func IsInvariantViolation(err error) bool {
	return errors.Type(err) == ErrTypeInvariantViolation
}
