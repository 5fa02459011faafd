package sim

import "github.com/aukilabs/go-tooling/pkg/errors"

const (
	// ErrTypeOutOfArena is the type of errors for bodies placed outside the
	// arena.
	ErrTypeOutOfArena = "out-of-arena"
)

// IsOutOfArena reports whether err was caused by a body outside the arena.
func IsOutOfArena(err error) bool {
	return errors.Type(err) == ErrTypeOutOfArena
}
