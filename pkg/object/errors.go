package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a digest with no object behind it.
	ErrNotFound = errors.New("object not found")

	// ErrMalformed reports stored bytes that violate an object encoding.
	ErrMalformed = errors.New("malformed object")
)

// KindMismatchError reports an object that exists but has the wrong kind for
// the operation that read it.
type KindMismatchError struct {
	Hash Hash
	Want Type
	Got  Type
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("object %s is a %s, not a %s", e.Hash, e.Got, e.Want)
}
