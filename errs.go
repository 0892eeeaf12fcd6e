package docstore

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrReflection       = errors.New("cannot introspect value")
	ErrKeyAlreadyExists = errors.New("key already exists")
	ErrKeynotFound      = errors.New("key not found")
	ErrIteratorDone     = errors.New("no more rows in iterator")
)

// IsStoreFailure reports whether err came from the underlying store rather
// than from argument validation or patch introspection.
func IsStoreFailure(err error) bool {
	if err == nil {
		return false
	}

	return !errors.Is(err, ErrInvalidArgument) && !errors.Is(err, ErrReflection)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means no document matched.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeynotFound)
}

// storeError tags a driver error with one of the sentinels above while
// keeping the driver error in the chain.
type storeError struct {
	kind error
	err  error
}

func (e *storeError) Error() string {
	return e.kind.Error() + ". " + e.err.Error()
}

func (e *storeError) Is(target error) bool {
	return target == e.kind
}

func (e *storeError) Unwrap() error {
	return e.err
}
