package docstore

import "github.com/sirupsen/logrus"

type RepositoryOption[T any] func(o *option[T])

type option[T any] struct {
	initValues []T
	logger     logrus.FieldLogger
}

// InitWith seeds the collection with values when the repository is created.
// Values whose key already exists are skipped.
func InitWith[T any](values []T) RepositoryOption[T] {
	return func(o *option[T]) {
		o.initValues = values
	}
}

// WithLogger sets the logger used to report failed operations. Defaults to
// the logrus standard logger.
func WithLogger[T any](logger logrus.FieldLogger) RepositoryOption[T] {
	return func(o *option[T]) {
		o.logger = logger
	}
}
