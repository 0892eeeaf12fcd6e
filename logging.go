package docstore

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// loggingRepository reports every failed call of the wrapped repository with
// one error entry and hands the error back untouched.
type loggingRepository[T any] struct {
	next Repository[T]
	log  logrus.FieldLogger
}

func newLoggingRepository[T any](next Repository[T], log logrus.FieldLogger) Repository[T] {
	return &loggingRepository[T]{next: next, log: log}
}

func (l *loggingRepository[T]) logFailure(operation string, err error) {
	l.log.WithFields(logrus.Fields{
		"collection": l.next.CollectionName(),
		"operation":  operation,
	}).WithError(err).Error("repository operation failed")
}

func (l *loggingRepository[T]) CollectionName() string {
	return l.next.CollectionName()
}

func (l *loggingRepository[T]) Add(ctx context.Context, record T) (int, error) {
	n, err := l.next.Add(ctx, record)
	if err != nil {
		l.logFailure("Add", err)
	}

	return n, err
}

func (l *loggingRepository[T]) BatchAdd(ctx context.Context, records []T) (int, error) {
	n, err := l.next.BatchAdd(ctx, records)
	if err != nil {
		l.logFailure("BatchAdd", err)
	}

	return n, err
}

func (l *loggingRepository[T]) DeleteOne(ctx context.Context, filter any) (int64, error) {
	n, err := l.next.DeleteOne(ctx, filter)
	if err != nil {
		l.logFailure("DeleteOne", err)
	}

	return n, err
}

func (l *loggingRepository[T]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	n, err := l.next.DeleteMany(ctx, filter)
	if err != nil {
		l.logFailure("DeleteMany", err)
	}

	return n, err
}

func (l *loggingRepository[T]) Get(ctx context.Context, filter any, dest *T) error {
	err := l.next.Get(ctx, filter, dest)
	if err != nil {
		l.logFailure("Get", err)
	}

	return err
}

func (l *loggingRepository[T]) Count(ctx context.Context, filter any) (int64, error) {
	n, err := l.next.Count(ctx, filter)
	if err != nil {
		l.logFailure("Count", err)
	}

	return n, err
}

func (l *loggingRepository[T]) QueryList(ctx context.Context, filter any) (RowIterator[T], error) {
	it, err := l.next.QueryList(ctx, filter)
	if err != nil {
		l.logFailure("QueryList", err)
	}

	return it, err
}

func (l *loggingRepository[T]) PageListByQuery(ctx context.Context, sort SortSpec, filter any, page PageRequest) (RowIterator[T], int64, error) {
	it, total, err := l.next.PageListByQuery(ctx, sort, filter, page)
	if err != nil {
		l.logFailure("PageListByQuery", err)
	}

	return it, total, err
}

func (l *loggingRepository[T]) UpdateOne(ctx context.Context, patch any, filter any, opts ...*options.UpdateOptions) (UpdateResult, error) {
	res, err := l.next.UpdateOne(ctx, patch, filter, opts...)
	if err != nil {
		l.logFailure("UpdateOne", err)
	}

	return res, err
}

func (l *loggingRepository[T]) UpdateMany(ctx context.Context, patch any, filter any, opts ...*options.UpdateOptions) (UpdateResult, error) {
	res, err := l.next.UpdateMany(ctx, patch, filter, opts...)
	if err != nil {
		l.logFailure("UpdateMany", err)
	}

	return res, err
}
