package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// RowIterator is a lazy, forward-only view over query results. Next returns
// ErrIteratorDone once the results are exhausted. An iterator must be closed
// and cannot be rewound.
type RowIterator[T any] interface {
	Next(ctx context.Context) (*T, error)
	All(ctx context.Context) ([]T, error)
	Close(ctx context.Context) error
}

type mongoIterator[T any] struct {
	cur *mongo.Cursor
}

func newMongoIterator[T any](cur *mongo.Cursor) *mongoIterator[T] {
	return &mongoIterator[T]{cur: cur}
}

func (mi *mongoIterator[T]) Next(ctx context.Context) (*T, error) {
	if !mi.cur.Next(ctx) {
		if err := mi.cur.Err(); err != nil {
			return nil, err
		}

		return nil, ErrIteratorDone
	}

	var data T
	if err := mi.cur.Decode(&data); err != nil {
		return nil, err
	}

	return &data, nil
}

// All drains the remaining rows and closes the cursor.
func (mi *mongoIterator[T]) All(ctx context.Context) ([]T, error) {
	var rows []T
	if err := mi.cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

func (mi *mongoIterator[T]) Close(ctx context.Context) error {
	return mi.cur.Close(ctx)
}
