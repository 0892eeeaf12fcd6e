package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository is the typed data access surface over one collection. Filters
// are mongo filter documents, see Where and ByID. Read operations treat a nil
// filter as match-all; deletes and updates reject it with ErrInvalidArgument.
type Repository[T any] interface {
	Add(ctx context.Context, record T) (int, error)
	BatchAdd(ctx context.Context, records []T) (int, error)
	DeleteOne(ctx context.Context, filter any) (int64, error)
	DeleteMany(ctx context.Context, filter any) (int64, error)
	Get(ctx context.Context, filter any, dest *T) error
	Count(ctx context.Context, filter any) (int64, error)
	QueryList(ctx context.Context, filter any) (RowIterator[T], error)
	PageListByQuery(ctx context.Context, sort SortSpec, filter any, page PageRequest) (RowIterator[T], int64, error)
	UpdateOne(ctx context.Context, patch any, filter any, opts ...*options.UpdateOptions) (UpdateResult, error)
	UpdateMany(ctx context.Context, patch any, filter any, opts ...*options.UpdateOptions) (UpdateResult, error)
	CollectionName() string
}

// UpdateResult reports the outcome of UpdateOne and UpdateMany.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    any
}

func (r UpdateResult) Upserted() bool {
	return r.UpsertedCount > 0
}

func updateResultFrom(res *mongo.UpdateResult) UpdateResult {
	if res == nil {
		return UpdateResult{}
	}

	return UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}
