package docstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository[T any] struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoRepository creates a repository over collName in db. An empty
// collName falls back to CollectionNameOf[T]. Failed operations are logged
// once and returned to the caller unchanged.
func NewMongoRepository[T any](db *mongo.Database, collName string, options ...RepositoryOption[T]) (Repository[T], error) {
	if db == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "database must not be nil")
	}

	opt := &option[T]{}
	for _, op := range options {
		op(opt)
	}

	if collName == "" {
		collName = CollectionNameOf[T]()
	}

	if collName == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "collection name must not be empty")
	}

	if opt.logger == nil {
		opt.logger = logrus.StandardLogger()
	}

	repo := &mongoRepository[T]{
		db:         db,
		collection: db.Collection(collName),
	}

	if opt.initValues != nil {
		if err := repo.init(context.Background(), opt.initValues); err != nil {
			return nil, err
		}
	}

	return newLoggingRepository[T](repo, opt.logger), nil
}

func (m *mongoRepository[T]) init(ctx context.Context, values []T) error {
	for _, val := range values {
		if _, err := m.Add(ctx, val); err != nil {
			if !errors.Is(wrapMongoError(err), ErrKeyAlreadyExists) {
				return err
			}
		}
	}

	return nil
}

func (m *mongoRepository[T]) CollectionName() string {
	return m.collection.Name()
}

func (m *mongoRepository[T]) Add(ctx context.Context, record T) (int, error) {
	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		return 0, err
	}

	return 1, nil
}

func (m *mongoRepository[T]) BatchAdd(ctx context.Context, records []T) (int, error) {
	if len(records) == 0 {
		return 0, errors.Wrap(ErrInvalidArgument, "records must not be empty")
	}

	insertValues := sliceMap(records, func(val T) interface{} {
		return val
	})

	if _, err := m.collection.InsertMany(ctx, insertValues); err != nil {
		return 0, err
	}

	return 1, nil
}

func (m *mongoRepository[T]) DeleteOne(ctx context.Context, filter any) (int64, error) {
	if err := requireFilter(filter); err != nil {
		return 0, err
	}

	res, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}

	return res.DeletedCount, nil
}

func (m *mongoRepository[T]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	if err := requireFilter(filter); err != nil {
		return 0, err
	}

	res, err := m.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}

	return res.DeletedCount, nil
}

// Get decodes the first document matching filter into dest. A missing
// document is reported as ErrKeynotFound, see IsNotFound.
func (m *mongoRepository[T]) Get(ctx context.Context, filter any, dest *T) error {
	if dest == nil {
		return errors.Wrap(ErrInvalidArgument, "destination must not be nil")
	}

	if err := m.collection.FindOne(ctx, filterOrAll(filter)).Decode(dest); err != nil {
		return wrapMongoError(err)
	}

	return nil
}

func (m *mongoRepository[T]) Count(ctx context.Context, filter any) (int64, error) {
	return m.collection.CountDocuments(ctx, filterOrAll(filter))
}

func (m *mongoRepository[T]) QueryList(ctx context.Context, filter any) (RowIterator[T], error) {
	cur, err := m.collection.Find(ctx, filterOrAll(filter))
	if err != nil {
		return nil, err
	}

	return newMongoIterator[T](cur), nil
}

func (m *mongoRepository[T]) PageListByQuery(ctx context.Context, sort SortSpec, filter any, page PageRequest) (RowIterator[T], int64, error) {
	if len(sort) == 0 {
		return nil, 0, errors.Wrap(ErrInvalidArgument, "sortQuery must fill in")
	}

	filter = filterOrAll(filter)
	findOpts := mongoOptions.Find().
		SetSort(sort.Document()).
		SetSkip(page.GetOffset()).
		SetLimit(page.GetLimit())

	cur, err := m.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}

	var totalCount int64
	if page.WithTotal {
		totalCount, err = m.collection.CountDocuments(ctx, filter)
		if err != nil {
			_ = cur.Close(ctx)
			return nil, 0, err
		}
	}

	return newMongoIterator[T](cur), totalCount, nil
}

func (m *mongoRepository[T]) UpdateOne(ctx context.Context, patch any, filter any, opts ...*mongoOptions.UpdateOptions) (UpdateResult, error) {
	if err := requireFilter(filter); err != nil {
		return UpdateResult{}, err
	}

	update, err := m.createUpdateParam(patch)
	if err != nil {
		return UpdateResult{}, err
	}

	res, err := m.collection.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return UpdateResult{}, err
	}

	return updateResultFrom(res), nil
}

func (m *mongoRepository[T]) UpdateMany(ctx context.Context, patch any, filter any, opts ...*mongoOptions.UpdateOptions) (UpdateResult, error) {
	if err := requireFilter(filter); err != nil {
		return UpdateResult{}, err
	}

	update, err := m.createUpdateParam(patch)
	if err != nil {
		return UpdateResult{}, err
	}

	res, err := m.collection.UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return UpdateResult{}, err
	}

	return updateResultFrom(res), nil
}

func (m *mongoRepository[T]) createUpdateParam(patch any) (bson.D, error) {
	projection, err := BuildProjection(patch, "")
	if err != nil {
		return nil, err
	}

	if len(projection) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "patch has no field to update")
	}

	return projection.Document(), nil
}

// filterOrAll lets read operations treat a nil filter as match-all.
func filterOrAll(filter any) any {
	if isAbsent(filter) {
		return bson.D{}
	}

	return filter
}

// requireFilter guards write operations against a nil filter, which would
// otherwise touch every document of the collection.
func requireFilter(filter any) error {
	if isAbsent(filter) {
		return errors.Wrap(ErrInvalidArgument, "filter must not be nil")
	}

	return nil
}

func wrapMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &storeError{kind: ErrKeyAlreadyExists, err: err}
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return &storeError{kind: ErrKeynotFound, err: err}
	}

	return err
}
