package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type note struct {
	ID   string `bson:"_id"`
	Text string `bson:"text"`
}

// failingRepository fails every call with err.
type failingRepository struct {
	err   error
	calls int
}

func (f *failingRepository) CollectionName() string { return "notes" }

func (f *failingRepository) Add(context.Context, note) (int, error) {
	f.calls++
	return 0, f.err
}

func (f *failingRepository) BatchAdd(context.Context, []note) (int, error) {
	f.calls++
	return 0, f.err
}

func (f *failingRepository) DeleteOne(context.Context, any) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingRepository) DeleteMany(context.Context, any) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingRepository) Get(context.Context, any, *note) error {
	f.calls++
	return f.err
}

func (f *failingRepository) Count(context.Context, any) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *failingRepository) QueryList(context.Context, any) (RowIterator[note], error) {
	f.calls++
	return nil, f.err
}

func (f *failingRepository) PageListByQuery(context.Context, SortSpec, any, PageRequest) (RowIterator[note], int64, error) {
	f.calls++
	return nil, 0, f.err
}

func (f *failingRepository) UpdateOne(context.Context, any, any, ...*options.UpdateOptions) (UpdateResult, error) {
	f.calls++
	return UpdateResult{}, f.err
}

func (f *failingRepository) UpdateMany(context.Context, any, any, ...*options.UpdateOptions) (UpdateResult, error) {
	f.calls++
	return UpdateResult{}, f.err
}

func TestLoggingRepository_LogsOncePerFailure(t *testing.T) {
	storeErr := errors.New("connection reset by peer")
	ctx := context.Background()

	ops := map[string]func(r Repository[note]) error{
		"Add": func(r Repository[note]) error {
			_, err := r.Add(ctx, note{})
			return err
		},
		"BatchAdd": func(r Repository[note]) error {
			_, err := r.BatchAdd(ctx, []note{{}})
			return err
		},
		"DeleteOne": func(r Repository[note]) error {
			_, err := r.DeleteOne(ctx, ByID("1"))
			return err
		},
		"DeleteMany": func(r Repository[note]) error {
			_, err := r.DeleteMany(ctx, ByID("1"))
			return err
		},
		"Get": func(r Repository[note]) error {
			var n note
			return r.Get(ctx, ByID("1"), &n)
		},
		"Count": func(r Repository[note]) error {
			_, err := r.Count(ctx, nil)
			return err
		},
		"QueryList": func(r Repository[note]) error {
			_, err := r.QueryList(ctx, nil)
			return err
		},
		"PageListByQuery": func(r Repository[note]) error {
			_, _, err := r.PageListByQuery(ctx, ParseSort("text"), nil, NewPageRequest(1, 10, true))
			return err
		},
		"UpdateOne": func(r Repository[note]) error {
			_, err := r.UpdateOne(ctx, note{Text: "x"}, ByID("1"))
			return err
		},
		"UpdateMany": func(r Repository[note]) error {
			_, err := r.UpdateMany(ctx, note{Text: "x"}, nil)
			return err
		},
	}

	for name, call := range ops {
		t.Run(name, func(t *testing.T) {
			logger, hook := logtest.NewNullLogger()
			inner := &failingRepository{err: storeErr}
			repo := newLoggingRepository[note](inner, logger)

			err := call(repo)
			assert.Equal(t, storeErr, err)
			assert.Equal(t, 1, inner.calls)

			require.Len(t, hook.AllEntries(), 1)
			entry := hook.LastEntry()
			assert.Equal(t, logrus.ErrorLevel, entry.Level)
			assert.Equal(t, "notes", entry.Data["collection"])
			assert.Equal(t, name, entry.Data["operation"])
			assert.Equal(t, storeErr, entry.Data[logrus.ErrorKey])
		})
	}
}

func TestLoggingRepository_SilentOnSuccess(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	repo := newLoggingRepository[note](&failingRepository{}, logger)

	_, err := repo.Add(context.Background(), note{})
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())
}
