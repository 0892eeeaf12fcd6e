package docstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/likearthian/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMongoConfig(t *testing.T) {
	cfg, err := docstore.ParseMongoConfig([]byte(`
uri: mongodb://localhost:27017
database: tickets
connect_timeout: 3s
`))
	require.NoError(t, err)
	assert.Equal(t, docstore.MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "tickets",
		ConnectTimeout: 3 * time.Second,
	}, cfg)
}

func TestParseMongoConfig_Defaults(t *testing.T) {
	cfg, err := docstore.ParseMongoConfig([]byte("uri: mongodb://db\ndatabase: app\n"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestParseMongoConfig_Invalid(t *testing.T) {
	_, err := docstore.ParseMongoConfig([]byte("database: app\n"))
	assert.True(t, errors.Is(err, docstore.ErrInvalidArgument))

	_, err = docstore.ParseMongoConfig([]byte("uri: mongodb://db\n"))
	assert.True(t, errors.Is(err, docstore.ErrInvalidArgument))

	_, err = docstore.ParseMongoConfig([]byte("uri: [unclosed"))
	assert.Error(t, err)
}

func TestLoadMongoConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("uri: mongodb://db\ndatabase: app\n"), 0o644))

	cfg, err := docstore.LoadMongoConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Database)

	_, err = docstore.LoadMongoConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConnectMongo_RejectsIncompleteConfig(t *testing.T) {
	_, err := docstore.ConnectMongo(context.Background(), docstore.MongoConfig{Database: "app"})
	assert.True(t, errors.Is(err, docstore.ErrInvalidArgument))
}
