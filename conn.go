package docstore

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gopkg.in/yaml.v3"
)

const defaultConnectTimeout = 10 * time.Second

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ParseMongoConfig decodes a yaml document into a MongoConfig and applies
// defaults.
//
// example:
//
//	uri: mongodb://localhost:27017
//	database: tickets
//	connect_timeout: 5s
func ParseMongoConfig(data []byte) (MongoConfig, error) {
	var cfg MongoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "could not decode mongo config")
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func LoadMongoConfig(path string) (MongoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MongoConfig{}, errors.Wrapf(err, "could not read mongo config %s", path)
	}

	return ParseMongoConfig(data)
}

func (c MongoConfig) validate() error {
	if c.URI == "" {
		return errors.Wrap(ErrInvalidArgument, "mongo uri is required")
	}

	if c.Database == "" {
		return errors.Wrap(ErrInvalidArgument, "mongo database is required")
	}

	return nil
}

// ConnectMongo opens a client, checks the primary is reachable and returns
// the configured database. The caller owns the client and disconnects it
// through db.Client().
func ConnectMongo(ctx context.Context, config MongoConfig) (*mongo.Database, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	clientOpts := options.Client().ApplyURI(config.URI).SetConnectTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}

	return client.Database(config.Database), nil
}
