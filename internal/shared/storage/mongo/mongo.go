package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"credit-backend/internal/shared/telemetry"
)

// Options controls the Mongo client pool.
type Options struct {
	MaxPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	PingTimeout            time.Duration
}

// DefaultOptions returns defaults for the API server.
func DefaultOptions() Options {
	return Options{
		MaxPoolSize:            20,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		PingTimeout:            5 * time.Second,
	}
}

// Connect dials MongoDB, verifies the primary is reachable and returns the named database.
func Connect(ctx context.Context, uri, database string, opts Options) (*mongo.Client, *mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("MONGO_URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, nil, fmt.Errorf("MONGO_DATABASE is empty")
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	telemetry.Info("mongo.init", map[string]any{"database": database})
	return client, client.Database(database), nil
}
