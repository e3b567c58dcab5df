package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"profile-service/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Client owns the MongoDB connection for the process. It is constructed once
// at startup and handed to the repositories; there is no package-level
// connection state.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

func Connect(ctx context.Context, cfg config.MongoDBConfig) (*Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetCompressors([]string{"zstd", "snappy", "zlib"}).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		log.Printf("Warning: Could not verify MongoDB connection: %s", err)
	} else {
		log.Println("Successfully connected to MongoDB")
	}

	log.Printf("MongoDB initialized - Database: %s, Max Pool Size: %d", cfg.Database, cfg.MaxPoolSize)

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.database
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

func (c *Client) Disconnect(ctx context.Context) {
	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.client.Disconnect(disconnectCtx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %s", err)
	} else {
		log.Println("Successfully disconnected from MongoDB")
	}
}

func (c *Client) IsConnected(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return c.client.Ping(pingCtx, nil) == nil
}
