package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the MongoDB Backend. It owns the client connection.
type Store struct {
	client        *mongo.Client
	items         *mongo.Collection
	subscriptions *mongo.Collection
	logger        *slog.Logger
}

var _ store.Backend = (*Store)(nil)

// Connect opens a client for cfg, verifies it with a ping and ensures the
// owner index on the items collection exists.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	uri, err := cfg.ConnectionURI()
	if err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetTimeout(cfg.OperationTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", MapError(err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", MapError(err))
	}

	db := client.Database(cfg.Name)
	s := New(client, db.Collection(cfg.ItemsCollection), db.Collection(cfg.SubscriptionsCollection), logger)

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info("mongodb connection established",
		slog.String("database", cfg.Name),
		slog.String("items_collection", cfg.ItemsCollection),
		slog.String("subscriptions_collection", cfg.SubscriptionsCollection))

	return s, nil
}

// New wraps existing collections. The client may be nil when the caller
// manages the connection lifecycle itself.
func New(client *mongo.Client, items, subscriptions *mongo.Collection, logger *slog.Logger) *Store {
	if items == nil || subscriptions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collections cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:        client,
		items:         items,
		subscriptions: subscriptions,
		logger:        logger.With(slog.String("component", "mongodb_store")),
	}
}

// EnsureIndexes creates the userEmail index used by owner listings and counts.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: fieldUserEmail, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create userEmail index: %w", MapError(err))
	}
	return nil
}

// Ping implements store.ItemStore.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return MapError(s.client.Ping(ctx, readpref.Primary()))
}

// Close implements store.Backend.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	s.logger.Info("mongodb connection closed")
	return nil
}
