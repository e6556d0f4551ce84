package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	ProductionCollection = "production_records"
	RFTCollection        = "rft_records"
	SettingsCollection   = "settings"
)

// MongoDBRepository stores records and settings in one MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials uri, verifies the connection and returns a repository on
// database dbName.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := NewRepository(client.Database(dbName), logger)
	repo.client = client
	return repo, nil
}

// NewRepository wraps an existing database handle.
func NewRepository(db *mongo.Database, logger *zap.Logger) *MongoDBRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoDBRepository{db: db, logger: logger}
}

// EnsureIndexes creates the date lookup indexes.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	for _, name := range []string{ProductionCollection, RFTCollection} {
		_, err := r.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "date", Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("create date index on %s: %w", name, err)
		}
	}
	return nil
}

// Ping checks the connection.
func (r *MongoDBRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) upsert(ctx context.Context, collection, id string, doc any) error {
	started := time.Now()
	_, err := r.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", collection, id, err)
	}
	r.logger.Debug("document upserted",
		zap.String("collection", collection),
		zap.String("id", id),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (r *MongoDBRepository) deleteByID(ctx context.Context, collection, id string) (bool, error) {
	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return res.DeletedCount > 0, nil
}
