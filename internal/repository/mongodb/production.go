package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// ListProduction returns every production record.
func (r *MongoDBRepository) ListProduction(ctx context.Context) ([]models.ProductionRecord, error) {
	cursor, err := r.db.Collection(ProductionCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query production records: %w", err)
	}
	records := []models.ProductionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode production records: %w", err)
	}
	return records, nil
}

// FindProductionByDate returns the record stored under the exact date text.
func (r *MongoDBRepository) FindProductionByDate(ctx context.Context, date string) (models.ProductionRecord, error) {
	var rec models.ProductionRecord
	err := r.db.Collection(ProductionCollection).FindOne(ctx, bson.M{"date": date}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProductionRecord{}, models.ErrNotFound
	}
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("failed to find production record for %q: %w", date, err)
	}
	return rec, nil
}

// UpsertProduction writes rec under its id, replacing any previous version.
func (r *MongoDBRepository) UpsertProduction(ctx context.Context, rec models.ProductionRecord) error {
	return r.upsert(ctx, ProductionCollection, rec.ID, rec)
}

// DeleteProduction removes the record id.
func (r *MongoDBRepository) DeleteProduction(ctx context.Context, id string) error {
	deleted, err := r.deleteByID(ctx, ProductionCollection, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrNotFound
	}
	return nil
}
