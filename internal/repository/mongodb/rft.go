package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// ListRFT returns every RFT report.
func (r *MongoDBRepository) ListRFT(ctx context.Context) ([]models.RFTReportRecord, error) {
	cursor, err := r.db.Collection(RFTCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query rft records: %w", err)
	}
	records := []models.RFTReportRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode rft records: %w", err)
	}
	return records, nil
}

// UpsertRFT writes rec under its id.
func (r *MongoDBRepository) UpsertRFT(ctx context.Context, rec models.RFTReportRecord) error {
	return r.upsert(ctx, RFTCollection, rec.ID, rec)
}

// DeleteRFT removes the report id.
func (r *MongoDBRepository) DeleteRFT(ctx context.Context, id string) error {
	deleted, err := r.deleteByID(ctx, RFTCollection, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrNotFound
	}
	return nil
}
