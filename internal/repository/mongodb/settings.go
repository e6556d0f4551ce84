package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/settings"
)

const settingsID = "dashboard"

// LoadSettings returns the saved dashboard settings.
func (r *MongoDBRepository) LoadSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	err := r.db.Collection(SettingsCollection).FindOne(ctx, bson.M{"_id": settingsID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return settings.Settings{}, models.ErrNotFound
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// SaveSettings replaces the dashboard settings.
func (r *MongoDBRepository) SaveSettings(ctx context.Context, s settings.Settings) error {
	return r.upsert(ctx, SettingsCollection, settingsID, s)
}
