package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

const activityCollection = "activity_events"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{db: db}
}

// Insert persists an auth event to the activity_events audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, event *domain.ActivityEvent) error {
	doc := bson.M{
		"username":    event.Username,
		"client_id":   event.ClientID,
		"action":      string(event.Action),
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	_, err := r.db.Collection(activityCollection).InsertOne(ctx, doc)
	return err
}
