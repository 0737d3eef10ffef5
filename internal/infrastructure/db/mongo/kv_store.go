package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollection = "kv_entries"

type kvEntry struct {
	Key       string     `bson:"_id"`
	Value     string     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// Store is a key/value store backed by a single MongoDB collection.
// Expired entries are removed by a TTL index and hidden from reads until then.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(kvCollection), now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find %s: %w", key, err)
	}
	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		return "", false, nil
	}
	return e.Value, true, nil
}

// Set upserts value. A ttl of zero clears any previous expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	update := bson.M{"$set": bson.M{"value": value}}
	if ttl > 0 {
		update["$set"] = bson.M{"value": value, "expires_at": s.now().Add(ttl).UTC()}
	} else {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
