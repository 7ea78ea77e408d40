package store

import (
	"context"

	"fedbox/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// stream entries hide the owner index key too
var streamProj = bson.M{"_id": 0, "_meta": 0, "_owner": 0}

// AddToStream records an activity as an outbox entry for owner. The owner
// IRI goes into a dedicated index key so outbox queries never have to
// interpret activity semantics. Idempotent on the activity id.
func (s *Store) AddToStream(ctx context.Context, owner string, activity bson.M) (bool, error) {
	exists, err := s.exists(ctx, s.Streams, models.ID(activity))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	entry := bson.M{}
	for key, value := range activity {
		entry[key] = value
	}
	entry[models.FieldOwner] = owner

	_, err = s.Streams.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// QueryOutbox returns one page of an actor's stream entries, most recent
// first, with storage-internal fields projected out.
func (s *Store) QueryOutbox(ctx context.Context, owner string, skip int64, limit int64) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetProjection(streamProj).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.Streams.Find(ctx, bson.M{models.FieldOwner: owner}, opts)
	if err != nil {
		return nil, err
	}

	entries := []bson.M{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Store) CountOutbox(ctx context.Context, owner string) (int64, error) {
	return s.Streams.CountDocuments(ctx, bson.M{models.FieldOwner: owner})
}

// GetActivity looks up a single stream entry by activity id, hidden fields
// stripped. Absent yields (nil, nil).
func (s *Store) GetActivity(ctx context.Context, id string) (bson.M, error) {
	var entry bson.M
	err := s.Streams.FindOne(ctx,
		bson.M{"id": id},
		options.FindOne().SetProjection(streamProj),
	).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}
