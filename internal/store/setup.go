package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique id indexes backing idempotent create,
// plus the owner index outbox queries run against.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Objects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.Streams.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "_owner", Value: 1}},
		},
	})

	return err
}

// SetupActor persists a provisioned local actor document. Safe to call on
// every boot; an existing actor is left untouched.
func (s *Store) SetupActor(ctx context.Context, actor bson.M) (bool, error) {
	return s.Save(ctx, actor)
}
