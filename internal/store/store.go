package store

import (
	"context"

	"fedbox/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the keyed-document persistence layer. Handles are injected once
// at startup; every operation keys on the document's own `id` field, never
// the storage id.
type Store struct {
	Objects *mongo.Collection
	Streams *mongo.Collection
}

func New(objects *mongo.Collection, streams *mongo.Collection) *Store {
	return &Store{
		Objects: objects,
		Streams: streams,
	}
}

// strict projections: the default path hides _meta so private keys are never
// returned on accident; the privileged path still hides the storage id.
var (
	proj     = bson.M{"_id": 0, "_meta": 0}
	metaProj = bson.M{"_id": 0}
)

// Get looks up a document by id. Absent documents yield (nil, nil). Only
// pass includeMeta=true on internal paths that genuinely need the private
// metadata block, such as signing-key retrieval.
func (s *Store) Get(ctx context.Context, id string, includeMeta bool) (bson.M, error) {
	projection := proj
	if includeMeta {
		projection = metaProj
	}

	var doc bson.M
	err := s.Objects.FindOne(ctx,
		bson.M{"id": id},
		options.FindOne().SetProjection(projection),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Save inserts a document unless one with the same id already exists.
// A duplicate is a no-op, not an error: created=false tells the caller the
// document was already there, which retried submissions rely on.
func (s *Store) Save(ctx context.Context, doc bson.M) (bool, error) {
	exists, err := s.exists(ctx, s.Objects, models.ID(doc))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = s.Objects.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Update applies a field-level patch to the document identified by
// partial["id"]. A nil field value removes that field; any other value
// overwrites it. Setting a field to a JSON null is not expressible through
// this contract.
//
// The patch only matches when the target's attributedTo equals actorID, or
// the target is the actor's own record (id == actorID). An unauthorized
// patch and a missing document are deliberately the same outcome, (nil, nil),
// so non-owners learn nothing about what exists.
func (s *Store) Update(ctx context.Context, partial bson.M, actorID string) (bson.M, error) {
	id := models.ID(partial)

	set := bson.M{}
	unset := bson.M{}
	for key, value := range partial {
		if key == "id" {
			continue
		}
		if value == nil {
			unset[key] = ""
		} else {
			set[key] = value
		}
	}

	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"attributedTo": actorID},
			bson.M{"id": actorID},
		},
	}

	op := bson.M{}
	if len(set) > 0 {
		op["$set"] = set
	}
	if len(unset) > 0 {
		op["$unset"] = unset
	}
	if len(op) == 0 {
		// nothing to change; still collapse absent and unauthorized
		var doc bson.M
		err := s.Objects.FindOne(ctx, filter,
			options.FindOne().SetProjection(proj),
		).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return doc, err
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(proj)

	var updated bson.M
	err := s.Objects.FindOneAndUpdate(ctx, filter, op, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Store) exists(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	err := coll.FindOne(ctx,
		bson.M{"id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
