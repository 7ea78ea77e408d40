package store

import (
	"fmt"
	"os"
	"testing"

	"fedbox/internal/db"
	"fedbox/internal/env"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var s *Store

func TestMain(m *testing.M) {
	env.Init("", "test")

	if env.MONGO_URI == "" {
		fmt.Println("MONGO_URI not set; skipping store tests")
		os.Exit(0)
	}

	if err := db.InitDB("test"); err != nil {
		fmt.Println("could not connect to mongodb:", err)
		os.Exit(1)
	}

	s = New(db.Objects, db.Streams)
	if err := s.EnsureIndexes(db.Ctx); err != nil {
		fmt.Println("could not ensure indexes:", err)
		os.Exit(1)
	}

	code := m.Run()
	db.CloseDB()
	os.Exit(code)
}

func newID() string {
	return "https://localhost/o/" + uuid.NewString()
}

func TestSaveIsIdempotent(t *testing.T) {
	doc := bson.M{"id": newID(), "type": "Note", "content": "first"}

	created, err := s.Save(db.Ctx, doc)
	require.NoError(t, err)
	require.True(t, created)

	// second create with the same id mutates nothing and signals non-creation
	dup := bson.M{"id": doc["id"], "type": "Note", "content": "second"}
	created, err = s.Save(db.Ctx, dup)
	require.NoError(t, err)
	require.False(t, created)

	stored, err := s.Get(db.Ctx, doc["id"].(string), false)
	require.NoError(t, err)
	require.Equal(t, "first", stored["content"])
}

func TestGetHidesMetaByDefault(t *testing.T) {
	id := newID()
	doc := bson.M{
		"id":    id,
		"type":  "Person",
		"_meta": bson.M{"privateKey": "very secret"},
	}

	_, err := s.Save(db.Ctx, doc)
	require.NoError(t, err)

	plain, err := s.Get(db.Ctx, id, false)
	require.NoError(t, err)
	_, hasMeta := plain["_meta"]
	require.False(t, hasMeta)
	_, hasMongoID := plain["_id"]
	require.False(t, hasMongoID)

	privileged, err := s.Get(db.Ctx, id, true)
	require.NoError(t, err)
	meta, ok := privileged["_meta"].(bson.M)
	require.True(t, ok)
	require.Equal(t, "very secret", meta["privateKey"])
	_, hasMongoID = privileged["_id"]
	require.False(t, hasMongoID)
}

func TestGetAbsent(t *testing.T) {
	doc, err := s.Get(db.Ctx, newID(), false)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestUpdatePatchSemantics(t *testing.T) {
	id := newID()
	owner := "https://localhost/u/owner"
	doc := bson.M{
		"id":           id,
		"type":         "Note",
		"attributedTo": owner,
		"content":      "original",
		"summary":      "to be removed",
	}
	_, err := s.Save(db.Ctx, doc)
	require.NoError(t, err)

	// nil value removes the field, everything else overwrites
	updated, err := s.Update(db.Ctx, bson.M{
		"id":      id,
		"content": "patched",
		"summary": nil,
	}, owner)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "patched", updated["content"])
	_, hasSummary := updated["summary"]
	require.False(t, hasSummary)
}

func TestUpdateByNonOwnerMatchesNothing(t *testing.T) {
	id := newID()
	owner := "https://localhost/u/owner"
	_, err := s.Save(db.Ctx, bson.M{
		"id":           id,
		"type":         "Note",
		"attributedTo": owner,
		"content":      "original",
	})
	require.NoError(t, err)

	updated, err := s.Update(db.Ctx, bson.M{
		"id":      id,
		"content": "hijacked",
	}, "https://localhost/u/intruder")
	require.NoError(t, err)
	require.Nil(t, updated)

	// indistinguishable from patching a document that doesn't exist
	absent, err := s.Update(db.Ctx, bson.M{
		"id":      newID(),
		"content": "whatever",
	}, "https://localhost/u/intruder")
	require.NoError(t, err)
	require.Nil(t, absent)

	stored, err := s.Get(db.Ctx, id, false)
	require.NoError(t, err)
	require.Equal(t, "original", stored["content"])
}

func TestUpdateActorSelfManagement(t *testing.T) {
	actorID := "https://localhost/u/" + uuid.NewString()
	_, err := s.Save(db.Ctx, bson.M{
		"id":   actorID,
		"type": "Person",
		"name": "before",
	})
	require.NoError(t, err)

	// actor records have no attributedTo; id == actorId authorizes the patch
	updated, err := s.Update(db.Ctx, bson.M{
		"id":   actorID,
		"name": "after",
	}, actorID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "after", updated["name"])
}

func TestStreamAddAndQuery(t *testing.T) {
	owner := "https://localhost/u/" + uuid.NewString()

	var ids []string
	for i := 0; i < 3; i++ {
		id := "https://localhost/s/" + uuid.NewString()
		ids = append(ids, id)
		created, err := s.AddToStream(db.Ctx, owner, bson.M{
			"id":    id,
			"type":  "Create",
			"actor": owner,
		})
		require.NoError(t, err)
		require.True(t, created)
	}

	// adding the same activity again is a no-op
	created, err := s.AddToStream(db.Ctx, owner, bson.M{
		"id":   ids[0],
		"type": "Create",
	})
	require.NoError(t, err)
	require.False(t, created)

	total, err := s.CountOutbox(db.Ctx, owner)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	entries, err := s.QueryOutbox(db.Ctx, owner, 0, 50)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// most recent first, and no storage-internal fields
	require.Equal(t, ids[2], entries[0]["id"])
	require.Equal(t, ids[1], entries[1]["id"])
	require.Equal(t, ids[0], entries[2]["id"])
	for _, entry := range entries {
		_, hasOwner := entry["_owner"]
		require.False(t, hasOwner)
		_, hasMongoID := entry["_id"]
		require.False(t, hasMongoID)
	}
}

func TestStreamPagination(t *testing.T) {
	owner := "https://localhost/u/" + uuid.NewString()

	for i := 0; i < 5; i++ {
		_, err := s.AddToStream(db.Ctx, owner, bson.M{
			"id":   "https://localhost/s/" + uuid.NewString(),
			"type": "Create",
			"seq":  int32(i),
		})
		require.NoError(t, err)
	}

	first, err := s.QueryOutbox(db.Ctx, owner, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, int32(4), first[0]["seq"])

	last, err := s.QueryOutbox(db.Ctx, owner, 4, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, int32(0), last[0]["seq"])
}
