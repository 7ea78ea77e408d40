package outbox_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"fedbox/internal"
	"fedbox/internal/db"
	"fedbox/internal/env"
	"fedbox/internal/models"
	"fedbox/internal/store"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var app *fiber.App
var st *store.Store

func TestMain(m *testing.M) {
	if os.Getenv("MONGO_URI") == "" {
		fmt.Println("MONGO_URI not set; skipping outbox tests")
		os.Exit(0)
	}

	app = internal.SetupApp("test", "", "test")
	st = store.New(db.Objects, db.Streams)

	code := m.Run()
	db.CloseDB()
	os.Exit(code)
}

// provisionActor creates a throwaway local actor so counts stay
// deterministic per test.
func provisionActor(t *testing.T) (name string, id string) {
	name = "dummy-" + uuid.NewString()[:8]

	actor, err := models.NewLocalActor(name)
	require.NoError(t, err)

	created, err := st.SetupActor(db.Ctx, actor)
	require.NoError(t, err)
	require.True(t, created)

	return name, models.ID(actor)
}

func runRequest(
	t *testing.T,
	method string,
	path string,
	sendBytes []byte,
	contentType string,
) (bodyBytes []byte, statusCode int) {
	req, err := http.NewRequest(method, path, bytes.NewBuffer(sendBytes))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := app.Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	require.NoError(t, err)

	statusCode = res.StatusCode

	bodyBytes, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	defer res.Body.Close()

	return
}

func testActivity(actorID string) bson.M {
	return bson.M{
		"@context": models.ContextActivityStreams,
		"type":     "Create",
		"to":       []any{"https://ignore.invalid/u/ignored"},
		"actor":    actorID,
		"object": bson.M{
			"type":         "Note",
			"attributedTo": actorID,
			"to":           []any{"https://ignore.invalid/u/ignored"},
			"content":      "Say, did you finish reading that book I lent you?",
		},
	}
}

func postActivity(t *testing.T, actorName string, payload any) ([]byte, int) {
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)
	return runRequest(t, "POST", "/outbox/"+actorName, sendBytes,
		models.ContentTypeActivityJSON)
}

func TestPostOutboxIgnoresInvalidBodyTypes(t *testing.T) {
	name, id := provisionActor(t)

	sendBytes, err := json.Marshal(testActivity(id))
	require.NoError(t, err)

	_, statusCode := runRequest(t, "POST", "/outbox/"+name, sendBytes,
		"application/json")
	require.Equal(t, http.StatusNotFound, statusCode)

	// never reached persistence
	total, err := st.CountOutbox(db.Ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestPostOutboxInvalidActivity(t *testing.T) {
	name, _ := provisionActor(t)

	body, statusCode := postActivity(t, name, bson.M{})
	require.Equal(t, http.StatusBadRequest, statusCode)
	require.Equal(t, "Invalid activity", string(body))
}

func TestPostOutboxUnknownActor(t *testing.T) {
	_, id := provisionActor(t)

	body, statusCode := postActivity(t, "noone", testActivity(id))
	require.Equal(t, http.StatusNotFound, statusCode)
	require.Equal(t, "'noone' not found on this instance", string(body))
}

func TestPostOutboxSavesActivityAndObject(t *testing.T) {
	name, id := provisionActor(t)

	body, statusCode := postActivity(t, name, testActivity(id))
	require.Equal(t, http.StatusOK, statusCode)
	require.Empty(t, body)

	entries, err := st.QueryOutbox(db.Ctx, id, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, "Create", entry["type"])
	require.NotEmpty(t, entry["id"])
	require.Equal(t, id, entry["actor"])

	object, ok := entry["object"].(bson.M)
	require.True(t, ok)
	require.NotEmpty(t, object["id"])
	require.Equal(t, "Say, did you finish reading that book I lent you?",
		object["content"])

	// the embedded object is persisted independently, fetchable by id alone
	stored, err := st.Get(db.Ctx, object["id"].(string), false)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, id, stored["attributedTo"])
	require.Equal(t, object["content"], stored["content"])
}

func TestPostOutboxWrapsBareObject(t *testing.T) {
	name, id := provisionActor(t)

	note := bson.M{
		"type":         "Note",
		"attributedTo": id,
		"to":           []any{"https://ignore.invalid/u/ignored"},
		"content":      "a bare note",
	}

	_, statusCode := postActivity(t, name, note)
	require.Equal(t, http.StatusOK, statusCode)

	entries, err := st.QueryOutbox(db.Ctx, id, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, "Create", entry["type"])
	require.Equal(t, id, entry["actor"])
	require.Equal(t, note["to"], entry["to"])

	object, ok := entry["object"].(bson.M)
	require.True(t, ok)
	require.Equal(t, "Note", object["type"])
	require.Equal(t, "a bare note", object["content"])
}

func TestGetOutboxUnknownActor(t *testing.T) {
	body, statusCode := runRequest(t, "GET", "/outbox/noone", nil, "")
	require.Equal(t, http.StatusNotFound, statusCode)
	require.Equal(t, "'noone' not found on this instance", string(body))
}

func TestGetOutboxOrderedCollection(t *testing.T) {
	name, id := provisionActor(t)

	for i := 1; i <= 3; i++ {
		activity := testActivity(id)
		object := activity["object"].(bson.M)
		object["content"] = fmt.Sprintf("note %d", i)

		_, statusCode := postActivity(t, name, activity)
		require.Equal(t, http.StatusOK, statusCode)
	}

	body, statusCode := runRequest(t, "GET", "/outbox/"+name, nil, "")
	require.Equal(t, http.StatusOK, statusCode)

	var collection struct {
		Type         string           `json:"type"`
		TotalItems   int              `json:"totalItems"`
		OrderedItems []map[string]any `json:"orderedItems"`
	}
	require.NoError(t, json.Unmarshal(body, &collection))

	require.Equal(t, "OrderedCollection", collection.Type)
	require.Equal(t, 3, collection.TotalItems)
	require.Len(t, collection.OrderedItems, 3)

	// reverse chronological, storage internals stripped
	for i, item := range collection.OrderedItems {
		object := item["object"].(map[string]any)
		require.Equal(t, fmt.Sprintf("note %d", 3-i), object["content"])

		_, hasMeta := item["_meta"]
		require.False(t, hasMeta)
		_, hasOwner := item["_owner"]
		require.False(t, hasOwner)
		_, hasMongoID := item["_id"]
		require.False(t, hasMongoID)
	}
}

func TestGetOutboxPagination(t *testing.T) {
	name, id := provisionActor(t)

	oldPageSize := env.OUTBOX_PAGE_SIZE
	env.OUTBOX_PAGE_SIZE = 2
	defer func() { env.OUTBOX_PAGE_SIZE = oldPageSize }()

	for i := 1; i <= 5; i++ {
		activity := testActivity(id)
		activity["object"].(bson.M)["content"] = fmt.Sprintf("note %d", i)

		_, statusCode := postActivity(t, name, activity)
		require.Equal(t, http.StatusOK, statusCode)
	}

	outboxIRI := fmt.Sprintf("https://%s/outbox/%s", env.DOMAIN, name)

	// above the page size the collection links to its first page instead of
	// inlining items
	body, statusCode := runRequest(t, "GET", "/outbox/"+name, nil, "")
	require.Equal(t, http.StatusOK, statusCode)

	var collection struct {
		Type         string           `json:"type"`
		TotalItems   int              `json:"totalItems"`
		First        string           `json:"first"`
		OrderedItems []map[string]any `json:"orderedItems"`
	}
	require.NoError(t, json.Unmarshal(body, &collection))
	require.Equal(t, "OrderedCollection", collection.Type)
	require.Equal(t, 5, collection.TotalItems)
	require.Equal(t, outboxIRI+"?page=1", collection.First)
	require.Empty(t, collection.OrderedItems)

	type collectionPage struct {
		ID           string           `json:"id"`
		Type         string           `json:"type"`
		PartOf       string           `json:"partOf"`
		Prev         string           `json:"prev"`
		Next         string           `json:"next"`
		OrderedItems []map[string]any `json:"orderedItems"`
	}

	getPage := func(n int) collectionPage {
		body, statusCode := runRequest(t, "GET",
			fmt.Sprintf("/outbox/%s?page=%d", name, n), nil, "")
		require.Equal(t, http.StatusOK, statusCode)

		var page collectionPage
		require.NoError(t, json.Unmarshal(body, &page))
		return page
	}

	contents := func(page collectionPage) []string {
		var got []string
		for _, item := range page.OrderedItems {
			object := item["object"].(map[string]any)
			got = append(got, object["content"].(string))
		}
		return got
	}

	first := getPage(1)
	require.Equal(t, "OrderedCollectionPage", first.Type)
	require.Equal(t, outboxIRI+"?page=1", first.ID)
	require.Equal(t, outboxIRI, first.PartOf)
	require.Empty(t, first.Prev)
	require.Equal(t, outboxIRI+"?page=2", first.Next)
	require.Equal(t, []string{"note 5", "note 4"}, contents(first))

	middle := getPage(2)
	require.Equal(t, outboxIRI+"?page=1", middle.Prev)
	require.Equal(t, outboxIRI+"?page=3", middle.Next)
	require.Equal(t, []string{"note 3", "note 2"}, contents(middle))

	last := getPage(3)
	require.Equal(t, outboxIRI+"?page=2", last.Prev)
	require.Empty(t, last.Next)
	require.Equal(t, []string{"note 1"}, contents(last))
}
