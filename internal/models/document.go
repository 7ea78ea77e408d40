package models

import (
	"fmt"

	"fedbox/internal/env"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Storage-internal fields. These never appear in anything returned to a
// caller; _meta is reachable only through the store's privileged accessor.
const (
	FieldMongoID = "_id"
	FieldMeta    = "_meta"
	FieldOwner   = "_owner"
)

const (
	ContextActivityStreams = "https://www.w3.org/ns/activitystreams"
	ContextSecurity        = "https://w3id.org/security/v1"
)

func DefaultContext() []string {
	return []string{ContextActivityStreams, ContextSecurity}
}

// StripHidden removes the storage-internal fields from a document in place
// and returns it for chaining.
func StripHidden(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	delete(doc, FieldMongoID)
	delete(doc, FieldMeta)
	delete(doc, FieldOwner)
	return doc
}

func ActorIRI(username string) string {
	return fmt.Sprintf("https://%s/u/%s", env.DOMAIN, username)
}

func NewActivityIRI() string {
	return fmt.Sprintf("https://%s/s/%s", env.DOMAIN, uuid.NewString())
}

func NewObjectIRI() string {
	return fmt.Sprintf("https://%s/o/%s", env.DOMAIN, uuid.NewString())
}

func ActivityIRI(id string) string {
	return fmt.Sprintf("https://%s/s/%s", env.DOMAIN, id)
}

func ObjectIRI(id string) string {
	return fmt.Sprintf("https://%s/o/%s", env.DOMAIN, id)
}

// IsLocalIRI reports whether an IRI points at this instance.
func IsLocalIRI(iri string) bool {
	prefix := fmt.Sprintf("https://%s/", env.DOMAIN)
	return len(iri) >= len(prefix) && iri[:len(prefix)] == prefix
}

func ID(doc bson.M) string {
	id, _ := doc["id"].(string)
	return id
}
