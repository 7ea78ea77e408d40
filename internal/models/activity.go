package models

import (
	"mime"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Media types recognized for ActivityStreams payloads. Anything else never
// reaches validation; the transport answers 404 as if the route didn't match.
var jsonldMediaTypes = map[string]bool{
	"application/activity+json": true,
	"application/ld+json":       true,
}

const ContentTypeActivityJSON = "application/activity+json"

func IsActivityStreamsMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return jsonldMediaTypes[strings.ToLower(mediaType)]
}

var activityTypes = map[string]bool{
	"Accept": true, "Add": true, "Announce": true, "Arrive": true,
	"Block": true, "Create": true, "Delete": true, "Dislike": true,
	"Flag": true, "Follow": true, "Ignore": true, "Invite": true,
	"Join": true, "Leave": true, "Like": true, "Listen": true,
	"Move": true, "Offer": true, "Question": true, "Read": true,
	"Reject": true, "Remove": true, "TentativeAccept": true,
	"TentativeReject": true, "Travel": true, "Undo": true,
	"Update": true, "View": true,
}

var objectTypes = map[string]bool{
	"Article": true, "Audio": true, "Document": true, "Event": true,
	"Image": true, "Note": true, "Page": true, "Place": true,
	"Profile": true, "Relationship": true, "Tombstone": true,
	"Video": true, "Person": true, "Application": true, "Group": true,
	"Organization": true, "Service": true, "Collection": true,
	"OrderedCollection": true,
}

func TypeOf(doc bson.M) string {
	t, _ := doc["type"].(string)
	return t
}

func IsActivity(doc bson.M) bool {
	return activityTypes[TypeOf(doc)]
}

// IsValidPayload reports whether a submitted payload carries a recognized
// type at all, activity or object.
func IsValidPayload(doc bson.M) bool {
	t := TypeOf(doc)
	return activityTypes[t] || objectTypes[t]
}

// AddressFields are the activity addressing fields, in canonical order.
var AddressFields = []string{"to", "cc", "bto", "bcc", "audience"}

var publicMarkers = map[string]bool{
	"https://www.w3.org/ns/activitystreams#Public": true,
	"as:Public": true,
	"Public":    true,
}

func IsPublicMarker(iri string) bool {
	return publicMarkers[iri]
}

// WrapInCreate synthesizes a Create activity around a bare object. The
// addressing fields are copied from the object so delivery targets the same
// audience the object named.
func WrapInCreate(object bson.M, actorID string) bson.M {
	activity := bson.M{
		"@context": ContextActivityStreams,
		"type":     "Create",
		"actor":    actorID,
		"object":   object,
	}
	for _, field := range AddressFields {
		if value, ok := object[field]; ok {
			activity[field] = value
		}
	}
	return activity
}

// EmbeddedObject returns the activity's embedded object when it is a full
// document rather than a bare IRI reference.
func EmbeddedObject(activity bson.M) (bson.M, bool) {
	switch object := activity["object"].(type) {
	case bson.M:
		return object, true
	case map[string]any:
		return bson.M(object), true
	default:
		return nil, false
	}
}

// Addressees expands to/cc/bto/bcc/audience into the distinct set of
// recipient IRIs, preserving first-seen order. Public-collection markers and
// local IRIs do not resolve to a network endpoint and are excluded.
func Addressees(activity bson.M) []string {
	seen := map[string]bool{}
	var recipients []string

	add := func(iri string) {
		if iri == "" || seen[iri] || IsPublicMarker(iri) || IsLocalIRI(iri) {
			return
		}
		seen[iri] = true
		recipients = append(recipients, iri)
	}

	for _, field := range AddressFields {
		value, ok := activity[field]
		if !ok {
			continue
		}
		for _, iri := range flattenIRIs(value) {
			add(iri)
		}
	}

	return recipients
}

func flattenIRIs(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		var iris []string
		for _, item := range v {
			iris = append(iris, flattenIRIs(item)...)
		}
		return iris
	case []string:
		return v
	case bson.M:
		if id, ok := v["id"].(string); ok {
			return []string{id}
		}
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return []string{id}
		}
	}
	return nil
}
