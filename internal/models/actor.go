package models

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"fedbox/internal/env"

	"go.mongodb.org/mongo-driver/bson"
)

// RemoteActor is the decoded view of a dereferenced remote actor document,
// just enough to find its delivery endpoint and published key.
type RemoteActor struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Inbox     string `json:"inbox"`
	Endpoints struct {
		SharedInbox string `json:"sharedInbox"`
	} `json:"endpoints"`
	PublicKey PublicKey `json:"publicKey"`
}

type PublicKey struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// KeyID is the identifier deliveries sign with, resolvable by recipients to
// the actor's published public key.
func KeyID(actorID string) string {
	return actorID + "#main-key"
}

// NewLocalActor builds a complete local actor document with a fresh RSA
// keypair. The private key lives only in the _meta block.
func NewLocalActor(username string) (bson.M, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	id := ActorIRI(username)

	return bson.M{
		"@context":          DefaultContext(),
		"id":                id,
		"type":              "Person",
		"preferredUsername": username,
		"name":              username,
		"inbox":             fmt.Sprintf("https://%s/inbox/%s", env.DOMAIN, username),
		"outbox":            fmt.Sprintf("https://%s/outbox/%s", env.DOMAIN, username),
		"followers":         id + "/followers",
		"following":         id + "/following",
		"liked":             id + "/liked",
		"publicKey": bson.M{
			"id":           KeyID(id),
			"owner":        id,
			"publicKeyPem": string(pubPEM),
		},
		FieldMeta: bson.M{
			"privateKey": string(privPEM),
		},
	}, nil
}

// PrivateKeyPEM pulls the signing key out of a document fetched through the
// privileged store path.
func PrivateKeyPEM(actor bson.M) string {
	meta, ok := actor[FieldMeta].(bson.M)
	if !ok {
		if m, ok := actor[FieldMeta].(map[string]any); ok {
			meta = bson.M(m)
		} else {
			return ""
		}
	}
	pem, _ := meta["privateKey"].(string)
	return pem
}

func ParseRSAPrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	return key, nil
}

func ParseRSAPublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	return key, nil
}
