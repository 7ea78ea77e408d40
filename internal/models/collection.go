package models

import "go.mongodb.org/mongo-driver/bson"

type OrderedCollection struct {
	Context      any      `json:"@context"`
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	TotalItems   int64    `json:"totalItems"`
	First        string   `json:"first,omitempty"`
	OrderedItems []bson.M `json:"orderedItems,omitempty"`
}

type OrderedCollectionPage struct {
	Context      any      `json:"@context"`
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	PartOf       string   `json:"partOf"`
	Prev         string   `json:"prev,omitempty"`
	Next         string   `json:"next,omitempty"`
	OrderedItems []bson.M `json:"orderedItems"`
}
