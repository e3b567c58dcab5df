package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Experience is embedded in a Profile document. Entries are kept
// newest-first: additions always go to the head of the list.
type Experience struct {
	ID          bson.ObjectID `json:"id" bson:"_id"`
	Location    string        `json:"location" bson:"location"`
	Description string        `json:"description" bson:"description"`
	From        int64         `json:"from,omitempty" bson:"from,omitempty"`
	To          int64         `json:"to,omitempty" bson:"to,omitempty"`
}
