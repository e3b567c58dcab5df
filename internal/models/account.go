package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account mirrors the record the auth side keeps for a registered user. The
// profile service reads it for display enrichment and deletes it as the last
// step of a cascade delete; it never creates accounts outside of the
// user.registered event handler.
type Account struct {
	ID       string   `json:"id" bson:"_id"`
	Name     string   `json:"name" bson:"name"`
	Email    string   `json:"email,omitempty" bson:"email,omitempty"`
	Avatar   string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Metadata Metadata `json:"metadata" bson:"metadata"`
}

type Post struct {
	ID       bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID   string        `json:"userId" bson:"userId"`
	Text     string        `json:"text" bson:"text"`
	Metadata Metadata      `json:"metadata" bson:"metadata"`
}
