package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Social struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
}

type Metadata struct {
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

type Profile struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         string        `json:"userId" bson:"userId"`
	Bio            string        `json:"bio,omitempty" bson:"bio,omitempty"`
	Hobbies        string        `json:"hobbies,omitempty" bson:"hobbies,omitempty"`
	Certifications string        `json:"certifications,omitempty" bson:"certifications,omitempty"`
	Why            string        `json:"why,omitempty" bson:"why,omitempty"`
	Location       string        `json:"location,omitempty" bson:"location,omitempty"`
	Education      string        `json:"education,omitempty" bson:"education,omitempty"`
	Avatar         string        `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Social         Social        `json:"social" bson:"social"`
	Experience     []Experience  `json:"experience" bson:"experience"`
	Metadata       Metadata      `json:"metadata" bson:"metadata"`
}

// EnrichedProfile is the read shape returned to callers: the stored profile
// plus the owning account's display fields, joined per response and never
// written back to the Profile collection.
type EnrichedProfile struct {
	Profile
	User *AccountSummary `json:"user,omitempty" bson:"-"`
}

type AccountSummary struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
