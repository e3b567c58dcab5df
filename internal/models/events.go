package models

import (
	"time"
)

type EventType string

const (
	EventTypeProfileCreated    EventType = "profile.created"
	EventTypeProfileUpdated    EventType = "profile.updated"
	EventTypeProfileDeleted    EventType = "profile.deleted"
	EventTypeExperienceAdded   EventType = "profile.experience.added"
	EventTypeExperienceRemoved EventType = "profile.experience.removed"

	EventTypeUserRegistered EventType = "user.registered"
)

type ProfileEvent struct {
	EventType     EventType `json:"eventType"`
	ProfileID     string    `json:"profileId"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
	ExperienceID  string    `json:"experienceId,omitempty"`
	ChangedFields []string  `json:"changedFields,omitempty"`
}

type UserRegisterEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}
