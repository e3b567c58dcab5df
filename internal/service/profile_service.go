package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"profile-service/internal/event"
	"profile-service/internal/models"
	"profile-service/internal/reporsitory"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileStore is the slice of the profile repository the service consumes.
type ProfileStore interface {
	FindByOwner(ctx context.Context, userID string) (*models.Profile, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Profile, error)
	Upsert(ctx context.Context, userID string, set bson.M) (*models.Profile, error)
	AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID string, expID bson.ObjectID) (*models.Profile, error)
	DeleteByOwner(ctx context.Context, userID string) error
}

type AccountStore interface {
	FindByID(ctx context.Context, userID string) (*models.Account, error)
	Delete(ctx context.Context, userID string) error
}

type PostStore interface {
	DeleteByAuthor(ctx context.Context, userID string) (int64, error)
}

type ProfileCache interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Set(ctx context.Context, profile *models.Profile) error
	Invalidate(ctx context.Context, userID string) error
}

type ProfileService struct {
	profiles  ProfileStore
	accounts  AccountStore
	posts     PostStore
	cache     ProfileCache
	publisher event.Publisher
}

func NewProfileService(profiles ProfileStore, accounts AccountStore, posts PostStore, cache ProfileCache, publisher event.Publisher) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		accounts:  accounts,
		posts:     posts,
		cache:     cache,
		publisher: publisher,
	}
}

// GetByOwner returns the owner's profile enriched with the account's display
// fields. Cache reads are best-effort; any cache failure falls through to
// Mongo.
func (s *ProfileService) GetByOwner(ctx context.Context, userID string) (*models.EnrichedProfile, error) {
	if userID == "" {
		return nil, models.ErrProfileNotFound
	}

	profile, err := s.cachedFindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, profile), nil
}

// List returns all profiles, account-enriched, newest first.
func (s *ProfileService) List(ctx context.Context, page, limit int) ([]*models.EnrichedProfile, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	profiles, err := s.profiles.FindAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	enriched := make([]*models.EnrichedProfile, 0, len(profiles))
	for _, p := range profiles {
		enriched = append(enriched, s.enrich(ctx, p))
	}
	return enriched, nil
}

// Upsert creates the owner's profile or merges the present fields into the
// existing one. The owner key itself is only ever written at creation.
func (s *ProfileService) Upsert(ctx context.Context, userID string, dto *models.ProfileDTO) (*models.Profile, error) {
	set, changed := buildSetDocument(dto)

	profile, err := s.profiles.Upsert(ctx, userID, set)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)

	eventType := models.EventTypeProfileUpdated
	if profile.Metadata.CreatedAt == profile.Metadata.UpdatedAt {
		eventType = models.EventTypeProfileCreated
	}
	s.publish(&models.ProfileEvent{
		EventType:     eventType,
		ProfileID:     profile.ID.Hex(),
		UserID:        userID,
		Timestamp:     time.Now(),
		ChangedFields: changed,
	})

	return profile, nil
}

// AddExperience validates the entry, assigns it an identity, and prepends it
// to the owner's list, creating the profile if this is the owner's first
// write.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error) {
	if err := validateExperience(req); err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          bson.NewObjectID(),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		From:        req.From,
		To:          req.To,
	}

	profile, err := s.profiles.AddExperience(ctx, userID, exp)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(&models.ProfileEvent{
		EventType:    models.EventTypeExperienceAdded,
		ProfileID:    profile.ID.Hex(),
		UserID:       userID,
		Timestamp:    time.Now(),
		ExperienceID: exp.ID.Hex(),
	})

	return profile, nil
}

// RemoveExperience drops the identified entry from the owner's list. A
// missing profile is ErrProfileNotFound; a present profile without the entry
// is ErrExperienceNotFound.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error) {
	expID, err := bson.ObjectIDFromHex(experienceID)
	if err != nil {
		// An unparsable id can never match an entry.
		return nil, models.ErrExperienceNotFound
	}

	profile, err := s.profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(&models.ProfileEvent{
		EventType:    models.EventTypeExperienceRemoved,
		ProfileID:    profile.ID.Hex(),
		UserID:       userID,
		Timestamp:    time.Now(),
		ExperienceID: experienceID,
	})

	return profile, nil
}

// DeleteCascade removes the owner's posts, profile, and account record, in
// that order. Each step treats already-absent data as success, so a retry
// after a partial failure completes the remainder instead of erroring on the
// steps that already ran. No step is rolled back.
func (s *ProfileService) DeleteCascade(ctx context.Context, userID string) error {
	deleted, err := s.posts.DeleteByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("cascade delete for user %s stopped at posts: %w", userID, err)
	}
	log.Printf("Cascade delete for user %s: removed %d posts", userID, deleted)

	if err := s.profiles.DeleteByOwner(ctx, userID); err != nil && !errors.Is(err, models.ErrProfileNotFound) {
		return fmt.Errorf("cascade delete for user %s stopped at profile: %w", userID, err)
	}
	s.invalidate(ctx, userID)

	if err := s.accounts.Delete(ctx, userID); err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		return fmt.Errorf("cascade delete for user %s stopped at account: %w", userID, err)
	}

	s.publish(&models.ProfileEvent{
		EventType: models.EventTypeProfileDeleted,
		UserID:    userID,
		Timestamp: time.Now(),
	})

	return nil
}

func validateExperience(req *models.AddExperienceRequest) error {
	verr := &models.ValidationError{}

	if strings.TrimSpace(req.Location) == "" {
		verr.Add("location", "Location is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		verr.Add("description", "Description is required")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *ProfileService) cachedFindByOwner(ctx context.Context, userID string) (*models.Profile, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, reporsitory.ErrCacheMiss) {
			log.Printf("Cache read failed for user %s: %v", userID, err)
		}
	}

	profile, err := s.profiles.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			log.Printf("Cache write failed for user %s: %v", userID, err)
		}
	}
	return profile, nil
}

func (s *ProfileService) enrich(ctx context.Context, profile *models.Profile) *models.EnrichedProfile {
	result := &models.EnrichedProfile{Profile: *profile}

	account, err := s.accounts.FindByID(ctx, profile.UserID)
	if err != nil {
		if !errors.Is(err, models.ErrAccountNotFound) {
			log.Printf("Account lookup failed for user %s: %v", profile.UserID, err)
		}
		return result
	}

	result.User = &models.AccountSummary{
		Name:   account.Name,
		Avatar: account.Avatar,
	}
	return result
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("Cache invalidation failed for user %s: %v", userID, err)
	}
}

func (s *ProfileService) publish(e *models.ProfileEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProfileEvent(e); err != nil {
		log.Printf("Failed to publish event %s for user %s: %v", e.EventType, e.UserID, err)
	}
}
