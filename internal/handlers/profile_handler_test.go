package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"profile-service/internal/event"
	"profile-service/internal/middleware"
	"profile-service/internal/models"
	"profile-service/internal/service"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// stubProfileStore keeps just enough in-memory state to exercise the
// handlers' request parsing and status mapping.
type stubProfileStore struct {
	profiles map[string]*models.Profile
}

func newStubProfileStore() *stubProfileStore {
	return &stubProfileStore{profiles: make(map[string]*models.Profile)}
}

func (s *stubProfileStore) FindByOwner(ctx context.Context, userID string) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	return p, nil
}

func (s *stubProfileStore) FindAll(ctx context.Context, page, limit int) ([]*models.Profile, error) {
	var all []*models.Profile
	for _, p := range s.profiles {
		all = append(all, p)
	}
	return all, nil
}

func (s *stubProfileStore) Upsert(ctx context.Context, userID string, set bson.M) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		now := time.Now().Unix()
		p = &models.Profile{
			ID:       bson.NewObjectID(),
			UserID:   userID,
			Metadata: models.Metadata{CreatedAt: now, UpdatedAt: now},
		}
		s.profiles[userID] = p
	}
	if bio, ok := set["bio"].(string); ok {
		p.Bio = bio
	}
	return p, nil
}

func (s *stubProfileStore) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		p = &models.Profile{ID: bson.NewObjectID(), UserID: userID}
		s.profiles[userID] = p
	}
	p.Experience = append([]models.Experience{exp}, p.Experience...)
	return p, nil
}

func (s *stubProfileStore) RemoveExperience(ctx context.Context, userID string, expID bson.ObjectID) (*models.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	for i, exp := range p.Experience {
		if exp.ID == expID {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return p, nil
		}
	}
	return nil, models.ErrExperienceNotFound
}

func (s *stubProfileStore) DeleteByOwner(ctx context.Context, userID string) error {
	if _, ok := s.profiles[userID]; !ok {
		return models.ErrProfileNotFound
	}
	delete(s.profiles, userID)
	return nil
}

type stubAccountStore struct{}

func (stubAccountStore) FindByID(ctx context.Context, userID string) (*models.Account, error) {
	return nil, models.ErrAccountNotFound
}

func (stubAccountStore) Delete(ctx context.Context, userID string) error {
	return models.ErrAccountNotFound
}

type stubPostStore struct{}

func (stubPostStore) DeleteByAuthor(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func newTestApp(store *stubProfileStore) *fiber.App {
	svc := service.NewProfileService(store, stubAccountStore{}, stubPostStore{}, nil, event.NewMockPublisher())
	app := fiber.New()
	NewProfileHandler(svc).RegisterRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, userID string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
		req.Header.Set(middleware.PermissionsHeader, "update:profile,delete:profile")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		json.Unmarshal(data, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestGetMeNotFound(t *testing.T) {
	app := newTestApp(newStubProfileStore())

	status, _ := doRequest(t, app, "GET", "/protected/profiles/me", "user-1", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for a user without a profile, got %d", status)
	}
}

func TestGetMeUnauthenticated(t *testing.T) {
	app := newTestApp(newStubProfileStore())

	status, _ := doRequest(t, app, "GET", "/protected/profiles/me", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without identity, got %d", status)
	}
}

func TestUpsertMeThenGetMe(t *testing.T) {
	app := newTestApp(newStubProfileStore())

	status, _ := doRequest(t, app, "POST", "/protected/profiles/me", "user-1", map[string]any{
		"profile": map[string]any{"bio": "hello"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on upsert, got %d", status)
	}

	status, body := doRequest(t, app, "GET", "/protected/profiles/me", "user-1", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 after upsert, got %d", status)
	}

	data := body["data"].(map[string]any)
	profile := data["profile"].(map[string]any)
	if profile["bio"] != "hello" {
		t.Errorf("Expected persisted bio, got %v", profile["bio"])
	}
}

func TestAddExperienceValidationResponse(t *testing.T) {
	app := newTestApp(newStubProfileStore())

	status, body := doRequest(t, app, "PUT", "/protected/profiles/me/experience", "user-1", map[string]any{
		"location": "",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400 for missing fields, got %d", status)
	}

	fieldErrors, ok := body["errors"].([]any)
	if !ok {
		t.Fatalf("Expected a structured errors list, got %v", body)
	}
	if len(fieldErrors) != 2 {
		t.Errorf("Expected 2 field errors, got %d", len(fieldErrors))
	}
}

func TestRemoveExperienceStatusMapping(t *testing.T) {
	store := newStubProfileStore()
	app := newTestApp(store)

	// No profile at all.
	status, _ := doRequest(t, app, "DELETE", "/protected/profiles/me/experience/"+bson.NewObjectID().Hex(), "user-1", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for a missing profile, got %d", status)
	}

	status, _ = doRequest(t, app, "PUT", "/protected/profiles/me/experience", "user-1", map[string]any{
		"location":    "l",
		"description": "d",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 adding experience, got %d", status)
	}

	// Profile exists but the entry does not.
	status, _ = doRequest(t, app, "DELETE", "/protected/profiles/me/experience/"+bson.NewObjectID().Hex(), "user-1", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for an unknown entry, got %d", status)
	}

	expID := store.profiles["user-1"].Experience[0].ID.Hex()
	status, _ = doRequest(t, app, "DELETE", "/protected/profiles/me/experience/"+expID, "user-1", nil)
	if status != fiber.StatusOK {
		t.Errorf("Expected 200 removing an existing entry, got %d", status)
	}
}

func TestUpsertByOwnerEnforcesOwnership(t *testing.T) {
	store := newStubProfileStore()
	app := newTestApp(store)

	payload := map[string]any{
		"profile": map[string]any{"bio": "hello"},
	}

	status, _ := doRequest(t, app, "PUT", "/protected/profiles/user/user-1", "user-2", payload)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 when the caller is not the named owner, got %d", status)
	}
	if _, ok := store.profiles["user-1"]; ok {
		t.Error("Expected no profile to be written for a rejected caller")
	}

	status, _ = doRequest(t, app, "PUT", "/protected/profiles/user/user-1", "user-1", payload)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 for the owner, got %d", status)
	}
	if p, ok := store.profiles["user-1"]; !ok || p.Bio != "hello" {
		t.Errorf("Expected the owner's write to land, got %+v", p)
	}
}

func TestDeleteMeIsIdempotent(t *testing.T) {
	app := newTestApp(newStubProfileStore())

	status, _ := doRequest(t, app, "POST", "/protected/profiles/me", "user-1", map[string]any{
		"profile": map[string]any{"bio": "hello"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on upsert, got %d", status)
	}

	status, _ = doRequest(t, app, "DELETE", "/protected/profiles/me", "user-1", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on cascade delete, got %d", status)
	}

	status, _ = doRequest(t, app, "DELETE", "/protected/profiles/me", "user-1", nil)
	if status != fiber.StatusOK {
		t.Errorf("Expected re-delete to succeed, got %d", status)
	}

	status, _ = doRequest(t, app, "GET", "/protected/profiles/me", "user-1", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", status)
	}
}

func TestPublicListProfiles(t *testing.T) {
	store := newStubProfileStore()
	app := newTestApp(store)

	status, _ := doRequest(t, app, "POST", "/protected/profiles/me", "user-1", map[string]any{
		"profile": map[string]any{"bio": "hello"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on upsert, got %d", status)
	}

	// Public list requires no credentials.
	status, body := doRequest(t, app, "GET", "/public/profiles/", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200 on public list, got %d", status)
	}

	data := body["data"].(map[string]any)
	profiles := data["profiles"].([]any)
	if len(profiles) != 1 {
		t.Errorf("Expected 1 profile, got %d", len(profiles))
	}
}
