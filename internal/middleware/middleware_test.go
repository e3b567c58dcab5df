package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/guarded/:userId", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, handler)
	return app
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(AuthRequired())

	req := httptest.NewRequest("GET", "/guarded/u1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without identity header, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/guarded/u1", nil)
	req.Header.Set(UserIDHeader, "u1")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with identity header, got %d", resp.StatusCode)
	}
}

func TestPermissionRequired(t *testing.T) {
	app := newTestApp(PermissionRequired(UpdateProfilePermission))

	cases := []struct {
		name        string
		permissions string
		want        int
	}{
		{"no permissions", "", fiber.StatusUnauthorized},
		{"wrong permission", "read:profile", fiber.StatusUnauthorized},
		{"exact permission", "read:profile,update:profile", fiber.StatusOK},
		{"admin bypass", "admin", fiber.StatusOK},
		{"manager bypass", "manager", fiber.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/guarded/u1", nil)
			if tc.permissions != "" {
				req.Header.Set(PermissionsHeader, tc.permissions)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestOwnerPermissionRequired(t *testing.T) {
	app := newTestApp(OwnerPermissionRequired(""))

	req := httptest.NewRequest("GET", "/guarded/u1", nil)
	req.Header.Set(UserIDHeader, "u2")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for a non-owner, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/guarded/u1", nil)
	req.Header.Set(UserIDHeader, "u1")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 for the owner, got %d", resp.StatusCode)
	}
}
