package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	// Headers injected by the gateway after credential verification. The
	// service treats the user id as an opaque, trusted owner key.
	UserIDHeader      = "X-User-ID"
	PermissionsHeader = "X-User-Permissions"

	// Profile permissions
	ReadProfilePermission   = "read:profile"
	UpdateProfilePermission = "update:profile"
	DeleteProfilePermission = "delete:profile"

	AdminPermission   = "admin"
	ManagerPermission = "manager"
)

// AuthRequired rejects requests that arrived without an authenticated owner
// identity.
func AuthRequired() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Get(UserIDHeader) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

func PermissionRequired(requiredPermission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		log.Println("Permission required function called from", c.IP(), "Calling", c.Method(), "Request", c.OriginalURL())
		userPermissions := c.Get(PermissionsHeader)
		hasPermission := false
		if userPermissions != "" {
			permissions := strings.Split(userPermissions, ",")

			for _, perm := range permissions {
				if perm == requiredPermission || strings.HasPrefix(perm, AdminPermission) || strings.HasPrefix(perm, ManagerPermission) {
					hasPermission = true
					break
				}
			}
		}

		if !hasPermission {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

func OwnerPermissionRequired(userID string) fiber.Handler {
	return func(c fiber.Ctx) error {
		log.Println("Owner required function called from", c.IP(), "Calling", c.Method(), "Request", c.OriginalURL())

		owner := userID
		if owner == "" {
			owner = c.Params("userId")
			if owner == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
		}

		if c.Get(UserIDHeader) != owner {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}
