package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"profile-service/internal/middleware"
	"profile-service/internal/models"
	"profile-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)

	// PUBLIC ROUTES - anyone may browse profiles
	publicGroup := app.Group("/public/profiles")
	publicGroup.Get("/", h.ListProfiles)
	publicGroup.Get("/user/:userId", h.GetProfileByOwner)

	// PROTECTED ROUTES - mutations require the authenticated owner
	protectedGroup := app.Group("/protected/profiles", middleware.AuthRequired())
	protectedGroup.Get("/me", h.GetMe)
	protectedGroup.Post("/me", h.UpsertMe, middleware.PermissionRequired(middleware.UpdateProfilePermission))
	protectedGroup.Delete("/me", h.DeleteMe, middleware.PermissionRequired(middleware.DeleteProfilePermission))
	protectedGroup.Put("/user/:userId", h.UpsertByOwner, middleware.OwnerPermissionRequired(""), middleware.PermissionRequired(middleware.UpdateProfilePermission))
	protectedGroup.Put("/me/experience", h.AddExperience, middleware.PermissionRequired(middleware.UpdateProfilePermission))
	protectedGroup.Delete("/me/experience/:expId", h.RemoveExperience, middleware.PermissionRequired(middleware.UpdateProfilePermission))
}

func (h *ProfileHandler) HealthCheck(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Profile Service is healthy")
}

func (h *ProfileHandler) ListProfiles(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profiles, err := h.profileService.List(ctx, page, limit)
	if err != nil {
		log.Printf("Failed to list profiles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve profiles",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profiles": profiles,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"count": len(profiles),
			},
		},
	})
}

func (h *ProfileHandler) GetProfileByOwner(c fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		log.Printf("Failed to get profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID := c.Get(middleware.UserIDHeader)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile, err := h.profileService.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "There is no profile for this user",
			})
		}
		log.Printf("Failed to get profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

func (h *ProfileHandler) UpsertMe(c fiber.Ctx) error {
	userID := c.Get(middleware.UserIDHeader)

	var req models.UpsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.Upsert(ctx, userID, &req.Profile)
	if err != nil {
		log.Printf("Failed to upsert profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile saved successfully",
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

// UpsertByOwner is the by-param flavor of UpsertMe; the ownership gate on
// the route guarantees the param matches the authenticated caller.
func (h *ProfileHandler) UpsertByOwner(c fiber.Ctx) error {
	userID := c.Params("userId")

	var req models.UpsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.Upsert(ctx, userID, &req.Profile)
	if err != nil {
		log.Printf("Failed to upsert profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile saved successfully",
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

func (h *ProfileHandler) DeleteMe(c fiber.Ctx) error {
	userID := c.Get(middleware.UserIDHeader)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.profileService.DeleteCascade(ctx, userID); err != nil {
		log.Printf("Failed to cascade delete user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User deleted",
	})
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	userID := c.Get(middleware.UserIDHeader)

	var req models.AddExperienceRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.AddExperience(ctx, userID, &req)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": verr.Errors,
			})
		}
		log.Printf("Failed to add experience for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add experience",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Experience added successfully",
		"data": fiber.Map{
			"profile": profile,
		},
	})
}

func (h *ProfileHandler) RemoveExperience(c fiber.Ctx) error {
	userID := c.Get(middleware.UserIDHeader)
	expID := c.Params("expId")
	if expID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Experience ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.profileService.RemoveExperience(ctx, userID, expID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "There is no profile for this user",
			})
		}
		if errors.Is(err, models.ErrExperienceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Experience entry not found",
			})
		}
		log.Printf("Failed to remove experience %s for user %s: %v", expID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove experience",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Experience removed successfully",
		"data": fiber.Map{
			"profile": profile,
		},
	})
}
