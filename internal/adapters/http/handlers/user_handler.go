package handlers

import (
	"errors"
	"log"
	"strconv"

	"stockroom/internal/adapters/http/middleware"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/domain"
	"stockroom/internal/core/services"
	"stockroom/internal/pkg/pagination"
	"stockroom/internal/pkg/response"
	"stockroom/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}
	return response.Success(c, "Profile retrieved", user.ToResponse())
}

// UpdateMe updates the authenticated user's profile
// @Summary Update own profile
// @Description Apply only the fields present in the body
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	updated, err := h.userService.UpdateProfile(c.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Email already in use")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			log.Printf("❌ Profile update failed: %v", err)
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated", updated)
}

// List lists users (admin only)
// @Summary List users
// @Description Paginated user listing with an optional status filter
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param filter query string false "active | approved | unapproved"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.UserFilter(c.Query("filter"))
	switch filter {
	case repositories.UserFilterAll, repositories.UserFilterActive,
		repositories.UserFilterApproved, repositories.UserFilterUnapproved:
	default:
		return response.BadRequest(c, "Invalid filter")
	}

	result, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Filter: filter,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		log.Printf("❌ User listing failed: %v", err)
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved", result)
}

// Approve approves a registered user (admin only)
// @Summary Approve user
// @Description Mark a user admin-approved so they can log in
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{user_id}/approve [post]
func (h *UserHandler) Approve(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.Approve(c.Context(), uint(userID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidOperation):
			return response.BadRequest(c, "Admin accounts cannot be approved")
		default:
			log.Printf("❌ User approval failed: %v", err)
			return response.InternalServerError(c, "Failed to approve user")
		}
	}

	return response.Success(c, "User approved", user)
}

// Delete soft-deletes a user (admin only)
// @Summary Delete user
// @Description Soft-delete the account and revoke all of its sessions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{user_id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.Context(), uint(userID)); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			log.Printf("❌ User deletion failed: %v", err)
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted", nil)
}
