package services

import (
	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/core/domain"
)

// Access gate predicates. Handlers compose these after resolving the user;
// resource existence is always checked before ownership so a missing resource
// yields 404, never 403.

// RequireAdminApproved fails unless the user has been approved by an admin
func RequireAdminApproved(user *models.User) error {
	if !user.IsAdminApproved {
		return domain.ErrForbidden
	}
	return nil
}

// RequireAdmin fails unless the user is an admin
func RequireAdmin(user *models.User) error {
	if !user.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin fails unless the user is an admin or owns the resource
func RequireOwnerOrAdmin(user *models.User, ownerID uint) error {
	if user.IsAdmin || user.ID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}
