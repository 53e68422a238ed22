package services

import (
	"context"
	"errors"
	"log"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/domain"
	"stockroom/internal/pkg/pagination"
	"stockroom/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic
type UserService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Filter repositories.UserFilter
	Page   int
	Limit  int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Meta  *pagination.Meta       `json:"meta"`
}

// UpdateProfileInput carries optional fields; only present fields are applied
type UpdateProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with pagination and an optional status filter
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	params := pagination.Normalize(input.Page, input.Limit)

	users, total, err := s.userRepo.List(ctx, input.Filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	return &ListUsersOutput{
		Users: responses,
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// UpdateProfile applies the present fields of input to the user, one by one
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = *input.Email
	}

	if input.Password != nil {
		if !password.Validate(*input.Password) {
			return nil, domain.ErrValidation
		}
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// Approve marks a user as admin-approved. Admins themselves cannot be the
// target of an approval.
func (s *UserService) Approve(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin {
		return nil, domain.ErrInvalidOperation
	}

	user.IsAdminApproved = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User approved: %s", user.Username)
	return user.ToResponse(), nil
}

// Delete soft-deletes a user and purges their ledger rows so outstanding
// sessions die with the account.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ User deleted (id=%d)", userID)
	return nil
}
