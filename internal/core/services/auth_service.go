package services

import (
	"context"
	"errors"
	"log"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/domain"
	"stockroom/internal/pkg/jwt"
	"stockroom/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration, login and session resolution
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	issuer    *jwt.Issuer
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	issuer *jwt.Issuer,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		issuer:    issuer,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new user. The user starts unapproved and cannot log in
// until an admin approves the account.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if !password.Validate(input.Password) {
		return nil, domain.ErrValidation
	}

	// Advisory pre-checks; the unique indexes are the authoritative guard.
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration slipping past the pre-check lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ User registered: %s (awaiting admin approval)", user.Username)

	return user.ToResponse(), nil
}

// Login authenticates a user and records the issued pair in the ledger
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !user.IsAdminApproved {
		return nil, domain.ErrUserNotApproved
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)
	return resp, nil
}

// Refresh rotates a session: the presented refresh token's ledger row is
// deleted and a fresh pair is issued and recorded.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	stored, err := s.tokenRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	claims, err := s.issuer.Parse(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != jwt.TypeRefresh || claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := s.tokenRepo.Delete(ctx, stored.ID); err != nil {
		return nil, err
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Session refreshed for user: %s", user.Username)
	return resp, nil
}

// Logout deletes every ledger row for the user, revoking all of their
// outstanding tokens at once.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ User logged out (id=%d)", userID)
	return nil
}

// ResolveToken turns a bearer token into a user. The ledger is consulted
// before the signature: a cryptographically valid token whose row has been
// deleted is already revoked. Decode failure and expiry are reported as the
// same error, so callers cannot tell them apart.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := s.tokenRepo.GetByTokenString(ctx, tokenString); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}

	// A missing user means a dangling ledger row; a store failure is not a
	// verdict on the token and surfaces as-is.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// issueSession generates an access/refresh pair and inserts the ledger row.
// The insert is a single statement, so a returned pair is always recorded.
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := s.issuer.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issuer.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	token := &models.Token{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
