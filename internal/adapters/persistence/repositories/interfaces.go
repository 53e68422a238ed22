package repositories

import (
	"context"
	"time"

	"stockroom/internal/adapters/persistence/models"
)

// UserFilter narrows user listings
type UserFilter string

const (
	UserFilterAll        UserFilter = ""
	UserFilterActive     UserFilter = "active"
	UserFilterApproved   UserFilter = "approved"
	UserFilterUnapproved UserFilter = "unapproved"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenRepository defines the session ledger interface. Rows are hard-deleted:
// absence is what revokes a token.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByTokenString(ctx context.Context, tokenString string) (*models.Token, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Token, error)
	Delete(ctx context.Context, id uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProductRepository defines product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id uint, deletedBy uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*models.Product, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
}
