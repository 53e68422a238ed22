package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/services"
	"stockroom/internal/pkg/jwt"
	"stockroom/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Minimal in-memory repositories, just enough for the resolver path.

type memUserRepo struct {
	users map[uint]*models.User
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *memUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (r *memUserRepo) Delete(ctx context.Context, id uint) error           { return nil }
func (r *memUserRepo) List(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}
func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type memTokenRepo struct {
	rows map[string]*models.Token
}

func (r *memTokenRepo) Create(ctx context.Context, token *models.Token) error {
	r.rows[token.AccessToken] = token
	return nil
}
func (r *memTokenRepo) GetByTokenString(ctx context.Context, s string) (*models.Token, error) {
	for _, row := range r.rows {
		if row.AccessToken == s || row.RefreshToken == s {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *memTokenRepo) GetByRefreshToken(ctx context.Context, s string) (*models.Token, error) {
	for _, row := range r.rows {
		if row.RefreshToken == s {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *memTokenRepo) Delete(ctx context.Context, id uint) error { return nil }
func (r *memTokenRepo) DeleteAllByUserID(ctx context.Context, userID uint) error {
	for k, row := range r.rows {
		if row.UserID == userID {
			delete(r.rows, k)
		}
	}
	return nil
}
func (r *memTokenRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newAuthTestApp(t *testing.T) (*fiber.App, *memTokenRepo, *jwt.Issuer) {
	t.Helper()

	issuer := jwt.NewIssuer("test-secret", 15, 7)
	userRepo := &memUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", IsActive: true, IsAdminApproved: true},
	}}
	tokenRepo := &memTokenRepo{rows: map[string]*models.Token{}}
	authService := services.NewAuthService(userRepo, tokenRepo, issuer)

	app := fiber.New()
	app.Get("/protected", RequireAuth(authService), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", CurrentUser(c).Username)
	})

	return app, tokenRepo, issuer
}

func issueLedgeredToken(t *testing.T, tokenRepo *memTokenRepo, issuer *jwt.Issuer) string {
	t.Helper()

	access, err := issuer.GenerateAccessToken(1, "alice")
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(1, "alice")
	require.NoError(t, err)
	require.NoError(t, tokenRepo.Create(context.Background(), &models.Token{
		UserID:       1,
		AccessToken:  access,
		RefreshToken: refresh,
	}))
	return access
}

func TestRequireAuthMissingBearer(t *testing.T) {
	app, _, _ := newAuthTestApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, response.StatusError, body.Status)
	assert.Equal(t, "Access token required", body.Message)
}

func TestRequireAuthValidToken(t *testing.T) {
	app, tokenRepo, issuer := newAuthTestApp(t)
	access := issueLedgeredToken(t, tokenRepo, issuer)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice", body.Data)
}

func TestRequireAuthRevokedToken(t *testing.T) {
	app, tokenRepo, issuer := newAuthTestApp(t)
	access := issueLedgeredToken(t, tokenRepo, issuer)

	// Logout removes the ledger rows; the signature is still valid
	require.NoError(t, tokenRepo.DeleteAllByUserID(context.Background(), 1))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid token", body.Message)
}

func TestRequireApprovedBlocksUnapproved(t *testing.T) {
	app := fiber.New()
	app.Get("/gated", func(c *fiber.Ctx) error {
		c.Locals(userKey, &models.User{Username: "pending", IsActive: true})
		return c.Next()
	}, RequireApproved(), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})

	req := httptest.NewRequest("GET", "/gated", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminBlocksNonAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals(userKey, &models.User{Username: "alice", IsActive: true, IsAdminApproved: true})
		return c.Next()
	}, RequireAdmin(), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
