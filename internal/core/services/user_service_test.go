package services

import (
	"context"
	"testing"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/domain"
	"stockroom/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username string, admin, approved bool) *models.User {
	t.Helper()
	hashed, err := password.Hash("password1")
	require.NoError(t, err)
	user := &models.User{
		Username:        username,
		Email:           username + "@x.com",
		Password:        hashed,
		IsActive:        true,
		IsAdmin:         admin,
		IsAdminApproved: approved,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestApproveTogglesFlag(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	user := seedUser(t, userRepo, "alice", false, false)

	resp, err := svc.Approve(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsAdminApproved)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdminApproved)
}

func TestApproveMissingUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeTokenRepo())

	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestApproveAdminIsInvalid(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	admin := seedUser(t, userRepo, "root", true, true)

	_, err := svc.Approve(context.Background(), admin.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestUpdateProfileAppliesPresentFieldsOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	user := seedUser(t, userRepo, "alice", false, true)
	ctx := context.Background()

	newEmail := "new@x.com"
	resp, err := svc.UpdateProfile(ctx, user.ID, &UpdateProfileInput{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", resp.Email)

	stored, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", stored.Email)
	// Untouched field survives
	assert.True(t, password.Verify("password1", stored.Password))

	newPass := "password2"
	_, err = svc.UpdateProfile(ctx, user.ID, &UpdateProfileInput{Password: &newPass})
	require.NoError(t, err)

	stored, err = userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("password2", stored.Password))
	assert.False(t, password.Verify("password1", stored.Password))
	assert.Equal(t, "new@x.com", stored.Email)
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	seedUser(t, userRepo, "alice", false, true)
	bob := seedUser(t, userRepo, "bob", false, true)

	taken := "alice@x.com"
	_, err := svc.UpdateProfile(context.Background(), bob.ID, &UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	user := seedUser(t, userRepo, "alice", false, true)

	short := "short"
	_, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileInput{Password: &short})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteUserPurgesSessions(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	svc := NewUserService(userRepo, tokenRepo)
	user := seedUser(t, userRepo, "alice", false, true)
	ctx := context.Background()

	require.NoError(t, tokenRepo.Create(ctx, &models.Token{
		UserID: user.ID, AccessToken: "a", RefreshToken: "r",
	}))

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err := userRepo.GetByID(ctx, user.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, tokenRepo.countByUserID(user.ID))

	// Deleting again reports not found
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), domain.ErrUserNotFound)
}

func TestListUsersFilters(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeTokenRepo())
	seedUser(t, userRepo, "alice", false, true)
	seedUser(t, userRepo, "bob", false, false)
	inactive := seedUser(t, userRepo, "carol", false, false)
	inactive.IsActive = false
	require.NoError(t, userRepo.Update(context.Background(), inactive))
	ctx := context.Background()

	all, err := svc.ListUsers(ctx, &ListUsersInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Meta.Total)

	approved, err := svc.ListUsers(ctx, &ListUsersInput{Filter: repositories.UserFilterApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved.Meta.Total)
	assert.Equal(t, "alice", approved.Users[0].Username)

	unapproved, err := svc.ListUsers(ctx, &ListUsersInput{Filter: repositories.UserFilterUnapproved})
	require.NoError(t, err)
	assert.Equal(t, int64(2), unapproved.Meta.Total)

	active, err := svc.ListUsers(ctx, &ListUsersInput{Filter: repositories.UserFilterActive})
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.Meta.Total)
}
