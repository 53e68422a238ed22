package domain

import "errors"

// Error taxonomy shared by services and handlers. Ledger-miss, bad signature,
// expiry and malformed claims all collapse into ErrInvalidToken; callers are
// not told which one happened.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidToken     = errors.New("invalid token")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("duplicate entry")
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidOperation = errors.New("invalid operation")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotApproved    = errors.New("user not approved by admin")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Product errors
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this name already exists")
)
