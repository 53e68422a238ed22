package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Token kinds embedded in the token_type claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims represents the JWT claims for both token kinds
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Issuer creates and parses signed tokens. Secret and lifetimes come from
// configuration at construction time; nothing here is package-global.
type Issuer struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

// NewIssuer creates a token issuer
func NewIssuer(secret string, accessMinutes, refreshDays int) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshDays) * 24 * time.Hour,
		issuer:        "stockroom",
	}
}

// RefreshExpiry returns the configured refresh token lifetime
func (i *Issuer) RefreshExpiry() time.Duration {
	return i.refreshExpiry
}

// GenerateAccessToken generates a new short-lived access token
func (i *Issuer) GenerateAccessToken(userID uint, username string) (string, error) {
	return i.generate(userID, username, TypeAccess, i.accessExpiry)
}

// GenerateRefreshToken generates a new long-lived refresh token
func (i *Issuer) GenerateRefreshToken(userID uint, username string) (string, error) {
	return i.generate(userID, username, TypeRefresh, i.refreshExpiry)
}

func (i *Issuer) generate(userID uint, username, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			Subject:   username,
			ID:        uuid.New().String(), // jti keeps every issued token unique
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies signature and expiry and returns the claims
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
