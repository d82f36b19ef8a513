// Package auth provides JWT token generation and validation plus the
// middleware that gates the admin API.
//
// AUTHENTICATION FLOW:
// 1. Admin posts email/password to /api/auth/login
// 2. Server verifies the bcrypt hash, issues a signed JWT
// 3. The frontend stores the token and sends it back as
//    "Authorization: Bearer <token>" on admin calls
// 4. Middleware validates the token and puts the identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (user ID, role, expiry) is inside the signed
// token. The signature ensures nobody can tamper with it without the secret key.
//
// SESSION LIFECYCLE:
// A token is *issued* with IssuedAt/ExpiresAt, *valid* until ExpiresAt, then
// *expired* (Validate rejects it). There is no server-side revocation list;
// logout just discards the token client-side. At 24h lifetimes and one admin,
// a revocation store would be machinery without a customer.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gccheapcars/rental-api/internal/model"
)

// tokenIssuer identifies tokens minted by this service. Validation rejects
// tokens from anything else claiming to be us.
const tokenIssuer = "gc-rental-api"

// TokenTTL is how long an issued token stays valid. The admin console is
// used in bursts (update the fleet, check bookings, leave), so a working-day
// lifetime with a fresh login each morning is the right trade-off.
const TokenTTL = 24 * time.Hour

// TokenService handles JWT creation and validation.
// It holds the HMAC secret key used to sign and verify tokens — the same
// secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Identity is what a validated token asserts about its bearer.
type Identity struct {
	UserID int64
	Role   model.Role
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Issuer, Subject,
// ExpiresAt, IssuedAt) and adds our one custom claim: the user's role, so the
// admin check doesn't need a database round trip per request.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and right for a
// single-server deployment where issuer and verifier are the same process.
func (s *TokenService) Generate(userID int64, role model.Role) (string, error) {
	return s.GenerateWithDuration(userID, role, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the identity it
// asserts.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks — without
//     jwt.WithValidMethods an attacker could submit an unsigned "none" token)
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	var userID int64
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil || userID <= 0 {
		return nil, fmt.Errorf("auth: token has an invalid subject")
	}

	role := model.Role(c.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("auth: token has an invalid role")
	}

	return &Identity{UserID: userID, Role: role}, nil
}
