package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gccheapcars/rental-api/internal/model"
)

// SessionState describes whether a session can make authenticated calls.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
	StateExpired         SessionState = "expired"
)

// credentials is the JSON shape persisted to the credentials file.
type credentials struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Session holds a logged-in identity for a Client and optionally persists
// it to disk so CLI invocations stay logged in between runs.
//
// A Session is also a TokenSource — wire it into a Client with
// WithTokenSource and every request it makes carries the session's token.
type Session struct {
	path  string // credentials file; empty means memory-only
	token string
	user  *model.User
}

var _ TokenSource = (*Session)(nil)

// NewSession creates an empty session. If path is non-empty and the file
// exists, the stored credentials are loaded; a missing file just means
// nobody has logged in yet.
func NewSession(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	s.token = creds.Token
	s.user = creds.User
	return s, nil
}

// Token implements TokenSource.
func (s *Session) Token() string { return s.token }

// User returns the logged-in user record, or nil.
func (s *Session) User() *model.User { return s.user }

// loginResponse matches the server's /api/auth/login payload.
type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login authenticates against the server and stores the result in the
// session (and its credentials file, if any). The passed Client need not be
// authenticated — login is a public endpoint.
func (s *Session) Login(ctx context.Context, c *Client, email, password string) error {
	var resp loginResponse
	err := c.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}

	s.token = resp.Token
	s.user = resp.User
	return s.save()
}

// Logout clears the session in memory and removes the credentials file.
func (s *Session) Logout() error {
	s.token = ""
	s.user = nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}

// State reports whether the session's token is present and unexpired.
//
// The expiry check decodes the token's claims WITHOUT verifying the
// signature — the client doesn't hold the server's secret, and the point is
// only to skip a doomed request, not to trust the token. The server always
// re-verifies.
func (s *Session) State() SessionState {
	if s.token == "" {
		return StateUnauthenticated
	}

	exp, err := tokenExpiry(s.token)
	if err != nil {
		// Unparseable token: present it anyway and let the server judge.
		return StateAuthenticated
	}
	if time.Now().After(exp) {
		return StateExpired
	}
	return StateAuthenticated
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(credentials{Token: s.token, User: s.user})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	// 0600: the token grants admin access, keep it owner-readable only.
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// tokenExpiry extracts the exp claim from a JWT's payload segment.
func tokenExpiry(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, errors.New("not a JWT")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("decoding claims: %w", err)
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing claims: %w", err)
	}
	if claims.Exp == 0 {
		return time.Time{}, errors.New("no exp claim")
	}
	return time.Unix(claims.Exp, 0), nil
}
