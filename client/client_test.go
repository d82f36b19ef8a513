package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsJSONAndBearer(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("my-token")))

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Post(context.Background(), "/api/cars", map[string]string{"make": "Kia"}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "Bearer my-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Get(context.Background(), "/api/cars", nil))
	assert.Empty(t, gotAuth)
}

func TestClient_NonOKBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found","message":"car not found with id 42"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/api/cars/42", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "API Error 404")
	assert.Contains(t, apiErr.Body, "car not found")
}

func TestClient_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.Delete(context.Background(), "/api/cars/1", nil))
}

func TestSession_LoginPersistsAndReloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "a strong password" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123","user":{"id":1,"name":"Admin","email":"admin@example.com","role":"admin"}}`))
	}))
	defer srv.Close()

	credsPath := filepath.Join(t.TempDir(), "credentials.json")

	session, err := NewSession(credsPath)
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, session.State())

	c := New(srv.URL)
	require.NoError(t, session.Login(context.Background(), c, "admin@example.com", "a strong password"))
	assert.Equal(t, "tok-123", session.Token())
	require.NotNil(t, session.User())
	assert.Equal(t, "admin@example.com", session.User().Email)

	// A fresh session hydrates from the credentials file.
	reloaded, err := NewSession(credsPath)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reloaded.Token())
	require.NotNil(t, reloaded.User())
	assert.Equal(t, "Admin", reloaded.User().Name)

	// Logout wipes memory and disk.
	require.NoError(t, reloaded.Logout())
	assert.Equal(t, StateUnauthenticated, reloaded.State())

	cleared, err := NewSession(credsPath)
	require.NoError(t, err)
	assert.Empty(t, cleared.Token())
}

func TestSession_LoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized","message":"invalid email or password"}`))
	}))
	defer srv.Close()

	session, err := NewSession("")
	require.NoError(t, err)

	err = session.Login(context.Background(), New(srv.URL), "x@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, session.Token())
}

func TestSession_ExpiredState(t *testing.T) {
	// Token with exp in the past: header/claims are unsigned garbage but the
	// exp claim is readable, which is all State() looks at.
	header := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"
	claims := "eyJleHAiOjk0NjY4NDgwMH0" // {"exp":946684800} — year 2000
	token := header + "." + claims + ".sig"

	session := &Session{token: token}
	assert.Equal(t, StateExpired, session.State())
}
