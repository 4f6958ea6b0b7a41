package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

func newTestTokenCache(authURL string) *TokenCache {
	return NewTokenCache(config.IGDBConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      authURL,
		Timeout:      5,
	}, zerolog.Nop())
}

func TestGetTokenExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("client_id") != "client-id" {
			t.Errorf("client_id = %q", r.PostForm.Get("client_id"))
		}
		if r.PostForm.Get("client_secret") != "client-secret" {
			t.Errorf("client_secret = %q", r.PostForm.Get("client_secret"))
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600,"token_type":"bearer"}`))
	}))
	defer server.Close()

	tc := newTestTokenCache(server.URL)
	token, err := tc.GetToken(context.Background())
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
	if !tc.Authenticated() {
		t.Error("Authenticated() = false after successful exchange")
	}
}

func TestGetTokenUsesCachedWhenFresh(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"access_token":"tok-new","expires_in":3600}`))
	}))
	defer server.Close()

	tc := newTestTokenCache(server.URL)
	tc.token = "tok-cached"
	tc.expiry = time.Now().Add(120 * time.Second)

	token, err := tc.GetToken(context.Background())
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if token != "tok-cached" {
		t.Errorf("token = %q, want the cached tok-cached", token)
	}
	if calls != 0 {
		t.Errorf("identity provider was called %d times, want 0", calls)
	}
}

func TestGetTokenRefreshesNearExpiry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"access_token":"tok-new","expires_in":3600}`))
	}))
	defer server.Close()

	tc := newTestTokenCache(server.URL)
	tc.token = "tok-stale"
	// Raw provider expiry 30s out lands behind the 60s safety margin, so
	// the adjusted instant is already in the past.
	tc.expiry = time.Now().Add(30*time.Second - tokenSafetyMargin)

	token, err := tc.GetToken(context.Background())
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if token != "tok-new" {
		t.Errorf("token = %q, want the refreshed tok-new", token)
	}
	if calls != 1 {
		t.Errorf("identity provider was called %d times, want 1", calls)
	}
}

func TestGetTokenExchangeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tc := newTestTokenCache(server.URL)
	_, err := tc.GetToken(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
	if tc.Authenticated() {
		t.Error("Authenticated() = true after rejected exchange")
	}
}

func TestGetTokenMissingCredentials(t *testing.T) {
	tc := NewTokenCache(config.IGDBConfig{AuthURL: "http://localhost", Timeout: 5}, zerolog.Nop())

	_, err := tc.GetToken(context.Background())
	if !errors.Is(err, ErrCredentialsMissing) {
		t.Errorf("expected ErrCredentialsMissing, got %v", err)
	}
}

func TestGetTokenEmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":3600}`))
	}))
	defer server.Close()

	tc := newTestTokenCache(server.URL)
	_, err := tc.GetToken(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed for empty token, got %v", err)
	}
}
