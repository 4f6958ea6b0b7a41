package igdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gamedex/gamedex/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(config.IGDBConfig{
		ProxyURL: server.URL + "/igdb",
		Timeout:  5,
	}, zerolog.Nop())
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.IGDBConfig{}, zerolog.Nop())
	_, err := client.GameByName(context.Background(), "Portal")
	if err != ErrProxyURLMissing {
		t.Errorf("GameByName() error = %v, want %v", err, ErrProxyURLMissing)
	}
}

func TestClient_GameByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/igdb" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		for _, want := range []string{"fields name", `where name ~ "Portal"`, "limit 1;"} {
			if !strings.Contains(payload.Query, want) {
				t.Errorf("query missing %q:\n%s", want, payload.Query)
			}
		}

		json.NewEncoder(w).Encode([]Game{
			{
				ID:        71,
				Name:      "Portal",
				Summary:   "A puzzle game.",
				Storyline: "Wake up in Aperture.",
				InvolvedCompanies: []InvolvedCompany{
					{Company: Named{Name: "Valve"}, Developer: true, Publisher: true},
					{Company: Named{Name: "EA"}, Publisher: true},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	game, err := client.GameByName(context.Background(), "Portal")
	if err != nil {
		t.Fatalf("GameByName() error = %v", err)
	}
	if game == nil {
		t.Fatal("GameByName() returned nil game")
	}
	if game.Name != "Portal" {
		t.Errorf("Name = %q, want %q", game.Name, "Portal")
	}

	devs := game.DeveloperNames()
	if len(devs) != 1 || devs[0] != "Valve" {
		t.Errorf("DeveloperNames() = %v, want [Valve]", devs)
	}
	pubs := game.PublisherNames()
	if len(pubs) != 2 {
		t.Errorf("PublisherNames() = %v, want two entries", pubs)
	}
}

func TestClient_GameByName_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server)
	game, err := client.GameByName(context.Background(), "does not exist")
	if err != nil {
		t.Fatalf("GameByName() error = %v", err)
	}
	if game != nil {
		t.Errorf("GameByName() = %+v, want nil", game)
	}
}

func TestClient_GameByName_ProxyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"IGDB API request failed"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GameByName(context.Background(), "Portal")
	if err == nil {
		t.Fatal("GameByName() error = nil, want proxy error")
	}
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Portal", "Portal"},
		{`Quote"Break`, "QuoteBreak"},
		{"semi;colon", "semicolon"},
	}
	for _, tt := range tests {
		if got := escapeQuery(tt.in); got != tt.want {
			t.Errorf("escapeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
