package google

import (
	"net/url"
	"testing"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func TestProvider_AuthURL(t *testing.T) {
	p := &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:    "client-id",
			RedirectURL: "https://api.example.com/auth/google/callback",
			Endpoint:    google.Endpoint,
			Scopes:      []string{"openid", "profile", "email"},
		},
	}

	raw := p.AuthURL("state-123")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthURL returned unparseable URL: %v", err)
	}

	query := parsed.Query()
	if got := query.Get("client_id"); got != "client-id" {
		t.Errorf("Expected client_id 'client-id', got '%s'", got)
	}
	if got := query.Get("redirect_uri"); got != "https://api.example.com/auth/google/callback" {
		t.Errorf("Expected the registered callback URL, got '%s'", got)
	}
	if got := query.Get("scope"); got != "openid profile email" {
		t.Errorf("Expected scopes 'openid profile email', got '%s'", got)
	}
	if got := query.Get("access_type"); got != "offline" {
		t.Errorf("Expected offline access, got '%s'", got)
	}
	if got := query.Get("state"); got != "state-123" {
		t.Errorf("Expected state 'state-123', got '%s'", got)
	}
	if got := query.Get("response_type"); got != "code" {
		t.Errorf("Expected response_type 'code', got '%s'", got)
	}
}
