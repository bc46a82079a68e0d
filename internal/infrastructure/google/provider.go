package google

import (
	"context"
	"fmt"
	"time"

	"passage/internal/config"
	"passage/internal/domain/auth"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const issuerURL = "https://accounts.google.com"

// requestTimeout bounds every outbound call to Google.
const requestTimeout = 10 * time.Second

// Provider implements auth.IdentityProvider against Google's OAuth2
// endpoints. The single long-lived instance is constructed at process
// start and passed into the handshake service explicitly.
type Provider struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewProvider builds the OAuth client configuration and fetches
// Google's discovery document for ID token verification.
func NewProvider(ctx context.Context, cfg *config.GoogleConfig) (*Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}

	return &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthURL returns the consent URL, requesting offline access so Google
// issues a refresh token alongside the authorization code.
func (p *Provider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for Google tokens.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return p.oauth2Config.Exchange(ctx, code)
}

// Verify validates the ID token carried in the token response and
// extracts the identity claims.
func (p *Provider) Verify(ctx context.Context, token *oauth2.Token) (*auth.IdentityClaims, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("no id_token in token response")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify ID token: %w", err)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse ID token claims: %w", err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("ID token has no payload")
	}

	audience := ""
	if len(idToken.Audience) > 0 {
		audience = idToken.Audience[0]
	}

	return &auth.IdentityClaims{
		Subject:   claims.Sub,
		Email:     claims.Email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		Audience:  audience,
		ExpiresAt: idToken.Expiry,
	}, nil
}
